package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/media-handler/internal/media"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:   "resolve",
		Usage:  "Resolve a media reference and print the result as JSON",
		Action: resolve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "ref",
				Aliases:     []string{"r"},
				Usage:       "asset path to resolve",
				Required:    true,
				Destination: &resolveOpts.ref,
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "accepted media format, repeat for several in preference order",
			},
			&cli.BoolFlag{
				Name:        "mandatory",
				Usage:       "every listed format must resolve",
				Destination: &resolveOpts.mandatory,
			},
			&cli.BoolFlag{
				Name:        "auto-crop",
				Usage:       "crop the original to the format ratio when needed",
				Destination: &resolveOpts.autoCrop,
			},
			&cli.Int64Flag{
				Name:        "width",
				Usage:       "fixed width in pixels",
				Destination: &resolveOpts.width,
			},
			&cli.Int64Flag{
				Name:        "height",
				Usage:       "fixed height in pixels",
				Destination: &resolveOpts.height,
			},
			&cli.StringFlag{
				Name:        "url-mode",
				Usage:       "default, no-hostname or full-url",
				Destination: &resolveOpts.urlMode,
			},
			&cli.BoolFlag{
				Name:        "markup",
				Usage:       "print only the HTML markup",
				Destination: &resolveOpts.markup,
			},
		},
	}
}

var resolveOpts struct {
	ref       string
	mandatory bool
	autoCrop  bool
	width     int64
	height    int64
	urlMode   string
	markup    bool
}

type resolveResult struct {
	Valid         bool             `json:"valid"`
	InvalidReason string           `json:"invalidReason,omitempty"`
	URL           string           `json:"url,omitempty"`
	Markup        string           `json:"markup,omitempty"`
	Rendition     *media.Rendition `json:"rendition,omitempty"`
}

func resolve(cc *cli.Context) error {
	a, err := wire(cc, nil)
	if err != nil {
		return err
	}

	b, err := a.handler.GetRef(resolveOpts.ref)
	if err != nil {
		return err
	}
	if formats := cc.StringSlice("format"); len(formats) > 0 {
		if resolveOpts.mandatory {
			b = b.MandatoryMediaFormatNames(formats...)
		} else {
			b = b.MediaFormatNames(formats...)
		}
	}
	if resolveOpts.urlMode != "" {
		b = b.URLMode(media.URLMode(resolveOpts.urlMode))
	}
	m, err := b.AutoCrop(resolveOpts.autoCrop).
		FixedWidth(resolveOpts.width).
		FixedHeight(resolveOpts.height).
		Build()
	if err != nil {
		return err
	}

	w := cc.App.Writer
	if resolveOpts.markup {
		_, err := fmt.Fprintln(w, m.Markup)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resolveResult{
		Valid:         m.Valid,
		InvalidReason: string(m.InvalidReason),
		URL:           m.URL,
		Markup:        m.Markup,
		Rendition:     m.Rendition,
	})
}
