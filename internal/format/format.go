// Package format defines named media formats and a registry to look them up.
//
// A format constrains renditions by fixed dimensions, minimum dimensions, an
// aspect ratio and allowed file extensions. Formats are plain values loaded from
// configuration; the registry is read-only after construction and safe for
// concurrent use.
package format

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// RatioTolerance is the maximum absolute difference between two ratios that
// still counts as a match.
const RatioTolerance = 0.05

var (
	// ErrUnknownFormat is returned when a format name is not registered
	ErrUnknownFormat = errors.New("unknown media format")

	// ErrInvalidFormat is returned for format definitions that cannot be registered
	ErrInvalidFormat = errors.New("invalid media format")
)

// Format is a named media format definition
type Format struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label,omitempty" json:"label,omitempty"`
	Width       int64    `yaml:"width,omitempty" json:"width,omitempty"`
	Height      int64    `yaml:"height,omitempty" json:"height,omitempty"`
	MinWidth    int64    `yaml:"minWidth,omitempty" json:"minWidth,omitempty"`
	MinHeight   int64    `yaml:"minHeight,omitempty" json:"minHeight,omitempty"`
	RatioWidth  float64  `yaml:"ratioWidth,omitempty" json:"ratioWidth,omitempty"`
	RatioHeight float64  `yaml:"ratioHeight,omitempty" json:"ratioHeight,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Download    bool     `yaml:"download,omitempty" json:"download,omitempty"`
}

// Ratio returns the aspect ratio (width/height), or 0 if the format has none
func (f Format) Ratio() float64 {
	switch {
	case f.RatioWidth > 0 && f.RatioHeight > 0:
		return f.RatioWidth / f.RatioHeight
	case f.Width > 0 && f.Height > 0:
		return float64(f.Width) / float64(f.Height)
	}
	return 0
}

// HasRatio reports whether the format constrains the aspect ratio
func (f Format) HasRatio() bool {
	return f.Ratio() > 0
}

// IsFixedDimension reports whether both width and height are fixed
func (f Format) IsFixedDimension() bool {
	return f.Width > 0 && f.Height > 0
}

// RequiredWidth is the fixed width, else the minimum width, else 0
func (f Format) RequiredWidth() int64 {
	if f.Width > 0 {
		return f.Width
	}
	return f.MinWidth
}

// RequiredHeight is the fixed height, else the minimum height, else 0
func (f Format) RequiredHeight() int64 {
	if f.Height > 0 {
		return f.Height
	}
	return f.MinHeight
}

// AllowsExtension reports whether ext is acceptable for this format
func (f Format) AllowsExtension(ext string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	for _, e := range f.Extensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

// RatioMatches reports whether two ratios match within RatioTolerance. A zero
// ratio matches everything.
func RatioMatches(want, got float64) bool {
	if want <= 0 {
		return true
	}
	return math.Abs(want-got) < RatioTolerance
}

func (f Format) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFormat)
	}
	if f.Width < 0 || f.Height < 0 || f.MinWidth < 0 || f.MinHeight < 0 || f.RatioWidth < 0 || f.RatioHeight < 0 {
		return fmt.Errorf("%w: %s has negative dimensions", ErrInvalidFormat, f.Name)
	}
	return nil
}

// Registry holds format definitions keyed by name
type Registry struct {
	formats map[string]Format
	order   []string
}

// NewRegistry creates a registry from format definitions. Names must be unique.
func NewRegistry(formats ...Format) (*Registry, error) {
	r := &Registry{formats: make(map[string]Format, len(formats))}
	for _, f := range formats {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.formats[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidFormat, f.Name)
		}
		f.Extensions = append([]string(nil), f.Extensions...)
		r.formats[f.Name] = f
		r.order = append(r.order, f.Name)
	}
	return r, nil
}

// Lookup returns the named format. Unknown names wrap ErrUnknownFormat and name
// the closest registered format when one is similar enough.
func (r *Registry) Lookup(name string) (Format, error) {
	if r != nil {
		if f, ok := r.formats[name]; ok {
			return f, nil
		}
	}
	if suggestion := r.suggest(name); suggestion != "" {
		return Format{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownFormat, name, suggestion)
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// All returns all formats in registration order
func (r *Registry) All() []Format {
	if r == nil {
		return nil
	}
	out := make([]Format, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.formats[name])
	}
	return out
}

func (r *Registry) suggest(name string) string {
	if r == nil {
		return ""
	}
	metric := metrics.NewLevenshtein()
	best, bestScore := "", 0.6
	for _, candidate := range r.order {
		score := strutil.Similarity(strings.ToLower(name), strings.ToLower(candidate), metric)
		if score >= bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}
