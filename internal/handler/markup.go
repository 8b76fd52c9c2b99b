package handler

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ironsheep/media-handler/internal/media"
)

// DummyClass marks placeholder images rendered for unresolved media
const DummyClass = "media-dummy"

// DropzoneClass marks images that accept drag & drop in authoring
const DropzoneClass = "media-dropzone"

// DefaultDummyImageURL is a transparent 1x1 GIF
const DefaultDummyImageURL = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func dimensionAttrs(w, h int64) []html.Attribute {
	var out []html.Attribute
	if w > 0 {
		out = append(out, attr("width", strconv.FormatInt(w, 10)))
	}
	if h > 0 {
		out = append(out, attr("height", strconv.FormatInt(h, 10)))
	}
	return out
}

// imageElement renders <img>, wrapped in <picture> when picture sources resolved
func imageElement(m *media.Media, args media.Args) *html.Node {
	r := m.Rendition
	img := element(atom.Img, attr("src", r.URL), attr("alt", m.Asset.AltText()))
	if args.Decorative {
		img.Attr = append(img.Attr, attr("role", "presentation"))
	} else if title := m.Asset.Title(); title != "" {
		img.Attr = append(img.Attr, attr("title", title))
	}
	img.Attr = append(img.Attr, dimensionAttrs(r.Width, r.Height)...)
	if args.DragDropSupport == media.DragDropAlways {
		img.Attr = append(img.Attr, attr("class", DropzoneClass))
	}

	if args.ImageSizes != nil && len(m.Sources) > 0 {
		img.Attr = append(img.Attr,
			attr("srcset", m.Sources[0].Srcset()),
			attr("sizes", m.Sources[0].Sizes))
		return img
	}
	if len(args.PictureSources) == 0 || len(m.Sources) == 0 {
		return img
	}

	picture := element(atom.Picture)
	for _, s := range m.Sources {
		source := element(atom.Source)
		if s.Media != "" {
			source.Attr = append(source.Attr, attr("media", s.Media))
		}
		source.Attr = append(source.Attr, attr("srcset", s.Srcset()))
		picture.AppendChild(source)
	}
	picture.AppendChild(img)
	return picture
}

// linkElement renders an <a> for non-image renditions
func linkElement(m *media.Media) *html.Node {
	a := element(atom.A, attr("href", m.Rendition.URL))
	title := m.Asset.Title()
	if title != "" {
		a.Attr = append(a.Attr, attr("title", title))
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	return a
}

// dummyElement renders the placeholder for unresolved media
func dummyElement(url string, args media.Args, dim media.Dimension) *html.Node {
	img := element(atom.Img, attr("src", url), attr("alt", ""), attr("class", DummyClass))
	img.Attr = append(img.Attr, dimensionAttrs(dim.Width, dim.Height)...)
	if args.Decorative {
		img.Attr = append(img.Attr, attr("role", "presentation"))
	}
	return img
}

func render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}
