package media

import (
	"strings"

	"golang.org/x/net/html"
)

// InvalidReason explains why a Media could not be resolved
type InvalidReason string

const (
	ReasonReferenceMissing            InvalidReason = "media reference missing"
	ReasonReferenceInvalid            InvalidReason = "media reference invalid"
	ReasonNoMatchingRendition         InvalidReason = "no matching rendition"
	ReasonNotEnoughMatchingRenditions InvalidReason = "not enough matching renditions"
)

// Media is the result of resolving a Request. It is immutable once returned.
type Media struct {
	Request       *Request
	Valid         bool
	InvalidReason InvalidReason

	Asset     Asset
	Rendition *Rendition
	Sources   []Source

	Crop     *CropDimension
	Rotation Rotation

	URL     string
	Element *html.Node
	Markup  string
}

// Source is a resolved responsive source: the srcset of an <img> when Media is
// empty, otherwise one <source> of a <picture>.
type Source struct {
	MediaFormat string
	Media       string
	Sizes       string
	Candidates  []SrcsetCandidate
}

// SrcsetCandidate pairs a rendition with its srcset descriptor
type SrcsetCandidate struct {
	Rendition  *Rendition
	Descriptor string
}

// Srcset renders the candidates as a srcset attribute value
func (s Source) Srcset() string {
	parts := make([]string, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		parts = append(parts, c.Rendition.URL+" "+c.Descriptor)
	}
	return strings.Join(parts, ", ")
}

// Asset is the capability set a resolved asset exposes
type Asset interface {
	Title() string
	AltText() string
	Description() string
	Path() string
	Name() string
	Properties() map[string]any

	DefaultRendition() *Rendition
	Rendition(args Args) *Rendition
	ImageRendition(args Args) *Rendition
	FlashRendition(args Args) *Rendition
	DownloadRendition(args Args) *Rendition

	URITemplate(t URITemplateType) (URITemplate, error)
}

// URITemplateType selects the placeholder layout of a URI template
type URITemplateType string

const (
	URITemplateCropCenter  URITemplateType = "crop-center"
	URITemplateScaleWidth  URITemplateType = "scale-width"
	URITemplateScaleHeight URITemplateType = "scale-height"
)

// Placeholders used in URI templates
const (
	PlaceholderWidth  = "{width}"
	PlaceholderHeight = "{height}"
)

// URITemplate is a rendition URL with width/height placeholders
type URITemplate struct {
	Type      URITemplateType `json:"type"`
	Template  string          `json:"template"`
	MaxWidth  int64           `json:"maxWidth"`
	MaxHeight int64           `json:"maxHeight"`
}

// Fill replaces the placeholders with concrete values
func (t URITemplate) Fill(width, height int64) string {
	r := strings.NewReplacer(
		PlaceholderWidth, itoa(width),
		PlaceholderHeight, itoa(height),
	)
	return r.Replace(t.Template)
}
