// Package asset wraps stored assets and resolves renditions for media requests.
//
// Wrap turns a stored Source plus the instance crop and rotation into an Asset.
// The crop is authored against the web-optimized preview and is rescaled onto
// the original exactly once, in Wrap; the Asset only ever holds the rescaled
// rectangle.
//
// Rendition lookups never fail: a lookup that finds nothing, finds a rendition
// of the wrong kind or produces an empty URL returns nil.
package asset

import (
	"fmt"
	"maps"

	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
)

// Metadata keys read from a Source
const (
	MetaTitle       = "dc:title"
	MetaDescription = "dc:description"
)

// Linker externalizes a delivery path into a URL. An empty result means the
// path cannot be linked.
type Linker interface {
	Link(path string, args media.Args) string
}

// LinkerFunc adapts a function to Linker
type LinkerFunc func(path string, args media.Args) string

// Link calls f
func (f LinkerFunc) Link(path string, args media.Args) string { return f(path, args) }

// Context carries the shared collaborators of rendition resolution
type Context struct {
	Formats  *format.Registry
	Linker   Linker
	Patterns *Patterns
}

// Asset is a wrapped Source bound to a crop, a rotation and default Args.
// It is immutable and safe for concurrent reads.
type Asset struct {
	src      *Source
	crop     *media.CropDimension
	rotation media.Rotation
	defaults media.Args
	ctx      Context

	original    SourceRendition
	hasOriginal bool
}

// Wrap binds src to a crop and rotation. The crop is expressed against the
// web rendition and is rescaled onto the original here.
func Wrap(src *Source, crop *media.CropDimension, rotation media.Rotation, defaults media.Args, ctx Context) (*Asset, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: asset source is nil", media.ErrInvalidArgument)
	}
	rot, err := media.ValidateRotation(int(rotation))
	if err != nil {
		return nil, err
	}
	if ctx.Patterns == nil {
		ctx.Patterns = DefaultPatterns()
	}

	a := &Asset{
		src:      src.Clone(),
		rotation: rot,
		defaults: defaults.Clone(),
		ctx:      ctx,
	}
	a.original, a.hasOriginal = a.src.Original()

	var preview media.Dimension
	if web, ok := a.webRendition(); ok {
		preview = web.Dimension()
	}
	a.crop = rescaleCrop(crop, preview, a.original.Dimension())
	return a, nil
}

// Path returns the repository path of the asset
func (a *Asset) Path() string { return a.src.Path }

// Name returns the technical name of the asset
func (a *Asset) Name() string { return a.src.FileName() }

// Properties returns a copy of the asset metadata
func (a *Asset) Properties() map[string]any { return maps.Clone(a.src.Metadata) }

// Crop returns the crop rescaled onto the original, or nil
func (a *Asset) Crop() *media.CropDimension {
	if a.crop == nil {
		return nil
	}
	c := *a.crop
	return &c
}

// Rotation returns the rotation applied to the original
func (a *Asset) Rotation() media.Rotation { return a.rotation }

// OriginalDimension returns the dimensions of the original, zero if unknown
func (a *Asset) OriginalDimension() media.Dimension { return a.original.Dimension() }

// Title returns the title metadata, falling back to the technical name
func (a *Asset) Title() string {
	if t := a.metaString(MetaTitle); t != "" {
		return t
	}
	return a.Name()
}

// Description returns the description metadata
func (a *Asset) Description() string {
	return a.metaString(MetaDescription)
}

// AltText resolves the alternative text for the wrapped Args: empty when
// decorative, else the override unless alt text is forced from the asset, else
// description, title and technical name in that order.
func (a *Asset) AltText() string {
	args := a.defaults
	if args.Decorative {
		return ""
	}
	if !args.ForceAltValueFromAsset && args.AltText != "" {
		return args.AltText
	}
	if d := a.Description(); d != "" {
		return d
	}
	return a.Title()
}

// metaString reads a metadata field. Multi-value fields yield their first element.
func (a *Asset) metaString(key string) string {
	switch v := a.src.Metadata[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 && v[0] != nil {
			return fmt.Sprint(v[0])
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return ""
}

// DefaultRendition resolves a rendition for the Args the asset was wrapped with
func (a *Asset) DefaultRendition() *media.Rendition {
	return a.Rendition(a.defaults)
}

// Rendition resolves the best rendition for args, or nil
func (a *Asset) Rendition(args media.Args) *media.Rendition {
	r := a.resolve(args)
	if r == nil || r.URL == "" {
		return nil
	}
	return r
}

// ImageRendition resolves a rendition and returns it only if it is an image
func (a *Asset) ImageRendition(args media.Args) *media.Rendition {
	if r := a.Rendition(args); r != nil && r.IsImage() {
		return r
	}
	return nil
}

// FlashRendition resolves a rendition and returns it only if it is a flash movie
func (a *Asset) FlashRendition(args media.Args) *media.Rendition {
	if r := a.Rendition(args); r != nil && r.IsFlash() {
		return r
	}
	return nil
}

// DownloadRendition resolves a rendition and returns it only if it is a download
func (a *Asset) DownloadRendition(args media.Args) *media.Rendition {
	if r := a.Rendition(args); r != nil && r.IsDownload() {
		return r
	}
	return nil
}

func (a *Asset) link(p string, args media.Args) string {
	if a.ctx.Linker == nil {
		return p
	}
	return a.ctx.Linker.Link(p, args)
}

var _ media.Asset = (*Asset)(nil)
