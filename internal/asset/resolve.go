package asset

import (
	"math"

	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/imaging"
	"github.com/ironsheep/media-handler/internal/media"
)

// candidate is a stored rendition, or the cropped and rotated original, that a
// request may select.
type candidate struct {
	name     string
	ext      string
	kind     media.Kind
	dim      media.Dimension
	crop     *media.CropDimension
	rotation media.Rotation
}

func (c candidate) area() int64 { return c.dim.Width * c.dim.Height }

func (c candidate) vector() bool { return media.IsVectorExtension(c.ext) }

func (c candidate) ratio() float64 {
	if c.dim.IsZero() {
		return 0
	}
	return float64(c.dim.Width) / float64(c.dim.Height)
}

// renditionRequest is one attempt to satisfy Args: a single accepted media
// format, or the fixed dimensions when no format is requested.
type renditionRequest struct {
	format    string
	mandatory bool
	unknown   bool

	width, height       int64
	minWidth, minHeight int64
	ratio               float64

	extensions []string
	download   bool
}

func (rq renditionRequest) constrained() bool {
	return rq.width > 0 || rq.height > 0 || rq.minWidth > 0 || rq.minHeight > 0 || rq.ratio > 0
}

func (rq renditionRequest) allows(ext string) bool {
	return format.Format{Extensions: rq.extensions}.AllowsExtension(ext)
}

// exact reports whether c already has the requested dimensions
func (rq renditionRequest) exact(c candidate) bool {
	switch {
	case rq.width > 0 && rq.height > 0:
		return c.dim.Width == rq.width && c.dim.Height == rq.height
	case rq.width > 0:
		return c.dim.Width == rq.width && format.RatioMatches(rq.ratio, c.ratio())
	case rq.height > 0:
		return c.dim.Height == rq.height && format.RatioMatches(rq.ratio, c.ratio())
	}
	return false
}

// fits reports whether c can be delivered for the request, downscaled if needed
func (rq renditionRequest) fits(c candidate) bool {
	if c.dim.IsZero() {
		return c.vector() && rq.ratio == 0
	}
	if !format.RatioMatches(rq.ratio, c.ratio()) {
		return false
	}
	if c.vector() {
		return true
	}
	return c.dim.Width >= max(rq.width, rq.minWidth) && c.dim.Height >= max(rq.height, rq.minHeight)
}

// target returns the delivered dimensions when c is selected
func (rq renditionRequest) target(c candidate) media.Dimension {
	switch {
	case rq.width > 0 && rq.height > 0:
		return media.Dimension{Width: rq.width, Height: rq.height}
	case rq.width > 0:
		return imaging.FitWidth(c.dim, rq.width)
	case rq.height > 0:
		return imaging.FitHeight(c.dim, rq.height)
	}
	return c.dim
}

// resolve runs every request in order. The first successful one wins; a failed
// mandatory request fails the whole resolution.
func (a *Asset) resolve(args media.Args) *media.Rendition {
	cands := a.candidates(args)
	var first *media.Rendition
	for _, rq := range a.requests(args) {
		r := a.match(rq, cands, args)
		if r == nil {
			if rq.mandatory {
				return nil
			}
			continue
		}
		if first == nil {
			first = r
		}
	}
	return first
}

// candidates lists what a request may select. With a crop or rotation on a
// raster original, the transformed original is the only candidate; a crop
// outside the original or an original of unknown size leaves none.
func (a *Asset) candidates(args media.Args) []candidate {
	if !a.hasOriginal {
		return a.storedCandidates(args)
	}
	ext := a.src.extension(a.original)
	if (a.crop != nil || a.rotation != 0) && media.IsRasterExtension(ext) {
		dim := a.original.Dimension()
		if dim.IsZero() || !args.AllowsExtension(ext) {
			return nil
		}
		if a.crop != nil {
			if imaging.ValidateCrop(*a.crop, dim) != nil {
				return nil
			}
			dim = media.Dimension{Width: a.crop.Width, Height: a.crop.Height}
		}
		return []candidate{{
			name:     OriginalRendition,
			ext:      ext,
			kind:     media.KindImage,
			dim:      imaging.Rotate(dim, a.rotation),
			crop:     a.Crop(),
			rotation: a.rotation,
		}}
	}
	return a.storedCandidates(args)
}

// storedCandidates lists stored renditions, original first
func (a *Asset) storedCandidates(args media.Args) []candidate {
	var out []candidate
	add := func(r SourceRendition) {
		ext := a.src.extension(r)
		if !args.AllowsExtension(ext) {
			return
		}
		out = append(out, candidate{name: r.Name, ext: ext, kind: media.KindForExtension(ext), dim: r.Dimension()})
	}
	if a.hasOriginal {
		add(a.original)
	}
	for _, r := range a.src.Renditions {
		switch {
		case r.Name == OriginalRendition:
		case a.ctx.Patterns.IsThumbnail(r.Name) && !args.IncludeAssetThumbnails:
		case a.ctx.Patterns.IsWeb(r.Name) && !args.IncludeAssetWebRenditions:
		default:
			add(r)
		}
	}
	return out
}

// requests derives one request per accepted media format, or a single request
// from the fixed dimensions.
func (a *Asset) requests(args media.Args) []renditionRequest {
	if len(args.MediaFormatOptions) == 0 {
		rq := renditionRequest{width: args.FixedWidth, height: args.FixedHeight}
		if rq.width > 0 && rq.height > 0 {
			rq.ratio = float64(rq.width) / float64(rq.height)
		}
		return []renditionRequest{rq}
	}
	out := make([]renditionRequest, 0, len(args.MediaFormatOptions))
	for _, opt := range args.MediaFormatOptions {
		rq := renditionRequest{format: opt.Name, mandatory: opt.Mandatory}
		f, err := a.ctx.Formats.Lookup(opt.Name)
		if err != nil {
			rq.unknown = true
			out = append(out, rq)
			continue
		}
		rq.width, rq.height = f.Width, f.Height
		if rq.width == 0 {
			rq.width = args.FixedWidth
		}
		if rq.height == 0 {
			rq.height = args.FixedHeight
		}
		rq.minWidth, rq.minHeight = f.MinWidth, f.MinHeight
		rq.ratio = f.Ratio()
		switch {
		case rq.ratio == 0 && rq.width > 0 && rq.height > 0:
			rq.ratio = float64(rq.width) / float64(rq.height)
		case rq.ratio > 0 && rq.width > 0 && rq.height == 0:
			rq.height = int64(math.Round(float64(rq.width) / rq.ratio))
		case rq.ratio > 0 && rq.height > 0 && rq.width == 0:
			rq.width = int64(math.Round(float64(rq.height) * rq.ratio))
		}
		rq.extensions = f.Extensions
		rq.download = f.Download
		out = append(out, rq)
	}
	return out
}

// match selects a rendition for one request: an exact match, else the smallest
// candidate that can be downscaled, else a centered auto-crop of the original.
func (a *Asset) match(rq renditionRequest, cands []candidate, args media.Args) *media.Rendition {
	if rq.unknown {
		return nil
	}
	var pool []candidate
	for _, c := range cands {
		if !rq.allows(c.ext) {
			continue
		}
		if rq.download != (c.kind != media.KindImage) && (rq.download || rq.constrained()) {
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) == 0 && !args.AutoCrop {
		return nil
	}

	if !rq.constrained() {
		if len(pool) == 0 {
			return nil
		}
		return a.rendition(pool[0], pool[0].dim, rq, args)
	}

	for _, c := range pool {
		if rq.exact(c) {
			return a.rendition(c, c.dim, rq, args)
		}
	}

	best := -1
	for i, c := range pool {
		if rq.fits(c) && (best < 0 || c.area() < pool[best].area()) {
			best = i
		}
	}
	if best >= 0 {
		return a.rendition(pool[best], rq.target(pool[best]), rq, args)
	}

	if c, ok := a.autoCrop(rq, args); ok {
		return a.rendition(c, rq.target(c), rq, args)
	}
	return nil
}

// autoCrop proposes the original cropped to the request's ratio
func (a *Asset) autoCrop(rq renditionRequest, args media.Args) (candidate, bool) {
	if !args.AutoCrop || rq.ratio <= 0 || rq.download || !a.hasOriginal || a.crop != nil || a.rotation != 0 {
		return candidate{}, false
	}
	ext := a.src.extension(a.original)
	if !media.IsRasterExtension(ext) || !args.AllowsExtension(ext) || !rq.allows(ext) {
		return candidate{}, false
	}
	crop, ok := imaging.CenterCrop(a.original.Dimension(), rq.ratio)
	if !ok {
		return candidate{}, false
	}
	c := candidate{
		name: OriginalRendition,
		ext:  ext,
		kind: media.KindImage,
		dim:  media.Dimension{Width: crop.Width, Height: crop.Height},
		crop: &crop,
	}
	if !rq.fits(c) {
		return candidate{}, false
	}
	return c, true
}

func (a *Asset) rendition(c candidate, target media.Dimension, rq renditionRequest, args media.Args) *media.Rendition {
	virtual := !c.vector() && (c.crop != nil || c.rotation != 0 || target != c.dim)
	r := &media.Rendition{
		Name:        c.name,
		MimeType:    media.MimeTypeForExtension(c.ext),
		Extension:   c.ext,
		Kind:        c.kind,
		Width:       target.Width,
		Height:      target.Height,
		Rotation:    c.rotation,
		MediaFormat: rq.format,
		Virtual:     virtual,
	}
	if c.crop != nil {
		crop := *c.crop
		r.Crop = &crop
	}
	if virtual {
		r.Path = a.virtualPath(c, target)
	} else {
		r.Path = a.deliveryPath(c, args)
	}
	r.URL = a.link(r.Path, args)
	return r
}
