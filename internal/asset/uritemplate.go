package asset

import (
	"fmt"

	"github.com/ironsheep/media-handler/internal/imaging"
	"github.com/ironsheep/media-handler/internal/media"
)

// URITemplate returns a delivery URL template for the original with
// {width}/{height} placeholders. Only raster images with known original
// dimensions support templates. Crop and rotation are baked in and the maximum
// dimensions are those of the transformed original.
func (a *Asset) URITemplate(t media.URITemplateType) (media.URITemplate, error) {
	if !a.hasOriginal {
		return media.URITemplate{}, fmt.Errorf("%w: %s has no original", ErrUnsupportedAssetType, a.src.Path)
	}
	ext := a.src.extension(a.original)
	if !media.IsRasterExtension(ext) {
		return media.URITemplate{}, fmt.Errorf("%w: %s is not a raster image (%s)", ErrUnsupportedAssetType, a.src.Path, ext)
	}
	dim := a.original.Dimension()
	if dim.IsZero() {
		return media.URITemplate{}, fmt.Errorf("%w: %s", ErrMissingDimension, a.src.Path)
	}
	if a.crop != nil {
		dim = media.Dimension{Width: a.crop.Width, Height: a.crop.Height}
	}
	dim = imaging.Rotate(dim, a.rotation)

	var width, height string
	switch t {
	case media.URITemplateCropCenter:
		width, height = media.PlaceholderWidth, media.PlaceholderHeight
	case media.URITemplateScaleWidth:
		width, height = media.PlaceholderWidth, "0"
	case media.URITemplateScaleHeight:
		width, height = "0", media.PlaceholderHeight
	default:
		return media.URITemplate{}, fmt.Errorf("%w: unknown uri template type %q", media.ErrInvalidArgument, t)
	}

	p := imageFilePath(a.storedPath(OriginalRendition), width, height, a.Crop(), a.rotation)
	return media.URITemplate{
		Type:      t,
		Template:  a.link(p, a.defaults),
		MaxWidth:  dim.Width,
		MaxHeight: dim.Height,
	}, nil
}

// URITemplates returns templates for every template type
func (a *Asset) URITemplates() ([]media.URITemplate, error) {
	types := []media.URITemplateType{media.URITemplateCropCenter, media.URITemplateScaleWidth, media.URITemplateScaleHeight}
	out := make([]media.URITemplate, 0, len(types))
	for _, t := range types {
		tpl, err := a.URITemplate(t)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}
