package asset

import (
	"github.com/ironsheep/media-handler/internal/imaging"
	"github.com/ironsheep/media-handler/internal/media"
)

// rescaleCrop maps a crop authored against the web preview onto the original.
// A nil crop stays nil; without both dimensions the crop is returned unchanged.
// Wrap calls it exactly once per asset. Tests replace it to count calls.
var rescaleCrop = func(crop *media.CropDimension, preview, original media.Dimension) *media.CropDimension {
	if crop == nil {
		return nil
	}
	c := imaging.ScaleCrop(*crop, preview, original)
	return &c
}

// webRendition returns the largest stored web-optimized rendition. It is found
// regardless of the inclusion flags of a request.
func (a *Asset) webRendition() (SourceRendition, bool) {
	var best SourceRendition
	found := false
	for _, r := range a.src.Renditions {
		if !a.ctx.Patterns.IsWeb(r.Name) || r.Dimension().IsZero() {
			continue
		}
		if !found || r.Width*r.Height > best.Width*best.Height {
			best, found = r, true
		}
	}
	return best, found
}
