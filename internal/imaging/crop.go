package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/media-handler/internal/media"
)

// ValidateCrop checks that crop has an area and lies within an image of the
// given size.
func ValidateCrop(crop media.CropDimension, size media.Dimension) error {
	if crop.IsEmpty() {
		return fmt.Errorf("%w: invalid crop region: width and height must be positive", media.ErrInvalidCrop)
	}
	if crop.Left < 0 || crop.Top < 0 || crop.Right() > size.Width || crop.Bottom() > size.Height {
		return fmt.Errorf("%w: crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			media.ErrInvalidCrop, crop.Left, crop.Top, crop.Right(), crop.Bottom(), size.Width, size.Height)
	}
	return nil
}

// ScaleCrop maps a crop computed against an image of size from onto the same
// image at size to. Each axis is scaled by its own ratio and every value is
// rounded to the nearest pixel. A crop inside from stays inside to: an edge
// pushed past the border by rounding is pulled back onto it.
func ScaleCrop(crop media.CropDimension, from, to media.Dimension) media.CropDimension {
	if from.IsZero() || to.IsZero() {
		return crop
	}
	rx := float64(to.Width) / float64(from.Width)
	ry := float64(to.Height) / float64(from.Height)
	c := media.CropDimension{
		Left:   round(float64(crop.Left) * rx),
		Top:    round(float64(crop.Top) * ry),
		Width:  round(float64(crop.Width) * rx),
		Height: round(float64(crop.Height) * ry),
	}
	if crop.Right() <= from.Width && c.Right() > to.Width {
		c.Width = to.Width - c.Left
	}
	if crop.Bottom() <= from.Height && c.Bottom() > to.Height {
		c.Height = to.Height - c.Top
	}
	return c
}

// CenterCrop returns the largest rectangle with the given width/height ratio
// centered in an image of the given size. It reports false when the size or
// ratio is unusable.
func CenterCrop(size media.Dimension, ratio float64) (media.CropDimension, bool) {
	if size.IsZero() || ratio <= 0 {
		return media.CropDimension{}, false
	}
	w, h := size.Width, round(float64(size.Width)/ratio)
	if h > size.Height {
		w, h = round(float64(size.Height)*ratio), size.Height
	}
	if w <= 0 || h <= 0 {
		return media.CropDimension{}, false
	}
	return media.CropDimension{
		Left:   (size.Width - w) / 2,
		Top:    (size.Height - h) / 2,
		Width:  w,
		Height: h,
	}, true
}

// Rotate returns the size of an image of the given size after rotation
func Rotate(size media.Dimension, r media.Rotation) media.Dimension {
	if r.SwapsAxes() {
		return media.Dimension{Width: size.Height, Height: size.Width}
	}
	return size
}

// FitWidth scales size to the given width keeping its ratio
func FitWidth(size media.Dimension, width int64) media.Dimension {
	if size.IsZero() {
		return media.Dimension{Width: width}
	}
	return media.Dimension{Width: width, Height: round(float64(width) * float64(size.Height) / float64(size.Width))}
}

// FitHeight scales size to the given height keeping its ratio
func FitHeight(size media.Dimension, height int64) media.Dimension {
	if size.IsZero() {
		return media.Dimension{Height: height}
	}
	return media.Dimension{Width: round(float64(height) * float64(size.Width) / float64(size.Height)), Height: height}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
