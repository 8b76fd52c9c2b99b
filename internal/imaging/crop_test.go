package imaging

import (
	"errors"
	"testing"

	"github.com/ironsheep/media-handler/internal/media"
)

func TestValidateCrop(t *testing.T) {
	size := media.Dimension{Width: 100, Height: 50}
	tests := []struct {
		name  string
		crop  media.CropDimension
		valid bool
	}{
		{"inside", media.CropDimension{Left: 10, Top: 10, Width: 20, Height: 20}, true},
		{"full image", media.CropDimension{Width: 100, Height: 50}, true},
		{"right edge", media.CropDimension{Left: 90, Width: 11, Height: 10}, false},
		{"bottom edge", media.CropDimension{Top: 45, Width: 10, Height: 6}, false},
		{"negative", media.CropDimension{Left: -1, Width: 10, Height: 10}, false},
		{"empty", media.CropDimension{Left: 1, Top: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCrop(tt.crop, size)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, media.ErrInvalidCrop) {
				t.Errorf("got %v, want ErrInvalidCrop", err)
			}
		})
	}
}

func TestScaleCrop(t *testing.T) {
	tests := []struct {
		name     string
		crop     media.CropDimension
		from, to media.Dimension
		want     media.CropDimension
	}{
		{
			name: "uniform 2x",
			crop: media.CropDimension{Left: 100, Top: 50, Width: 200, Height: 150},
			from: media.Dimension{Width: 800, Height: 600},
			to:   media.Dimension{Width: 1600, Height: 1200},
			want: media.CropDimension{Left: 200, Top: 100, Width: 400, Height: 300},
		},
		{
			name: "non-uniform rounds per axis",
			crop: media.CropDimension{Left: 101, Top: 50, Width: 203, Height: 151},
			from: media.Dimension{Width: 800, Height: 600},
			to:   media.Dimension{Width: 1000, Height: 700},
			want: media.CropDimension{Left: 126, Top: 58, Width: 254, Height: 176},
		},
		{
			name: "rounding past the right and bottom edges is pulled back",
			crop: media.CropDimension{Left: 2, Top: 2, Width: 798, Height: 598},
			from: media.Dimension{Width: 800, Height: 600},
			to:   media.Dimension{Width: 1000, Height: 750},
			want: media.CropDimension{Left: 3, Top: 3, Width: 997, Height: 747},
		},
		{
			name: "crop outside the source stays outside",
			crop: media.CropDimension{Left: 100, Top: 0, Width: 800, Height: 600},
			from: media.Dimension{Width: 800, Height: 600},
			to:   media.Dimension{Width: 1600, Height: 1200},
			want: media.CropDimension{Left: 200, Top: 0, Width: 1600, Height: 1200},
		},
		{
			name: "unknown source size",
			crop: media.CropDimension{Left: 1, Top: 2, Width: 3, Height: 4},
			to:   media.Dimension{Width: 1000, Height: 700},
			want: media.CropDimension{Left: 1, Top: 2, Width: 3, Height: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleCrop(tt.crop, tt.from, tt.to); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCenterCrop(t *testing.T) {
	size := media.Dimension{Width: 1600, Height: 1200}
	tests := []struct {
		name  string
		ratio float64
		want  media.CropDimension
	}{
		{"square", 1, media.CropDimension{Left: 200, Top: 0, Width: 1200, Height: 1200}},
		{"wide", 16.0 / 9.0, media.CropDimension{Left: 0, Top: 150, Width: 1600, Height: 900}},
		{"same ratio", 4.0 / 3.0, media.CropDimension{Width: 1600, Height: 1200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CenterCrop(size, tt.ratio)
			if !ok {
				t.Fatal("CenterCrop reported failure")
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, ok := CenterCrop(media.Dimension{}, 1); ok {
		t.Error("expected failure for unknown size")
	}
	if _, ok := CenterCrop(size, 0); ok {
		t.Error("expected failure for zero ratio")
	}
}

func TestRotateAndFit(t *testing.T) {
	size := media.Dimension{Width: 1600, Height: 1200}

	if got := Rotate(size, 90); got != (media.Dimension{Width: 1200, Height: 1600}) {
		t.Errorf("Rotate 90: got %+v", got)
	}
	if got := Rotate(size, 180); got != size {
		t.Errorf("Rotate 180: got %+v", got)
	}
	if got := FitWidth(size, 400); got != (media.Dimension{Width: 400, Height: 300}) {
		t.Errorf("FitWidth: got %+v", got)
	}
	if got := FitHeight(size, 300); got != (media.Dimension{Width: 400, Height: 300}) {
		t.Errorf("FitHeight: got %+v", got)
	}
}
