package media

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// MediaFormatOption names an accepted media format and whether a missing
// rendition for it fails the whole request.
type MediaFormatOption struct {
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
}

// NewMediaFormatOption creates a media format option
func NewMediaFormatOption(name string, mandatory bool) (MediaFormatOption, error) {
	if strings.TrimSpace(name) == "" {
		return MediaFormatOption{}, invalidf("media format name is empty")
	}
	return MediaFormatOption{Name: name, Mandatory: mandatory}, nil
}

// WidthOption is one entry of a responsive width list. An empty Density renders
// a width descriptor ("400w"), otherwise the density descriptor is used ("2x").
type WidthOption struct {
	Width   int64  `json:"width"`
	Density string `json:"density,omitempty"`
}

// Descriptor returns the srcset descriptor for this option
func (o WidthOption) Descriptor() string {
	if o.Density != "" {
		return o.Density
	}
	return strconv.FormatInt(o.Width, 10) + "w"
}

func widthOptions(widths []int64) ([]WidthOption, error) {
	if len(widths) == 0 {
		return nil, invalidf("at least one width is required")
	}
	opts := make([]WidthOption, len(widths))
	for i, w := range widths {
		if w <= 0 {
			return nil, invalidf("width must be positive, got %d", w)
		}
		opts[i] = WidthOption{Width: w}
	}
	return opts, nil
}

func validateWidthOptions(opts []WidthOption) error {
	if len(opts) == 0 {
		return invalidf("at least one width is required")
	}
	for _, o := range opts {
		if o.Width <= 0 {
			return invalidf("width must be positive, got %d", o.Width)
		}
	}
	return nil
}

// ImageSizes describes an <img srcset sizes> responsive strategy.
type ImageSizes struct {
	Sizes        string        `json:"sizes"`
	WidthOptions []WidthOption `json:"widths"`
}

// NewImageSizes creates image sizes with plain width descriptors
func NewImageSizes(sizes string, widths ...int64) (ImageSizes, error) {
	opts, err := widthOptions(widths)
	if err != nil {
		return ImageSizes{}, err
	}
	return ImageSizes{Sizes: sizes, WidthOptions: opts}, nil
}

// NewImageSizesWithOptions creates image sizes from explicit width options
func NewImageSizesWithOptions(sizes string, opts ...WidthOption) (ImageSizes, error) {
	if err := validateWidthOptions(opts); err != nil {
		return ImageSizes{}, err
	}
	return ImageSizes{Sizes: sizes, WidthOptions: append([]WidthOption(nil), opts...)}, nil
}

func (s ImageSizes) clone() ImageSizes {
	s.WidthOptions = append([]WidthOption(nil), s.WidthOptions...)
	return s
}

// PictureSource describes one <source> element of a <picture>.
type PictureSource struct {
	MediaFormat  string        `json:"mediaFormat"`
	Media        string        `json:"media,omitempty"`
	WidthOptions []WidthOption `json:"widths"`
}

// NewPictureSource creates a picture source. An empty media condition means the
// source carries no media attribute.
func NewPictureSource(mediaFormat, mediaCondition string, widths ...int64) (PictureSource, error) {
	if strings.TrimSpace(mediaFormat) == "" {
		return PictureSource{}, invalidf("picture source media format is empty")
	}
	opts, err := widthOptions(widths)
	if err != nil {
		return PictureSource{}, err
	}
	return PictureSource{MediaFormat: mediaFormat, Media: mediaCondition, WidthOptions: opts}, nil
}

func (s PictureSource) clone() PictureSource {
	s.WidthOptions = append([]WidthOption(nil), s.WidthOptions...)
	return s
}

// Dimension is a width/height pair in pixels
type Dimension struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// IsZero reports whether either side is unknown
func (d Dimension) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// CropDimension is a crop rectangle in pixels. It is only meaningful together
// with the image representation it was computed against.
type CropDimension struct {
	Left   int64 `json:"left"`
	Top    int64 `json:"top"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Right returns the exclusive right edge
func (c CropDimension) Right() int64 { return c.Left + c.Width }

// Bottom returns the exclusive bottom edge
func (c CropDimension) Bottom() int64 { return c.Top + c.Height }

// IsEmpty reports whether the rectangle has no area
func (c CropDimension) IsEmpty() bool { return c.Width <= 0 || c.Height <= 0 }

// Rect converts the crop into an image.Rectangle
func (c CropDimension) Rect() image.Rectangle {
	return image.Rect(int(c.Left), int(c.Top), int(c.Right()), int(c.Bottom()))
}

// CropString renders the crop as "left,top,right,bottom"
func (c CropDimension) CropString() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.Left, c.Top, c.Right(), c.Bottom())
}

// ParseCropDimension parses a "left,top,right,bottom" crop string
func ParseCropDimension(s string) (CropDimension, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return CropDimension{}, fmt.Errorf("%w: %q", ErrInvalidCrop, s)
	}
	var v [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return CropDimension{}, fmt.Errorf("%w: %q", ErrInvalidCrop, s)
		}
		v[i] = n
	}
	crop := CropDimension{Left: v[0], Top: v[1], Width: v[2] - v[0], Height: v[3] - v[1]}
	if crop.IsEmpty() {
		return CropDimension{}, fmt.Errorf("%w: %q has no area", ErrInvalidCrop, s)
	}
	return crop, nil
}

// Rotation is a clockwise rotation in degrees
type Rotation int

// ValidateRotation accepts 0, 90, 180 and 270 and rejects everything else
func ValidateRotation(degrees int) (Rotation, error) {
	switch degrees {
	case 0, 90, 180, 270:
		return Rotation(degrees), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, degrees)
}

// SwapsAxes reports whether width and height trade places under this rotation
func (r Rotation) SwapsAxes() bool {
	return r == 90 || r == 270
}

// URLMode controls how rendition URLs are externalized
type URLMode string

const (
	URLModeDefault    URLMode = "default"
	URLModeNoHostname URLMode = "no-hostname"
	URLModeFullURL    URLMode = "full-url"
)

// ParseURLMode validates a URL mode name. An empty name is URLModeDefault.
func ParseURLMode(s string) (URLMode, error) {
	switch URLMode(s) {
	case "", URLModeDefault:
		return URLModeDefault, nil
	case URLModeNoHostname, URLModeFullURL:
		return URLMode(s), nil
	}
	return "", invalidf("unknown url mode %q", s)
}

// DragDropSupport controls drag&drop markup for authoring
type DragDropSupport string

const (
	DragDropAuto   DragDropSupport = "auto"
	DragDropAlways DragDropSupport = "always"
	DragDropNever  DragDropSupport = "never"
)
