package media

import (
	"maps"
	"strings"
)

// Args collects every rendering constraint of a media request.
//
// Args is a value type; use Clone before handing a copy to code that may
// mutate slices or the property map.
type Args struct {
	// MediaFormatOptions lists accepted formats in preference order. Empty means any format.
	MediaFormatOptions []MediaFormatOption `json:"mediaFormatOptions,omitempty"`

	// AutoCrop allows cropping the original to the ratio of a requested format.
	AutoCrop bool `json:"autoCrop,omitempty"`

	// FixedWidth and FixedHeight request exact dimensions. 0 means unset.
	FixedWidth  int64 `json:"fixedWidth,omitempty"`
	FixedHeight int64 `json:"fixedHeight,omitempty"`

	URLMode                      URLMode `json:"urlMode,omitempty"`
	ContentDispositionAttachment bool    `json:"contentDispositionAttachment,omitempty"`

	AltText                string `json:"altText,omitempty"`
	ForceAltValueFromAsset bool   `json:"forceAltValueFromAsset,omitempty"`
	Decorative             bool   `json:"decorative,omitempty"`

	DummyImage    bool   `json:"dummyImage,omitempty"`
	DummyImageURL string `json:"dummyImageUrl,omitempty"`

	IncludeAssetThumbnails    bool `json:"includeAssetThumbnails,omitempty"`
	IncludeAssetWebRenditions bool `json:"includeAssetWebRenditions,omitempty"`

	DragDropSupport DragDropSupport `json:"dragDropSupport,omitempty"`

	// FileExtensions restricts renditions to these extensions. Empty means any.
	FileExtensions []string `json:"fileExtensions,omitempty"`

	// Properties holds free-form values. Values are treated as opaque scalars.
	Properties map[string]any `json:"properties,omitempty"`

	ImageSizes     *ImageSizes     `json:"imageSizes,omitempty"`
	PictureSources []PictureSource `json:"pictureSources,omitempty"`
}

// Clone returns a deep copy of a
func (a Args) Clone() Args {
	a.MediaFormatOptions = append([]MediaFormatOption(nil), a.MediaFormatOptions...)
	a.FileExtensions = append([]string(nil), a.FileExtensions...)
	a.Properties = maps.Clone(a.Properties)
	if a.ImageSizes != nil {
		sizes := a.ImageSizes.clone()
		a.ImageSizes = &sizes
	}
	if a.PictureSources != nil {
		sources := make([]PictureSource, len(a.PictureSources))
		for i, s := range a.PictureSources {
			sources[i] = s.clone()
		}
		a.PictureSources = sources
	}
	return a
}

// Validate checks invariants that can only be judged on the finalized value
func (a Args) Validate() error {
	if a.ImageSizes != nil && len(a.PictureSources) > 0 {
		return ErrConflictingResponsiveOptions
	}
	return nil
}

// MediaFormatNames returns the names of all accepted formats in order
func (a Args) MediaFormatNames() []string {
	names := make([]string, len(a.MediaFormatOptions))
	for i, o := range a.MediaFormatOptions {
		names[i] = o.Name
	}
	return names
}

// HasMandatoryMediaFormats reports whether any accepted format is mandatory
func (a Args) HasMandatoryMediaFormats() bool {
	for _, o := range a.MediaFormatOptions {
		if o.Mandatory {
			return true
		}
	}
	return false
}

// AllowsExtension reports whether ext passes the file extension filter
func (a Args) AllowsExtension(ext string) bool {
	if len(a.FileExtensions) == 0 {
		return true
	}
	for _, e := range a.FileExtensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}

// Property returns a free-form property
func (a Args) Property(key string) (any, bool) {
	v, ok := a.Properties[key]
	return v, ok
}

// EffectiveURLMode returns the URL mode, defaulting to URLModeDefault
func (a Args) EffectiveURLMode() URLMode {
	if a.URLMode == "" {
		return URLModeDefault
	}
	return a.URLMode
}
