package media

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullArgs(t *testing.T) Args {
	t.Helper()
	sizes, err := NewImageSizes("(min-width: 800px) 50vw, 100vw", 400, 800)
	require.NoError(t, err)
	return Args{
		MediaFormatOptions:     []MediaFormatOption{{Name: "square", Mandatory: true}, {Name: "wide"}},
		AutoCrop:               true,
		FixedWidth:             400,
		URLMode:                URLModeFullURL,
		AltText:                "alt",
		DummyImageURL:          "/dummy.png",
		DragDropSupport:        DragDropAlways,
		FileExtensions:         []string{"jpg", "png"},
		Properties:             map[string]any{"a": 1, "b": "two"},
		ImageSizes:             &sizes,
		ForceAltValueFromAsset: true,
	}
}

func TestArgs_CloneIsolation(t *testing.T) {
	original := fullArgs(t)
	snapshot := fullArgs(t)

	clone := original.Clone()
	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	clone.MediaFormatOptions[0].Name = "changed"
	clone.MediaFormatOptions = append(clone.MediaFormatOptions, MediaFormatOption{Name: "extra"})
	clone.FileExtensions[0] = "gif"
	clone.Properties["a"] = 99
	clone.Properties["c"] = true
	clone.ImageSizes.Sizes = "10vw"
	clone.ImageSizes.WidthOptions[0].Width = 1
	clone.FixedWidth = 1
	clone.AltText = "other"

	if diff := cmp.Diff(snapshot, original); diff != "" {
		t.Errorf("mutating the clone changed the original (-want +got):\n%s", diff)
	}
}

func TestArgs_CloneIsolatesPictureSources(t *testing.T) {
	src, err := NewPictureSource("wide", "(min-width: 1024px)", 1024, 2048)
	require.NoError(t, err)
	original := Args{PictureSources: []PictureSource{src}}

	clone := original.Clone()
	clone.PictureSources[0].Media = "print"
	clone.PictureSources[0].WidthOptions[1].Width = 5

	assert.Equal(t, "(min-width: 1024px)", original.PictureSources[0].Media)
	assert.Equal(t, int64(2048), original.PictureSources[0].WidthOptions[1].Width)
}

func TestArgs_Validate(t *testing.T) {
	sizes, _ := NewImageSizes("100vw", 400)
	src, _ := NewPictureSource("wide", "", 800)

	assert.NoError(t, Args{}.Validate())
	assert.NoError(t, Args{ImageSizes: &sizes}.Validate())
	assert.NoError(t, Args{PictureSources: []PictureSource{src}}.Validate())
	assert.NoError(t, Args{ImageSizes: &sizes, PictureSources: []PictureSource{}}.Validate())
	assert.ErrorIs(t, Args{ImageSizes: &sizes, PictureSources: []PictureSource{src}}.Validate(), ErrConflictingResponsiveOptions)
}

func TestArgs_AllowsExtension(t *testing.T) {
	assert.True(t, Args{}.AllowsExtension("pdf"))

	args := Args{FileExtensions: []string{"JPG", ".png"}}
	assert.True(t, args.AllowsExtension("jpg"))
	assert.True(t, args.AllowsExtension("png"))
	assert.False(t, args.AllowsExtension("gif"))
}

func TestArgs_Helpers(t *testing.T) {
	args := fullArgs(t)
	assert.Equal(t, []string{"square", "wide"}, args.MediaFormatNames())
	assert.True(t, args.HasMandatoryMediaFormats())
	assert.False(t, Args{}.HasMandatoryMediaFormats())
	assert.Equal(t, URLModeDefault, Args{}.EffectiveURLMode())

	v, ok := args.Property("b")
	assert.True(t, ok)
	assert.Equal(t, "two", v)
	_, ok = args.Property("missing")
	assert.False(t, ok)
}
