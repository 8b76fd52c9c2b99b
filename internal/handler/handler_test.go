package handler

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/component"
	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
	"github.com/ironsheep/media-handler/internal/store"
)

const (
	heroRef  = "/content/dam/hero.jpg"
	pdfRef   = "/content/dam/doc.pdf"
	heroWide = "/content/dam/hero.jpg/renditions/wide-1920.jpg"
)

func testStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s, err := store.NewMemoryStore(
		&asset.Source{
			Path: heroRef,
			Metadata: map[string]any{
				asset.MetaTitle:       "Hero",
				asset.MetaDescription: "A mountain at dawn",
			},
			Renditions: []asset.SourceRendition{
				{Name: asset.OriginalRendition, MimeType: "image/jpeg", Width: 1600, Height: 1200},
				{Name: "cq5dam.thumbnail.140.100.png", MimeType: "image/png", Width: 140, Height: 100},
				{Name: "cq5dam.web.800.600.jpeg", MimeType: "image/jpeg", Width: 800, Height: 600},
				{Name: "wide-1920.jpg", MimeType: "image/jpeg", Width: 1920, Height: 1080},
			},
		},
		&asset.Source{
			Path:       pdfRef,
			Renditions: []asset.SourceRendition{{Name: asset.OriginalRendition, MimeType: "application/pdf"}},
		},
	)
	require.NoError(t, err)
	return s
}

func testFormats(t *testing.T) *format.Registry {
	t.Helper()
	r, err := format.NewRegistry(
		format.Format{Name: "square", RatioWidth: 1, RatioHeight: 1},
		format.Format{Name: "wide", RatioWidth: 16, RatioHeight: 9},
		format.Format{Name: "teaser", Width: 400, Height: 300},
		format.Format{Name: "download", Download: true, Extensions: []string{"pdf"}},
	)
	require.NoError(t, err)
	return r
}

func testComponents() *component.Registry {
	return component.NewRegistry(map[string]component.Definition{
		"app/image": {Properties: map[string]any{
			media.PropComponentMediaFormats: []any{"square", "wide"},
		}},
		"app/hero": {SuperType: "app/image", Properties: map[string]any{
			media.PropComponentMediaFormatsMandatory: []any{true},
		}},
		"app/plain": {},
	})
}

func newHandler(t *testing.T, opts ...Option) *Handler {
	t.Helper()
	opts = append([]Option{WithComponents(testComponents())}, opts...)
	h, err := New(testStore(t), testFormats(t), opts...)
	require.NoError(t, err)
	return h
}

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func build(t *testing.T, b *media.Builder, err error) *media.Media {
	t.Helper()
	require.NoError(t, err)
	m, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestGetRef_ImageMarkup(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	m := build(t, b.MediaFormatName("wide"), err)

	require.True(t, m.Valid)
	assert.Equal(t, heroWide, m.URL)
	assert.Equal(t, "wide", m.Rendition.MediaFormat)
	assert.Equal(t, heroRef, m.Asset.Path())

	img := parse(t, m.Markup).Find("img")
	require.Equal(t, 1, img.Length())
	assert.Equal(t, heroWide, img.AttrOr("src", ""))
	assert.Equal(t, "A mountain at dawn", img.AttrOr("alt", ""))
	assert.Equal(t, "Hero", img.AttrOr("title", ""))
	assert.Equal(t, "1920", img.AttrOr("width", ""))
	assert.Equal(t, "1080", img.AttrOr("height", ""))
	assert.Equal(t, "img", m.Element.Data)
}

func TestBuilderConvenience(t *testing.T) {
	h := newHandler(t)

	b, err := h.GetRef(heroRef)
	require.NoError(t, err)
	u, err := b.MediaFormatName("wide").BuildURL()
	require.NoError(t, err)
	assert.Equal(t, heroWide, u)

	b, err = h.GetRef(heroRef)
	require.NoError(t, err)
	el, err := b.BuildElement()
	require.NoError(t, err)
	assert.Equal(t, "img", el.Data)

	b, err = h.GetRef(heroRef)
	require.NoError(t, err)
	markup, err := b.AltText("Summit").BuildMarkup()
	require.NoError(t, err)
	assert.Equal(t, "Summit", parse(t, markup).Find("img").AttrOr("alt", ""))
}

func TestDecorativeImage(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	m := build(t, b.Decorative(true).AltText("ignored"), err)

	img := parse(t, m.Markup).Find("img")
	alt, ok := img.Attr("alt")
	assert.True(t, ok)
	assert.Equal(t, "", alt)
	assert.Equal(t, "presentation", img.AttrOr("role", ""))
	_, hasTitle := img.Attr("title")
	assert.False(t, hasTitle)
}

func TestURLModes(t *testing.T) {
	h := newHandler(t, WithLinker(URLLinker{Host: "https://www.example.com", Prefix: "/site"}))

	tests := []struct {
		mode media.URLMode
		want string
	}{
		{media.URLModeDefault, "/site/content/dam/hero.jpg"},
		{media.URLModeNoHostname, "/site/content/dam/hero.jpg"},
		{media.URLModeFullURL, "https://www.example.com/site/content/dam/hero.jpg"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			b, err := h.GetRef(heroRef)
			require.NoError(t, err)
			u, err := b.URLMode(tt.mode).BuildURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, u)
		})
	}
}

func TestImageSizes(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	m := build(t, b.ImageSizes("(min-width: 800px) 50vw, 100vw", 400, 800, 4000), err)

	require.True(t, m.Valid)
	require.Len(t, m.Sources, 1)
	require.Len(t, m.Sources[0].Candidates, 2, "widths larger than the original are skipped")

	img := parse(t, m.Markup).Find("img")
	assert.Equal(t, heroRef, img.AttrOr("src", ""))
	assert.Equal(t,
		"/content/dam/hero.jpg.image_file.400.300.file/hero.jpg 400w, /content/dam/hero.jpg.image_file.800.600.file/hero.jpg 800w",
		img.AttrOr("srcset", ""))
	assert.Equal(t, "(min-width: 800px) 50vw, 100vw", img.AttrOr("sizes", ""))
}

func TestPictureSources(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	m := build(t, b.
		PictureSource("wide", "(min-width: 1024px)", 1024).
		PictureSourceFallback("teaser", 400), err)

	require.True(t, m.Valid)
	require.Len(t, m.Sources, 2)

	doc := parse(t, m.Markup)
	sources := doc.Find("picture > source")
	require.Equal(t, 2, sources.Length())
	assert.Equal(t, "(min-width: 1024px)", sources.Eq(0).AttrOr("media", ""))
	assert.Equal(t, heroWide+".image_file.1024.576.file/wide-1920.jpg 1024w", sources.Eq(0).AttrOr("srcset", ""))
	_, hasMedia := sources.Eq(1).Attr("media")
	assert.False(t, hasMedia)
	assert.Equal(t, "/content/dam/hero.jpg.image_file.400.300.file/hero.jpg 400w", sources.Eq(1).AttrOr("srcset", ""))
	assert.Equal(t, 1, doc.Find("picture > img").Length())
	assert.Equal(t, "picture", m.Element.Data)
}

func TestResponsiveConflict(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	require.NoError(t, err)
	_, err = b.ImageSizes("100vw", 400).PictureSource("wide", "", 800).Build()
	assert.ErrorIs(t, err, media.ErrConflictingResponsiveOptions)
}

func TestInvalidMedia(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		setup  func(*media.Builder) *media.Builder
		reason media.InvalidReason
	}{
		{"missing reference", "", nil, media.ReasonReferenceMissing},
		{"unknown asset", "/content/dam/missing.jpg", nil, media.ReasonReferenceInvalid},
		{"no matching rendition", heroRef, func(b *media.Builder) *media.Builder {
			return b.MediaFormatName("square")
		}, media.ReasonNoMatchingRendition},
		{"mandatory format missing", heroRef, func(b *media.Builder) *media.Builder {
			return b.MediaFormatOptions(
				media.MediaFormatOption{Name: "wide"},
				media.MediaFormatOption{Name: "square", Mandatory: true})
		}, media.ReasonNotEnoughMatchingRenditions},
		{"image format on download", pdfRef, func(b *media.Builder) *media.Builder {
			return b.MediaFormatName("teaser")
		}, media.ReasonNoMatchingRendition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t)
			b, err := h.GetRef(tt.ref)
			require.NoError(t, err)
			if tt.setup != nil {
				b = tt.setup(b)
			}
			m, err := b.Build()
			require.NoError(t, err)
			assert.False(t, m.Valid)
			assert.Equal(t, tt.reason, m.InvalidReason)
			assert.Nil(t, m.Rendition)
			assert.Empty(t, m.URL)
			assert.Empty(t, m.Markup)
		})
	}
}

func TestDummyImage(t *testing.T) {
	h := newHandler(t)

	b, err := h.GetRef("")
	m := build(t, b.DummyImage(true).MediaFormatName("teaser"), err)
	require.False(t, m.Valid)
	img := parse(t, m.Markup).Find("img")
	assert.Equal(t, DefaultDummyImageURL, img.AttrOr("src", ""))
	assert.Equal(t, DummyClass, img.AttrOr("class", ""))
	assert.Equal(t, "400", img.AttrOr("width", ""))
	assert.Equal(t, "300", img.AttrOr("height", ""))

	b, err = h.GetRef("/content/dam/missing.jpg")
	m = build(t, b.DummyImage(true).DummyImageURL("/static/dummy.png").FixedWidth(120), err)
	img = parse(t, m.Markup).Find("img")
	assert.Equal(t, "/static/dummy.png", img.AttrOr("src", ""))
	assert.Equal(t, "120", img.AttrOr("width", ""))

	h = newHandler(t, WithDummyImageURL("/static/configured.png"))
	b, err = h.GetRef("")
	m = build(t, b.DummyImage(true), err)
	assert.Equal(t, "/static/configured.png", parse(t, m.Markup).Find("img").AttrOr("src", ""))
}

func TestDownloadMarkup(t *testing.T) {
	h := newHandler(t)

	b, err := h.GetRef(pdfRef)
	m := build(t, b, err)
	require.True(t, m.Valid)
	a := parse(t, m.Markup).Find("a")
	assert.Equal(t, pdfRef, a.AttrOr("href", ""))
	assert.Equal(t, "doc.pdf", a.Text())

	b, err = h.GetRef(pdfRef)
	m = build(t, b.MediaFormatName("download").ContentDispositionAttachment(true), err)
	require.True(t, m.Valid)
	assert.True(t, m.Rendition.IsDownload())
	assert.Equal(t, pdfRef+".download_attachment.file/doc.pdf", m.URL)
}

func TestGet_ResourceOverrides(t *testing.T) {
	h := newHandler(t)
	res := &component.Resource{
		Path:         "/content/page/jcr:content/hero",
		ResourceType: "app/plain",
		Properties: map[string]any{
			media.PropMediaRef:      heroRef,
			media.PropMediaCrop:     "100,50,300,200",
			media.PropMediaRotation: 90,
		},
	}
	b, err := h.Get(res)
	m := build(t, b, err)

	require.True(t, m.Valid)
	assert.Equal(t, &media.CropDimension{Left: 200, Top: 100, Width: 400, Height: 300}, m.Crop)
	assert.Equal(t, media.Rotation(90), m.Rotation)
	assert.Equal(t, "/content/dam/hero.jpg.image_file.300.400.200,100,600,400.90.file/hero.jpg", m.URL)
	assert.Same(t, res, m.Request.Resource())
}

func TestGet_ComponentFormats(t *testing.T) {
	h := newHandler(t)

	b, err := h.Get(&component.Resource{ResourceType: "app/image", Properties: map[string]any{media.PropMediaRef: heroRef}})
	m := build(t, b, err)
	require.True(t, m.Valid)
	assert.Equal(t, heroWide, m.URL)

	// the inherited mandatory flag is broadcast to both formats, and square cannot be served
	b, err = h.Get(&component.Resource{ResourceType: "app/hero", Properties: map[string]any{media.PropMediaRef: heroRef}})
	m = build(t, b, err)
	assert.False(t, m.Valid)
	assert.Equal(t, media.ReasonNotEnoughMatchingRenditions, m.InvalidReason)

	b, err = h.Get(&component.Resource{ResourceType: "app/hero", Properties: map[string]any{media.PropMediaRef: heroRef}})
	m = build(t, b.AutoCrop(true), err)
	assert.True(t, m.Valid)
}

func TestGet_CustomProperties(t *testing.T) {
	h := newHandler(t)
	res := &component.Resource{Properties: map[string]any{
		"heroImage": heroRef,
		"heroCrop":  "",
		"heroRot":   "180",
	}}
	b, err := h.Get(res)
	m := build(t, b.RefProperty("heroImage").CropProperty("heroCrop").RotationProperty("heroRot"), err)
	require.True(t, m.Valid)
	assert.Nil(t, m.Crop)
	assert.Equal(t, media.Rotation(180), m.Rotation)
}

func TestGet_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  error
	}{
		{"malformed crop", map[string]any{media.PropMediaRef: heroRef, media.PropMediaCrop: "bogus"}, media.ErrInvalidCrop},
		{"crop of wrong type", map[string]any{media.PropMediaRef: heroRef, media.PropMediaCrop: 12}, media.ErrInvalidCrop},
		{"unsupported rotation", map[string]any{media.PropMediaRef: heroRef, media.PropMediaRotation: 45}, media.ErrInvalidRotation},
		{"rotation of wrong type", map[string]any{media.PropMediaRef: heroRef, media.PropMediaRotation: true}, media.ErrInvalidRotation},
		{"reference of wrong type", map[string]any{media.PropMediaRef: 7}, media.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t)
			b, err := h.Get(&component.Resource{Path: "/content/x", Properties: tt.props})
			require.NoError(t, err)
			_, err = b.Build()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, media.ErrInvalidArgument)
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	h := newHandler(t)
	b, err := h.GetRef(heroRef)
	require.NoError(t, err)
	_, err = b.MediaFormatName("sqare").Build()
	assert.ErrorIs(t, err, media.ErrInvalidArgument)
	assert.ErrorIs(t, err, format.ErrUnknownFormat)
	assert.Contains(t, err.Error(), `did you mean "square"`)

	b, err = h.GetRef(heroRef)
	require.NoError(t, err)
	_, err = b.PictureSource("panorama", "", 400).Build()
	assert.ErrorIs(t, err, format.ErrUnknownFormat)
}

type failingStore struct{ err error }

func (s failingStore) Load(string) (*asset.Source, error) { return nil, s.err }

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("store unavailable")
	h, err := New(failingStore{err: boom}, testFormats(t))
	require.NoError(t, err)

	b, err := h.GetRef(heroRef)
	require.NoError(t, err)
	m, err := b.Build()
	assert.Nil(t, m)
	assert.Same(t, boom, err)
}

func TestDerivedRequestLeavesOriginalUnchanged(t *testing.T) {
	h := newHandler(t)
	b1, err := h.GetRef(heroRef)
	require.NoError(t, err)
	r1, err := b1.MediaFormatName("square").AutoCrop(true).Request()
	require.NoError(t, err)

	b2, err := h.GetRequest(r1)
	m := build(t, b2.MediaFormatName("wide"), err)

	assert.True(t, m.Valid)
	assert.Equal(t, heroWide, m.URL)
	assert.Equal(t, []string{"square"}, r1.Args().MediaFormatNames())

	m1, err := h.ProcessRequest(r1)
	require.NoError(t, err)
	assert.Equal(t, "square", m1.Rendition.MediaFormat)
}

func TestMetricsAndLogging(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	h := newHandler(t, WithRegisterer(reg), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	for _, ref := range []string{heroRef, heroRef, ""} {
		b, err := h.GetRef(ref)
		require.NoError(t, err)
		_, err = b.Build()
		require.NoError(t, err)
	}
	b, err := h.GetRef(heroRef)
	require.NoError(t, err)
	_, err = b.MediaFormatName("nope").Build()
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.resolutions.WithLabelValues(OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.resolutions.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.resolutions.WithLabelValues(OutcomeError)))
	assert.Equal(t, 3, testutil.CollectAndCount(reg, "media_resolutions_total"))

	logs := buf.String()
	assert.Contains(t, logs, `"message":"media resolved"`)
	assert.Contains(t, logs, `"reason":"media reference missing"`)
	assert.Contains(t, logs, `"message":"media request failed"`)

	_, err = New(testStore(t), testFormats(t), WithRegisterer(reg))
	assert.Error(t, err, "registering twice must fail")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil, testFormats(t))
	assert.ErrorIs(t, err, media.ErrInvalidArgument)

	h := newHandler(t)
	_, err = h.Get(nil)
	assert.ErrorIs(t, err, media.ErrInvalidArgument)
	_, err = h.ProcessRequest(nil)
	assert.ErrorIs(t, err, media.ErrInvalidArgument)
	_, err = h.GetRequest(nil)
	assert.ErrorIs(t, err, media.ErrInvalidArgument)
}

func TestHandler_Asset(t *testing.T) {
	h := newHandler(t, WithLinker(URLLinker{Prefix: "/site"}))
	a, err := h.Asset(heroRef, media.Args{})
	require.NoError(t, err)
	tpl, err := a.URITemplate(media.URITemplateScaleWidth)
	require.NoError(t, err)
	assert.Equal(t, "/site/content/dam/hero.jpg.image_file.{width}.0.file/hero.jpg", tpl.Template)

	_, err = h.Asset("/content/dam/missing.jpg", media.Args{})
	assert.ErrorIs(t, err, asset.ErrAssetNotFound)
}
