// Package handler resolves media requests against an asset store.
//
// Handler implements media.Processor: it reads the media reference and the
// crop and rotation overrides from the request subject, loads and wraps the
// asset, selects the primary rendition and the responsive source renditions
// and renders the markup.
//
// Resolution misses produce an invalid media.Media with a reason. Argument
// problems are returned as errors wrapping media.ErrInvalidArgument and store
// failures other than a missing asset are returned unchanged.
package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/component"
	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
)

// Handler resolves media requests. It is safe for concurrent use.
type Handler struct {
	store      asset.Store
	formats    *format.Registry
	components *component.Registry
	linker     asset.Linker
	patterns   *asset.Patterns
	dummyURL   string
	log        zerolog.Logger

	registerer prometheus.Registerer
	metrics    *metrics
}

// Option configures a Handler
type Option func(*Handler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// WithRegisterer registers the handler metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *Handler) { h.registerer = reg }
}

// WithLinker sets how delivery paths become URLs. The default is a URLLinker
// without host or prefix.
func WithLinker(l asset.Linker) Option {
	return func(h *Handler) { h.linker = l }
}

// WithComponents sets the component configuration used by Get
func WithComponents(c *component.Registry) Option {
	return func(h *Handler) { h.components = c }
}

// WithPatterns sets the thumbnail and web rendition name patterns
func WithPatterns(p *asset.Patterns) Option {
	return func(h *Handler) { h.patterns = p }
}

// WithDummyImageURL sets the placeholder image used when a request enables
// dummy images without its own URL.
func WithDummyImageURL(u string) Option {
	return func(h *Handler) { h.dummyURL = u }
}

// New creates a handler
func New(store asset.Store, formats *format.Registry, opts ...Option) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: asset store is nil", media.ErrInvalidArgument)
	}
	h := &Handler{
		store:    store,
		formats:  formats,
		linker:   URLLinker{},
		dummyURL: DefaultDummyImageURL,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.patterns == nil {
		h.patterns = asset.DefaultPatterns()
	}
	m, err := newMetrics(h.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	h.metrics = m
	return h, nil
}

// Formats returns the media format registry
func (h *Handler) Formats() *format.Registry { return h.formats }

// Get returns a builder for a resource, preset from its component configuration
func (h *Handler) Get(res *component.Resource) (*media.Builder, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: resource is nil", media.ErrInvalidArgument)
	}
	var cfg media.ComponentConfig
	if h.components != nil {
		cfg = h.components.Resolve(res)
	}
	return media.NewBuilderForResource(res, cfg, h)
}

// GetRef returns a builder for a raw media reference
func (h *Handler) GetRef(ref string) (*media.Builder, error) {
	return media.NewBuilderForRef(ref, h)
}

// GetRequest returns a builder refining an existing request
func (h *Handler) GetRequest(req *media.Request) (*media.Builder, error) {
	return media.NewBuilderFromRequest(req, h)
}

// Asset loads and wraps the asset at ref without crop or rotation
func (h *Handler) Asset(ref string, args media.Args) (*asset.Asset, error) {
	src, err := h.store.Load(ref)
	if err != nil {
		return nil, err
	}
	return asset.Wrap(src, nil, 0, args, h.context())
}

func (h *Handler) context() asset.Context {
	return asset.Context{Formats: h.formats, Linker: h.linker, Patterns: h.patterns}
}

// ProcessRequest implements media.Processor
func (h *Handler) ProcessRequest(req *media.Request) (*media.Media, error) {
	m, err := h.process(req)
	switch {
	case err != nil:
		h.metrics.observe(OutcomeError)
		h.log.Warn().Err(err).Msg("media request failed")
	case m.Valid:
		h.metrics.observe(OutcomeValid)
		h.log.Debug().
			Str("asset", m.Asset.Path()).
			Str("rendition", m.Rendition.Name).
			Str("url", m.URL).
			Msg("media resolved")
	default:
		h.metrics.observe(OutcomeInvalid)
		h.log.Debug().Str("reason", string(m.InvalidReason)).Msg("media not resolved")
	}
	return m, err
}

func (h *Handler) process(req *media.Request) (*media.Media, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: media request is nil", media.ErrInvalidArgument)
	}
	args := req.Args()
	if err := args.Validate(); err != nil {
		return nil, err
	}
	if err := h.validateFormats(args); err != nil {
		return nil, err
	}

	ref, crop, rotation, err := h.overrides(req)
	if err != nil {
		return nil, err
	}

	m := &media.Media{Request: req, Crop: crop, Rotation: rotation}
	if ref == "" {
		return h.invalid(m, args, media.ReasonReferenceMissing)
	}

	src, err := h.store.Load(ref)
	if errors.Is(err, asset.ErrAssetNotFound) {
		h.log.Debug().Str("ref", ref).Msg("media reference does not resolve")
		return h.invalid(m, args, media.ReasonReferenceInvalid)
	}
	if err != nil {
		return nil, err
	}

	a, err := asset.Wrap(src, crop, rotation, args, h.context())
	if err != nil {
		return nil, err
	}
	m.Asset = a
	m.Crop = a.Crop()

	r := h.primaryRendition(a, args)
	if r == nil {
		reason := media.ReasonNoMatchingRendition
		if args.HasMandatoryMediaFormats() && len(args.MediaFormatOptions) > 1 && a.Rendition(optional(args)) != nil {
			reason = media.ReasonNotEnoughMatchingRenditions
		}
		return h.invalid(m, args, reason)
	}

	m.Valid = true
	m.Rendition = r
	m.URL = r.URL
	if r.IsImage() {
		m.Sources = h.sources(a, r, args)
		m.Element = imageElement(m, args)
	} else {
		m.Element = linkElement(m)
	}
	if m.Markup, err = render(m.Element); err != nil {
		return nil, fmt.Errorf("failed to render markup: %w", err)
	}
	return m, nil
}

// validateFormats rejects format names the registry does not know
func (h *Handler) validateFormats(args media.Args) error {
	names := args.MediaFormatNames()
	for _, ps := range args.PictureSources {
		names = append(names, ps.MediaFormat)
	}
	for _, name := range names {
		if _, err := h.formats.Lookup(name); err != nil {
			return fmt.Errorf("%w: %w", media.ErrInvalidArgument, err)
		}
	}
	return nil
}

// overrides reads reference, crop and rotation from the request subject
func (h *Handler) overrides(req *media.Request) (string, *media.CropDimension, media.Rotation, error) {
	res := req.Resource()
	if res == nil {
		return strings.TrimSpace(req.Ref()), nil, 0, nil
	}

	var ref string
	if v, ok := res.Property(req.RefPropertyOrDefault()); ok {
		s, isString := v.(string)
		if !isString {
			return "", nil, 0, fmt.Errorf("%w: %s of %s is not a string", media.ErrInvalidArgument, req.RefPropertyOrDefault(), res.ResourcePath())
		}
		ref = strings.TrimSpace(s)
	}

	var crop *media.CropDimension
	if v, ok := res.Property(req.CropPropertyOrDefault()); ok {
		s, _ := v.(string)
		if strings.TrimSpace(s) != "" {
			c, err := media.ParseCropDimension(s)
			if err != nil {
				return "", nil, 0, fmt.Errorf("%s of %s: %w", req.CropPropertyOrDefault(), res.ResourcePath(), err)
			}
			crop = &c
		} else if !isEmptyString(v) {
			return "", nil, 0, fmt.Errorf("%w: %s of %s is not a crop string", media.ErrInvalidCrop, req.CropPropertyOrDefault(), res.ResourcePath())
		}
	}

	var rotation media.Rotation
	if v, ok := res.Property(req.RotationPropertyOrDefault()); ok {
		deg, err := toInt(v)
		if err != nil {
			return "", nil, 0, fmt.Errorf("%w: %s of %s: %v", media.ErrInvalidRotation, req.RotationPropertyOrDefault(), res.ResourcePath(), err)
		}
		if rotation, err = media.ValidateRotation(deg); err != nil {
			return "", nil, 0, fmt.Errorf("%s of %s: %w", req.RotationPropertyOrDefault(), res.ResourcePath(), err)
		}
	}
	return ref, crop, rotation, nil
}

func isEmptyString(v any) bool {
	s, ok := v.(string)
	return v == nil || (ok && strings.TrimSpace(s) == "")
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("not a whole number: %v", t)
		}
		return int(t), nil
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, nil
		}
		return strconv.Atoi(strings.TrimSpace(t))
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

// primaryRendition picks the accessor matching what the request asks for
func (h *Handler) primaryRendition(a *asset.Asset, args media.Args) *media.Rendition {
	switch {
	case h.wantsDownload(args):
		return a.DownloadRendition(args)
	case h.wantsImage(args):
		return a.ImageRendition(args)
	}
	return a.Rendition(args)
}

func (h *Handler) wantsDownload(args media.Args) bool {
	for _, name := range args.MediaFormatNames() {
		if f, err := h.formats.Lookup(name); err == nil && f.Download {
			return true
		}
	}
	return false
}

func (h *Handler) wantsImage(args media.Args) bool {
	if args.FixedWidth > 0 || args.FixedHeight > 0 || args.ImageSizes != nil || len(args.PictureSources) > 0 {
		return true
	}
	for _, name := range args.MediaFormatNames() {
		if f, err := h.formats.Lookup(name); err == nil && (f.HasRatio() || f.RequiredWidth() > 0 || f.RequiredHeight() > 0) {
			return true
		}
	}
	return false
}

// optional returns args with every media format made optional
func optional(args media.Args) media.Args {
	args = args.Clone()
	for i := range args.MediaFormatOptions {
		args.MediaFormatOptions[i].Mandatory = false
	}
	return args
}

// sources resolves the srcset renditions for image sizes or picture sources
func (h *Handler) sources(a *asset.Asset, primary *media.Rendition, args media.Args) []media.Source {
	switch {
	case args.ImageSizes != nil:
		s := media.Source{Sizes: args.ImageSizes.Sizes}
		s.Candidates = candidates(a, args, primary.MediaFormat, args.ImageSizes.WidthOptions)
		if len(s.Candidates) == 0 {
			return nil
		}
		return []media.Source{s}
	case len(args.PictureSources) > 0:
		var out []media.Source
		for _, ps := range args.PictureSources {
			s := media.Source{MediaFormat: ps.MediaFormat, Media: ps.Media}
			s.Candidates = candidates(a, args, ps.MediaFormat, ps.WidthOptions)
			if len(s.Candidates) > 0 {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// candidates resolves one image rendition per width, skipping widths that
// cannot be served.
func candidates(a *asset.Asset, args media.Args, mediaFormat string, widths []media.WidthOption) []media.SrcsetCandidate {
	var out []media.SrcsetCandidate
	for _, w := range widths {
		wa := args.Clone()
		wa.ImageSizes = nil
		wa.PictureSources = nil
		wa.FixedWidth, wa.FixedHeight = w.Width, 0
		wa.MediaFormatOptions = nil
		if mediaFormat != "" {
			wa.MediaFormatOptions = []media.MediaFormatOption{{Name: mediaFormat}}
		}
		if r := a.ImageRendition(wa); r != nil {
			out = append(out, media.SrcsetCandidate{Rendition: r, Descriptor: w.Descriptor()})
		}
	}
	return out
}

// invalid finishes an unresolved media, with a dummy image when requested
func (h *Handler) invalid(m *media.Media, args media.Args, reason media.InvalidReason) (*media.Media, error) {
	m.Valid = false
	m.InvalidReason = reason
	if !args.DummyImage {
		return m, nil
	}
	u := args.DummyImageURL
	if u == "" {
		u = h.dummyURL
	}
	m.Element = dummyElement(u, args, h.dummyDimension(args))
	var err error
	if m.Markup, err = render(m.Element); err != nil {
		return nil, fmt.Errorf("failed to render markup: %w", err)
	}
	return m, nil
}

// dummyDimension sizes the placeholder from fixed dimensions or the first
// format with fixed dimensions.
func (h *Handler) dummyDimension(args media.Args) media.Dimension {
	if args.FixedWidth > 0 || args.FixedHeight > 0 {
		return media.Dimension{Width: args.FixedWidth, Height: args.FixedHeight}
	}
	for _, name := range args.MediaFormatNames() {
		if f, err := h.formats.Lookup(name); err == nil && f.IsFixedDimension() {
			return media.Dimension{Width: f.Width, Height: f.Height}
		}
	}
	return media.Dimension{}
}

var _ media.Processor = (*Handler)(nil)
