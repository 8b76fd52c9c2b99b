package media

import (
	"strings"

	"golang.org/x/net/html"
)

// Builder assembles a Request and hands it to a Processor.
//
// Every setter returns the same Builder. A setter that receives an invalid value
// records the error, Err reports it immediately and the remaining setters become
// no-ops. A Builder must not be shared between goroutines.
type Builder struct {
	processor Processor

	resource Resource
	ref      string

	args             Args
	refProperty      string
	cropProperty     string
	rotationProperty string
	pictureSources   []PictureSource

	err error
}

// NewBuilderForResource creates a builder for a resource subject and applies the
// component configuration defaults eagerly. cfg may be nil.
func NewBuilderForResource(res Resource, cfg ComponentConfig, p Processor) (*Builder, error) {
	if res == nil {
		return nil, invalidf("resource is nil")
	}
	if p == nil {
		return nil, invalidf("processor is nil")
	}
	b := &Builder{processor: p, resource: res}
	if cfg != nil {
		b.args.AutoCrop = cfg.Bool(PropComponentMediaAutoCrop, false)
		names := cfg.Strings(PropComponentMediaFormats)
		if len(names) > 0 {
			b.args.MediaFormatOptions = ReconcileMandatory(names, cfg.Bools(PropComponentMediaFormatsMandatory))
		}
	}
	return b, nil
}

// NewBuilderForRef creates a builder for a raw media reference with library defaults
func NewBuilderForRef(ref string, p Processor) (*Builder, error) {
	if p == nil {
		return nil, invalidf("processor is nil")
	}
	return &Builder{processor: p, ref: ref}, nil
}

// NewBuilderFromRequest creates a builder refining an existing request. The
// request is never modified.
func NewBuilderFromRequest(req *Request, p Processor) (*Builder, error) {
	if req == nil {
		return nil, invalidf("media request is nil")
	}
	if p == nil {
		return nil, invalidf("processor is nil")
	}
	return &Builder{
		processor:        p,
		resource:         req.resource,
		ref:              req.ref,
		args:             req.args.Clone(),
		refProperty:      req.refProperty,
		cropProperty:     req.cropProperty,
		rotationProperty: req.rotationProperty,
	}, nil
}

// ReconcileMandatory pairs format names with mandatory flags. A single flag
// applies to every name, a longer list aligns by index and missing entries are
// not mandatory.
func ReconcileMandatory(names []string, mandatory []bool) []MediaFormatOption {
	opts := make([]MediaFormatOption, len(names))
	for i, name := range names {
		m := false
		switch {
		case len(mandatory) == 1:
			// backward compatibility: one flag for all formats
			m = mandatory[0]
		case len(mandatory) > i:
			m = mandatory[i]
		}
		opts[i] = MediaFormatOption{Name: name, Mandatory: m}
	}
	return opts
}

// Err returns the first validation error recorded by a setter
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) ok() bool {
	return b.err == nil
}

// Args replaces all arguments with a copy of value
func (b *Builder) Args(value Args) *Builder {
	if b.ok() {
		b.args = value.Clone()
	}
	return b
}

// MediaFormatNames sets the accepted formats, none mandatory
func (b *Builder) MediaFormatNames(names ...string) *Builder {
	return b.mediaFormatNames(names, false)
}

// MandatoryMediaFormatNames sets the accepted formats, all mandatory
func (b *Builder) MandatoryMediaFormatNames(names ...string) *Builder {
	return b.mediaFormatNames(names, true)
}

// MediaFormatName sets a single accepted format
func (b *Builder) MediaFormatName(name string) *Builder {
	return b.mediaFormatNames([]string{name}, false)
}

func (b *Builder) mediaFormatNames(names []string, mandatory bool) *Builder {
	if !b.ok() {
		return b
	}
	opts := make([]MediaFormatOption, 0, len(names))
	for _, name := range names {
		opt, err := NewMediaFormatOption(name, mandatory)
		if err != nil {
			return b.fail(err)
		}
		opts = append(opts, opt)
	}
	b.args.MediaFormatOptions = opts
	return b
}

// MediaFormatOptions sets the accepted formats with individual mandatory flags
func (b *Builder) MediaFormatOptions(opts ...MediaFormatOption) *Builder {
	if !b.ok() {
		return b
	}
	for _, o := range opts {
		if strings.TrimSpace(o.Name) == "" {
			return b.fail(invalidf("media format name is empty"))
		}
	}
	b.args.MediaFormatOptions = append([]MediaFormatOption(nil), opts...)
	return b
}

// MediaFormatsMandatory sets the mandatory flag on all current formats
func (b *Builder) MediaFormatsMandatory(value bool) *Builder {
	if !b.ok() {
		return b
	}
	opts := make([]MediaFormatOption, len(b.args.MediaFormatOptions))
	for i, o := range b.args.MediaFormatOptions {
		opts[i] = MediaFormatOption{Name: o.Name, Mandatory: value}
	}
	b.args.MediaFormatOptions = opts
	return b
}

// AutoCrop enables cropping the original to a requested format ratio
func (b *Builder) AutoCrop(value bool) *Builder {
	if b.ok() {
		b.args.AutoCrop = value
	}
	return b
}

// FileExtensions restricts renditions to the given extensions
func (b *Builder) FileExtensions(values ...string) *Builder {
	if !b.ok() {
		return b
	}
	exts := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimPrefix(strings.TrimSpace(v), ".")
		if v == "" {
			return b.fail(invalidf("file extension is empty"))
		}
		exts = append(exts, strings.ToLower(v))
	}
	b.args.FileExtensions = exts
	return b
}

// FileExtension restricts renditions to a single extension
func (b *Builder) FileExtension(value string) *Builder {
	return b.FileExtensions(value)
}

// URLMode sets the URL mode
func (b *Builder) URLMode(value URLMode) *Builder {
	if !b.ok() {
		return b
	}
	mode, err := ParseURLMode(string(value))
	if err != nil {
		return b.fail(err)
	}
	b.args.URLMode = mode
	return b
}

// FixedWidth requests an exact width
func (b *Builder) FixedWidth(value int64) *Builder {
	if !b.ok() {
		return b
	}
	if value < 0 {
		return b.fail(invalidf("fixed width must not be negative, got %d", value))
	}
	b.args.FixedWidth = value
	return b
}

// FixedHeight requests an exact height
func (b *Builder) FixedHeight(value int64) *Builder {
	if !b.ok() {
		return b
	}
	if value < 0 {
		return b.fail(invalidf("fixed height must not be negative, got %d", value))
	}
	b.args.FixedHeight = value
	return b
}

// FixedDimension requests an exact width and height
func (b *Builder) FixedDimension(width, height int64) *Builder {
	return b.FixedWidth(width).FixedHeight(height)
}

// ContentDispositionAttachment forces download links to be served as attachments
func (b *Builder) ContentDispositionAttachment(value bool) *Builder {
	if b.ok() {
		b.args.ContentDispositionAttachment = value
	}
	return b
}

// AltText overrides the alternative text of the asset
func (b *Builder) AltText(value string) *Builder {
	if b.ok() {
		b.args.AltText = value
	}
	return b
}

// ForceAltValueFromAsset ignores any alt text override
func (b *Builder) ForceAltValueFromAsset(value bool) *Builder {
	if b.ok() {
		b.args.ForceAltValueFromAsset = value
	}
	return b
}

// Decorative marks the media as decorative, which renders an empty alt text
func (b *Builder) Decorative(value bool) *Builder {
	if b.ok() {
		b.args.Decorative = value
	}
	return b
}

// DummyImage enables a placeholder element for unresolved media
func (b *Builder) DummyImage(value bool) *Builder {
	if b.ok() {
		b.args.DummyImage = value
	}
	return b
}

// DummyImageURL sets the placeholder image URL
func (b *Builder) DummyImageURL(value string) *Builder {
	if !b.ok() {
		return b
	}
	if strings.TrimSpace(value) == "" {
		return b.fail(invalidf("dummy image url is empty"))
	}
	b.args.DummyImageURL = value
	return b
}

// IncludeAssetThumbnails allows thumbnail renditions as candidates
func (b *Builder) IncludeAssetThumbnails(value bool) *Builder {
	if b.ok() {
		b.args.IncludeAssetThumbnails = value
	}
	return b
}

// IncludeAssetWebRenditions allows web renditions as candidates
func (b *Builder) IncludeAssetWebRenditions(value bool) *Builder {
	if b.ok() {
		b.args.IncludeAssetWebRenditions = value
	}
	return b
}

// DragDropSupport sets the drag&drop mode
func (b *Builder) DragDropSupport(value DragDropSupport) *Builder {
	if !b.ok() {
		return b
	}
	switch value {
	case DragDropAuto, DragDropAlways, DragDropNever:
		b.args.DragDropSupport = value
		return b
	}
	return b.fail(invalidf("unknown drag&drop mode %q", value))
}

// Property sets a free-form property
func (b *Builder) Property(key string, value any) *Builder {
	if !b.ok() {
		return b
	}
	if key == "" {
		return b.fail(invalidf("property key is empty"))
	}
	if b.args.Properties == nil {
		b.args.Properties = make(map[string]any)
	}
	b.args.Properties[key] = value
	return b
}

// ImageSizes sets <img srcset sizes> widths
func (b *Builder) ImageSizes(sizes string, widths ...int64) *Builder {
	if !b.ok() {
		return b
	}
	s, err := NewImageSizes(sizes, widths...)
	if err != nil {
		return b.fail(err)
	}
	b.args.ImageSizes = &s
	return b
}

// ImageSizesWithOptions sets <img srcset sizes> from explicit width options
func (b *Builder) ImageSizesWithOptions(sizes string, opts ...WidthOption) *Builder {
	if !b.ok() {
		return b
	}
	s, err := NewImageSizesWithOptions(sizes, opts...)
	if err != nil {
		return b.fail(err)
	}
	b.args.ImageSizes = &s
	return b
}

// PictureSource appends a <picture> source with a media condition
func (b *Builder) PictureSource(mediaFormat, mediaCondition string, widths ...int64) *Builder {
	if !b.ok() {
		return b
	}
	s, err := NewPictureSource(mediaFormat, mediaCondition, widths...)
	if err != nil {
		return b.fail(err)
	}
	b.pictureSources = append(b.pictureSources, s)
	return b
}

// PictureSourceFallback appends a <picture> source without a media condition
func (b *Builder) PictureSourceFallback(mediaFormat string, widths ...int64) *Builder {
	return b.PictureSource(mediaFormat, "", widths...)
}

// RefProperty overrides the property holding the media reference
func (b *Builder) RefProperty(value string) *Builder {
	return b.overrideProperty(&b.refProperty, "reference", value)
}

// CropProperty overrides the property holding the crop string
func (b *Builder) CropProperty(value string) *Builder {
	return b.overrideProperty(&b.cropProperty, "crop", value)
}

// RotationProperty overrides the property holding the rotation
func (b *Builder) RotationProperty(value string) *Builder {
	return b.overrideProperty(&b.rotationProperty, "rotation", value)
}

func (b *Builder) overrideProperty(dst *string, what, value string) *Builder {
	if !b.ok() {
		return b
	}
	if strings.TrimSpace(value) == "" {
		return b.fail(invalidf("%s property name is empty", what))
	}
	*dst = value
	return b
}

// Request finalizes the builder into an immutable Request without processing it
func (b *Builder) Request() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	args := b.args.Clone()
	if len(b.pictureSources) > 0 {
		sources := make([]PictureSource, len(b.pictureSources))
		for i, s := range b.pictureSources {
			sources[i] = s.clone()
		}
		args.PictureSources = sources
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}
	return &Request{
		resource:         b.resource,
		ref:              b.ref,
		args:             args,
		refProperty:      b.refProperty,
		cropProperty:     b.cropProperty,
		rotationProperty: b.rotationProperty,
	}, nil
}

// Build finalizes the request and resolves it
func (b *Builder) Build() (*Media, error) {
	req, err := b.Request()
	if err != nil {
		return nil, err
	}
	return b.processor.ProcessRequest(req)
}

// BuildMarkup resolves the request and returns its markup
func (b *Builder) BuildMarkup() (string, error) {
	m, err := b.Build()
	if err != nil {
		return "", err
	}
	return m.Markup, nil
}

// BuildElement resolves the request and returns its element
func (b *Builder) BuildElement() (*html.Node, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return m.Element, nil
}

// BuildURL resolves the request and returns its URL
func (b *Builder) BuildURL() (string, error) {
	m, err := b.Build()
	if err != nil {
		return "", err
	}
	return m.URL, nil
}
