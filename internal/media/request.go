package media

// Property names read from component configuration
const (
	PropComponentMediaFormats          = "mediaFormats"
	PropComponentMediaFormatsMandatory = "mediaFormatsMandatory"
	PropComponentMediaAutoCrop         = "mediaAutoCrop"
)

// Default instance property names for reference, crop and rotation overrides
const (
	PropMediaRef      = "fileReference"
	PropMediaCrop     = "imageCrop"
	PropMediaRotation = "imageRotation"
)

// Resource is a resolved content node a media request can be built from
type Resource interface {
	ResourcePath() string
	Property(name string) (any, bool)
}

// ComponentConfig exposes component-level configuration already resolved with
// inherit-from-ancestor semantics.
type ComponentConfig interface {
	Bool(name string, def bool) bool
	Strings(name string) []string
	Bools(name string) []bool
}

// Processor turns a finalized Request into a Media result
type Processor interface {
	ProcessRequest(req *Request) (*Media, error)
}

// Request is an immutable media request. Exactly one of Resource and Ref is set.
type Request struct {
	resource         Resource
	ref              string
	args             Args
	refProperty      string
	cropProperty     string
	rotationProperty string
}

// NewResourceRequest creates a request for a resource subject
func NewResourceRequest(res Resource, args Args, refProperty, cropProperty, rotationProperty string) (*Request, error) {
	if res == nil {
		return nil, invalidf("resource is nil")
	}
	return &Request{
		resource:         res,
		args:             args.Clone(),
		refProperty:      refProperty,
		cropProperty:     cropProperty,
		rotationProperty: rotationProperty,
	}, nil
}

// NewRefRequest creates a request for a raw media reference
func NewRefRequest(ref string, args Args) *Request {
	return &Request{ref: ref, args: args.Clone()}
}

// Resource returns the subject resource, or nil for reference requests
func (r *Request) Resource() Resource { return r.resource }

// Ref returns the raw media reference, or "" for resource requests
func (r *Request) Ref() string { return r.ref }

// Args returns a copy of the request arguments
func (r *Request) Args() Args { return r.args.Clone() }

// RefProperty returns the reference property override, or "" for the default
func (r *Request) RefProperty() string { return r.refProperty }

// CropProperty returns the crop property override, or "" for the default
func (r *Request) CropProperty() string { return r.cropProperty }

// RotationProperty returns the rotation property override, or "" for the default
func (r *Request) RotationProperty() string { return r.rotationProperty }

// RefPropertyOrDefault returns the property holding the media reference
func (r *Request) RefPropertyOrDefault() string {
	return orDefault(r.refProperty, PropMediaRef)
}

// CropPropertyOrDefault returns the property holding the crop string
func (r *Request) CropPropertyOrDefault() string {
	return orDefault(r.cropProperty, PropMediaCrop)
}

// RotationPropertyOrDefault returns the property holding the rotation
func (r *Request) RotationPropertyOrDefault() string {
	return orDefault(r.rotationProperty, PropMediaRotation)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
