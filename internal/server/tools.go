package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
)

// Tool names
const (
	ToolResolve     = "media_resolve"
	ToolAsset       = "media_asset"
	ToolURITemplate = "media_uri_template"
	ToolFormats     = "media_formats"
)

// ResourceInput describes a component resource holding a media reference
type ResourceInput struct {
	Path         string         `json:"path" jsonschema:"repository path of the resource"`
	ResourceType string         `json:"resourceType,omitempty" jsonschema:"component type used to look up media formats"`
	Properties   map[string]any `json:"properties,omitempty" jsonschema:"resource properties, including the media reference, crop and rotation"`
}

// ImageSizesInput requests an img srcset
type ImageSizesInput struct {
	Sizes  string  `json:"sizes" jsonschema:"value of the sizes attribute"`
	Widths []int64 `json:"widths" jsonschema:"widths to render"`
}

// PictureSourceInput requests one picture source
type PictureSourceInput struct {
	MediaFormat string  `json:"mediaFormat" jsonschema:"media format of the source"`
	Media       string  `json:"media,omitempty" jsonschema:"media condition, empty for the fallback source"`
	Widths      []int64 `json:"widths" jsonschema:"widths to render"`
}

// ResolveInput holds the arguments of media_resolve
type ResolveInput struct {
	Ref      string         `json:"ref,omitempty" jsonschema:"asset path; ignored when resource is set"`
	Resource *ResourceInput `json:"resource,omitempty" jsonschema:"component resource to read the reference from"`

	Formats    []string `json:"formats,omitempty" jsonschema:"accepted media format names in preference order"`
	Mandatory  bool     `json:"mandatory,omitempty" jsonschema:"every listed format must resolve"`
	AutoCrop   bool     `json:"autoCrop,omitempty" jsonschema:"crop the original to the format ratio when needed"`
	Extensions []string `json:"extensions,omitempty" jsonschema:"accepted file extensions"`

	FixedWidth  int64 `json:"fixedWidth,omitempty" jsonschema:"exact width in pixels"`
	FixedHeight int64 `json:"fixedHeight,omitempty" jsonschema:"exact height in pixels"`

	URLMode    media.URLMode `json:"urlMode,omitempty" jsonschema:"default, no-hostname or full-url"`
	Attachment bool          `json:"attachment,omitempty" jsonschema:"deliver downloads as attachments"`

	AltText    string `json:"altText,omitempty" jsonschema:"alternative text override"`
	Decorative bool   `json:"decorative,omitempty" jsonschema:"render as decorative image without alt text"`
	DummyImage bool   `json:"dummyImage,omitempty" jsonschema:"render a placeholder when nothing resolves"`

	ImageSizes     *ImageSizesInput     `json:"imageSizes,omitempty" jsonschema:"img srcset and sizes"`
	PictureSources []PictureSourceInput `json:"pictureSources,omitempty" jsonschema:"picture sources, most specific first"`
}

// SourceOutput is one resolved responsive source
type SourceOutput struct {
	MediaFormat string `json:"mediaFormat,omitempty"`
	Media       string `json:"media,omitempty"`
	Sizes       string `json:"sizes,omitempty"`
	Srcset      string `json:"srcset"`
}

// ResolveOutput is the result of media_resolve
type ResolveOutput struct {
	Valid         bool             `json:"valid"`
	InvalidReason string           `json:"invalidReason,omitempty"`
	URL           string           `json:"url,omitempty"`
	Markup        string           `json:"markup,omitempty"`
	Rendition     *media.Rendition `json:"rendition,omitempty"`
	Sources       []SourceOutput   `json:"sources,omitempty"`
}

// AssetInput holds the arguments of media_asset
type AssetInput struct {
	Ref                    string `json:"ref" jsonschema:"asset path"`
	AltText                string `json:"altText,omitempty" jsonschema:"alternative text override"`
	ForceAltValueFromAsset bool   `json:"forceAltValueFromAsset,omitempty" jsonschema:"ignore the override and use asset metadata"`
}

// AssetOutput is the result of media_asset
type AssetOutput struct {
	Path        string           `json:"path"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	AltText     string           `json:"altText"`
	Width       int64            `json:"width,omitempty"`
	Height      int64            `json:"height,omitempty"`
	Rendition   *media.Rendition `json:"rendition,omitempty"`
}

// URITemplateInput holds the arguments of media_uri_template
type URITemplateInput struct {
	Ref  string `json:"ref" jsonschema:"asset path"`
	Type string `json:"type,omitempty" jsonschema:"crop-center, scale-width or scale-height; empty for all"`
}

// URITemplateOutput is the result of media_uri_template
type URITemplateOutput struct {
	Templates []media.URITemplate `json:"templates"`
}

// FormatsInput holds the arguments of media_formats
type FormatsInput struct{}

// FormatsOutput is the result of media_formats
type FormatsOutput struct {
	Formats []format.Format `json:"formats"`
}

// registerTools adds all media tools to the protocol server
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolResolve,
		Description: "Resolve an asset reference or component resource into the best matching rendition, its URL and HTML markup.",
	}, logged(s, ToolResolve, s.resolve))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolAsset,
		Description: "Describe an asset: title, description, resolved alt text, original dimensions and default rendition.",
	}, logged(s, ToolAsset, s.asset))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolURITemplate,
		Description: "Build URI templates with {width} and {height} placeholders for client-side scaling of an image asset.",
	}, logged(s, ToolURITemplate, s.uriTemplate))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolFormats,
		Description: "List the configured media formats.",
	}, logged(s, ToolFormats, s.formats))
}
