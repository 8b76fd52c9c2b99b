package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/ironsheep/media-handler/internal/component"
	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
)

// resolve handles media_resolve
func (s *Server) resolve(ctx context.Context, _ *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
	b, err := s.builder(in)
	if err != nil {
		return nil, ResolveOutput{}, err
	}
	m, err := applyResolveInput(b, in).Build()
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	out := ResolveOutput{
		Valid:         m.Valid,
		InvalidReason: string(m.InvalidReason),
		URL:           m.URL,
		Markup:        m.Markup,
		Rendition:     m.Rendition,
	}
	for _, src := range m.Sources {
		out.Sources = append(out.Sources, SourceOutput{
			MediaFormat: src.MediaFormat,
			Media:       src.Media,
			Sizes:       src.Sizes,
			Srcset:      src.Srcset(),
		})
	}
	zerolog.Ctx(ctx).Debug().Bool("valid", m.Valid).Str("url", m.URL).Msg("resolved")
	return nil, out, nil
}

func (s *Server) builder(in ResolveInput) (*media.Builder, error) {
	if in.Resource != nil {
		return s.handler.Get(&component.Resource{
			Path:         in.Resource.Path,
			ResourceType: in.Resource.ResourceType,
			Properties:   in.Resource.Properties,
		})
	}
	return s.handler.GetRef(in.Ref)
}

// applyResolveInput sets every option present in the input. Unset options keep
// the values preset from component configuration.
func applyResolveInput(b *media.Builder, in ResolveInput) *media.Builder {
	if len(in.Formats) > 0 {
		if in.Mandatory {
			b = b.MandatoryMediaFormatNames(in.Formats...)
		} else {
			b = b.MediaFormatNames(in.Formats...)
		}
	}
	if in.AutoCrop {
		b = b.AutoCrop(true)
	}
	if len(in.Extensions) > 0 {
		b = b.FileExtensions(in.Extensions...)
	}
	if in.FixedWidth != 0 {
		b = b.FixedWidth(in.FixedWidth)
	}
	if in.FixedHeight != 0 {
		b = b.FixedHeight(in.FixedHeight)
	}
	if in.URLMode != "" {
		b = b.URLMode(in.URLMode)
	}
	if in.Attachment {
		b = b.ContentDispositionAttachment(true)
	}
	if in.AltText != "" {
		b = b.AltText(in.AltText)
	}
	if in.Decorative {
		b = b.Decorative(true)
	}
	if in.DummyImage {
		b = b.DummyImage(true)
	}
	if in.ImageSizes != nil {
		b = b.ImageSizes(in.ImageSizes.Sizes, in.ImageSizes.Widths...)
	}
	for _, ps := range in.PictureSources {
		b = b.PictureSource(ps.MediaFormat, ps.Media, ps.Widths...)
	}
	return b
}

// asset handles media_asset
func (s *Server) asset(_ context.Context, _ *mcp.CallToolRequest, in AssetInput) (*mcp.CallToolResult, AssetOutput, error) {
	a, err := s.handler.Asset(in.Ref, media.Args{
		AltText:                in.AltText,
		ForceAltValueFromAsset: in.ForceAltValueFromAsset,
	})
	if err != nil {
		return nil, AssetOutput{}, err
	}
	dim := a.OriginalDimension()
	return nil, AssetOutput{
		Path:        a.Path(),
		Name:        a.Name(),
		Title:       a.Title(),
		Description: a.Description(),
		AltText:     a.AltText(),
		Width:       dim.Width,
		Height:      dim.Height,
		Rendition:   a.DefaultRendition(),
	}, nil
}

// uriTemplate handles media_uri_template
func (s *Server) uriTemplate(_ context.Context, _ *mcp.CallToolRequest, in URITemplateInput) (*mcp.CallToolResult, URITemplateOutput, error) {
	a, err := s.handler.Asset(in.Ref, media.Args{})
	if err != nil {
		return nil, URITemplateOutput{}, err
	}
	if in.Type == "" {
		templates, err := a.URITemplates()
		if err != nil {
			return nil, URITemplateOutput{}, err
		}
		return nil, URITemplateOutput{Templates: templates}, nil
	}

	tpl, err := a.URITemplate(media.URITemplateType(in.Type))
	if err != nil {
		return nil, URITemplateOutput{}, err
	}
	return nil, URITemplateOutput{Templates: []media.URITemplate{tpl}}, nil
}

// formats handles media_formats
func (s *Server) formats(_ context.Context, _ *mcp.CallToolRequest, _ FormatsInput) (*mcp.CallToolResult, FormatsOutput, error) {
	formats := s.handler.Formats().All()
	if formats == nil {
		formats = []format.Format{}
	}
	return nil, FormatsOutput{Formats: formats}, nil
}
