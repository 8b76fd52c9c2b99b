package asset

import (
	"path"

	"github.com/ironsheep/media-handler/internal/media"
)

// OriginalRendition is the name of the rendition holding the original binary
const OriginalRendition = "original"

// Store loads assets by path. Implementations return an error wrapping
// ErrAssetNotFound for unknown paths; any other error is passed to the caller
// unchanged.
type Store interface {
	Load(path string) (*Source, error)
}

// Source is an asset as it is stored: metadata plus its stored renditions.
type Source struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Metadata values are scalars or, for legacy multi-value fields, slices.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Renditions []SourceRendition `json:"renditions" yaml:"renditions"`
}

// SourceRendition is one stored rendition
type SourceRendition struct {
	Name     string `json:"name" yaml:"name"`
	MimeType string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Width    int64  `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int64  `json:"height,omitempty" yaml:"height,omitempty"`
}

// Dimension returns the stored pixel dimensions
func (r SourceRendition) Dimension() media.Dimension {
	return media.Dimension{Width: r.Width, Height: r.Height}
}

// Original returns the original rendition
func (s *Source) Original() (SourceRendition, bool) {
	for _, r := range s.Renditions {
		if r.Name == OriginalRendition {
			return r, true
		}
	}
	return SourceRendition{}, false
}

// FileName returns the technical name of the asset
func (s *Source) FileName() string {
	if s.Name != "" {
		return s.Name
	}
	return path.Base(s.Path)
}

// extension returns the file extension of a stored rendition. The MIME type wins
// over the name; the original falls back to the asset's file name.
func (s *Source) extension(r SourceRendition) string {
	if ext := media.ExtensionForMimeType(r.MimeType); ext != "" {
		return ext
	}
	if r.Name == OriginalRendition {
		return media.Extension(s.FileName())
	}
	return media.Extension(r.Name)
}

// Clone returns a copy that shares no slices or maps with s
func (s *Source) Clone() *Source {
	c := *s
	c.Renditions = append([]SourceRendition(nil), s.Renditions...)
	if s.Metadata != nil {
		c.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
