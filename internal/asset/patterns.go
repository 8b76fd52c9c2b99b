package asset

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Default rendition name patterns
const (
	DefaultThumbnailPattern = "cq5dam.thumbnail.*"
	DefaultWebPattern       = "cq5dam.web.*"
)

// Patterns classify stored renditions by name
type Patterns struct {
	thumbnail glob.Glob
	web       glob.Glob
}

// NewPatterns compiles thumbnail and web rendition name globs. Empty patterns
// fall back to the defaults.
func NewPatterns(thumbnail, web string) (*Patterns, error) {
	if thumbnail == "" {
		thumbnail = DefaultThumbnailPattern
	}
	if web == "" {
		web = DefaultWebPattern
	}
	t, err := glob.Compile(thumbnail)
	if err != nil {
		return nil, fmt.Errorf("invalid thumbnail pattern %q: %w", thumbnail, err)
	}
	w, err := glob.Compile(web)
	if err != nil {
		return nil, fmt.Errorf("invalid web rendition pattern %q: %w", web, err)
	}
	return &Patterns{thumbnail: t, web: w}, nil
}

// DefaultPatterns returns the default patterns
func DefaultPatterns() *Patterns {
	p, err := NewPatterns(DefaultThumbnailPattern, DefaultWebPattern)
	if err != nil {
		panic(err)
	}
	return p
}

// IsThumbnail reports whether name is a thumbnail rendition
func (p *Patterns) IsThumbnail(name string) bool {
	return p.thumbnail.Match(name)
}

// IsWeb reports whether name is a web-optimized rendition
func (p *Patterns) IsWeb(name string) bool {
	return p.web.Match(name)
}
