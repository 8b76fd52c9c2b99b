package handler

import (
	"net/url"
	"strings"

	"github.com/ironsheep/media-handler/internal/media"
)

// URLLinker externalizes delivery paths. Paths are prefixed with Prefix; in
// full-url mode they are also qualified with Host.
type URLLinker struct {
	// Host is scheme and authority, e.g. "https://www.example.com".
	Host   string
	Prefix string
}

var placeholders = strings.NewReplacer(
	url.PathEscape(media.PlaceholderWidth), media.PlaceholderWidth,
	url.PathEscape(media.PlaceholderHeight), media.PlaceholderHeight,
)

// Link implements asset.Linker
func (l URLLinker) Link(path string, args media.Args) string {
	if path == "" {
		return ""
	}
	p := strings.TrimSuffix(l.Prefix, "/") + escapePath(path)
	if args.EffectiveURLMode() == media.URLModeFullURL && l.Host != "" {
		return strings.TrimSuffix(l.Host, "/") + p
	}
	return p
}

// escapePath percent-encodes a path but keeps URI template placeholders
func escapePath(p string) string {
	return placeholders.Replace((&url.URL{Path: p}).EscapedPath())
}
