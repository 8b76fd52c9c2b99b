// Package component models content resources and their component-level
// configuration.
//
// A Resource is a content node with a resource type and instance properties.
// Component configuration (accepted media formats, auto-crop) lives on
// definitions keyed by resource type and is inherited along super types: a
// property not set on a definition is looked up on its super type, and so on.
package component

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/media-handler/internal/media"
)

// Resource is a content node that can be the subject of a media request
type Resource struct {
	Path         string         `json:"path" yaml:"path"`
	ResourceType string         `json:"resourceType,omitempty" yaml:"resourceType,omitempty"`
	Properties   map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// ResourcePath implements media.Resource
func (r *Resource) ResourcePath() string { return r.Path }

// Property implements media.Resource
func (r *Resource) Property(name string) (any, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// Definition is the configuration of one component type
type Definition struct {
	SuperType  string         `yaml:"superType,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// Registry resolves component configuration by resource type
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates a registry. The definitions map is copied.
func NewRegistry(defs map[string]Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for k, v := range defs {
		r.defs[k] = v
	}
	return r
}

// Resolve returns the inherited configuration for the resource's type
func (r *Registry) Resolve(res *Resource) media.ComponentConfig {
	if res == nil {
		return Config{registry: r}
	}
	return Config{registry: r, resourceType: res.ResourceType}
}

// Config is component configuration resolved with inherit semantics
type Config struct {
	registry     *Registry
	resourceType string
}

// Lookup walks the resource type and its super types for a property
func (c Config) Lookup(name string) (any, bool) {
	if c.registry == nil {
		return nil, false
	}
	seen := make(map[string]bool)
	for t := c.resourceType; t != "" && !seen[t]; {
		seen[t] = true
		def, ok := c.registry.defs[t]
		if !ok {
			return nil, false
		}
		if v, ok := def.Properties[name]; ok {
			return v, true
		}
		t = def.SuperType
	}
	return nil, false
}

// Bool implements media.ComponentConfig
func (c Config) Bool(name string, def bool) bool {
	v, ok := c.Lookup(name)
	if !ok {
		return def
	}
	b, err := toBool(v)
	if err != nil {
		return def
	}
	return b
}

// Strings implements media.ComponentConfig
func (c Config) Strings(name string) []string {
	v, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// Bools implements media.ComponentConfig
func (c Config) Bools(name string) []bool {
	v, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case bool, string:
		b, err := toBool(t)
		if err != nil {
			return nil
		}
		return []bool{b}
	case []bool:
		return append([]bool(nil), t...)
	case []any:
		out := make([]bool, 0, len(t))
		for _, item := range t {
			b, err := toBool(item)
			if err != nil {
				return nil
			}
			out = append(out, b)
		}
		return out
	}
	return nil
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(t))
	}
	return false, fmt.Errorf("not a boolean: %T", v)
}
