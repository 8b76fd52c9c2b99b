// Package config loads the media handler configuration.
//
// Configuration comes from a YAML file whose path is passed explicitly or
// taken from MEDIA_HANDLER_CONFIG. Selected values can be overridden from the
// environment:
//
//	MEDIA_HANDLER_LOG_LEVEL        logLevel
//	MEDIA_HANDLER_STORE_TYPE       store.type
//	MEDIA_HANDLER_STORE_ROOT       store.root
//	MEDIA_HANDLER_URL_HOST         url.host
//	MEDIA_HANDLER_URL_PREFIX       url.prefix
//	MEDIA_HANDLER_DUMMY_IMAGE_URL  dummyImageUrl
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/component"
	"github.com/ironsheep/media-handler/internal/format"
	"github.com/ironsheep/media-handler/internal/media"
)

// Environment variables
const (
	EnvConfig        = "MEDIA_HANDLER_CONFIG"
	EnvLogLevel      = "MEDIA_HANDLER_LOG_LEVEL"
	EnvStoreType     = "MEDIA_HANDLER_STORE_TYPE"
	EnvStoreRoot     = "MEDIA_HANDLER_STORE_ROOT"
	EnvURLHost       = "MEDIA_HANDLER_URL_HOST"
	EnvURLPrefix     = "MEDIA_HANDLER_URL_PREFIX"
	EnvDummyImageURL = "MEDIA_HANDLER_DUMMY_IMAGE_URL"
)

// Store types
const (
	StoreFilesystem = "filesystem"
	StoreMemory     = "memory"
)

// ErrInvalidConfig is returned for configuration that cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete handler configuration
type Config struct {
	LogLevel      string                          `yaml:"logLevel"`
	Store         StoreConfig                     `yaml:"store"`
	URL           URLConfig                       `yaml:"url"`
	DummyImageURL string                          `yaml:"dummyImageUrl"`
	Renditions    RenditionConfig                 `yaml:"renditions"`
	Formats       []format.Format                 `yaml:"formats"`
	Components    map[string]component.Definition `yaml:"components"`
}

// StoreConfig selects the asset store
type StoreConfig struct {
	Type string `yaml:"type"`
	Root string `yaml:"root"`

	// Assets seed the memory store.
	Assets []asset.Source `yaml:"assets"`
}

// URLConfig controls URL externalization
type URLConfig struct {
	Host   string        `yaml:"host"`
	Prefix string        `yaml:"prefix"`
	Mode   media.URLMode `yaml:"mode"`
}

// RenditionConfig holds rendition name patterns
type RenditionConfig struct {
	ThumbnailPattern string `yaml:"thumbnailPattern"`
	WebPattern       string `yaml:"webPattern"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		LogLevel: "info",
		Store:    StoreConfig{Type: StoreFilesystem, Root: "."},
		URL:      URLConfig{Mode: media.URLModeDefault},
		Renditions: RenditionConfig{
			ThumbnailPattern: asset.DefaultThumbnailPattern,
			WebPattern:       asset.DefaultWebPattern,
		},
	}
}

// Load reads the file at path, or at $MEDIA_HANDLER_CONFIG when path is empty,
// over the defaults, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		EnvLogLevel:      &c.LogLevel,
		EnvStoreType:     &c.Store.Type,
		EnvStoreRoot:     &c.Store.Root,
		EnvURLHost:       &c.URL.Host,
		EnvURLPrefix:     &c.URL.Prefix,
		EnvDummyImageURL: &c.DummyImageURL,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.Store.Type {
	case StoreFilesystem:
		if c.Store.Root == "" {
			return fmt.Errorf("%w: filesystem store needs a root", ErrInvalidConfig)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store type %q", ErrInvalidConfig, c.Store.Type)
	}
	mode, err := media.ParseURLMode(string(c.URL.Mode))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.URL.Mode = mode
	if _, err := c.FormatRegistry(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Patterns(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns a JSON logger writing to w at the configured level
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(c.Level()).With().Timestamp().Logger()
}

// FormatRegistry builds the media format registry
func (c *Config) FormatRegistry() (*format.Registry, error) {
	return format.NewRegistry(c.Formats...)
}

// ComponentRegistry builds the component configuration registry
func (c *Config) ComponentRegistry() *component.Registry {
	return component.NewRegistry(c.Components)
}

// Patterns compiles the rendition name patterns
func (c *Config) Patterns() (*asset.Patterns, error) {
	return asset.NewPatterns(c.Renditions.ThumbnailPattern, c.Renditions.WebPattern)
}
