package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/media-handler/internal/asset"
	"github.com/ironsheep/media-handler/internal/config"
	"github.com/ironsheep/media-handler/internal/handler"
	"github.com/ironsheep/media-handler/internal/store"
)

// app holds the wired components shared by all commands
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	handler *handler.Handler
}

// wire loads configuration and builds the media handler
func wire(cc *cli.Context, reg prometheus.Registerer) (*app, error) {
	cfg, err := config.Load(cc.String("config"))
	if err != nil {
		return nil, err
	}
	// stdout is reserved for the MCP protocol
	log := cfg.Logger(os.Stderr)

	st, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	formats, err := cfg.FormatRegistry()
	if err != nil {
		return nil, err
	}
	patterns, err := cfg.Patterns()
	if err != nil {
		return nil, err
	}

	opts := []handler.Option{
		handler.WithLogger(log),
		handler.WithRegisterer(reg),
		handler.WithLinker(handler.URLLinker{Host: cfg.URL.Host, Prefix: cfg.URL.Prefix}),
		handler.WithComponents(cfg.ComponentRegistry()),
		handler.WithPatterns(patterns),
	}
	if cfg.DummyImageURL != "" {
		opts = append(opts, handler.WithDummyImageURL(cfg.DummyImageURL))
	}
	h, err := handler.New(st, formats, opts...)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("store", cfg.Store.Type).
		Int("formats", len(formats.All())).
		Msg("media handler ready")
	return &app{cfg: cfg, log: log, handler: h}, nil
}

func newStore(cfg *config.Config) (asset.Store, error) {
	switch cfg.Store.Type {
	case config.StoreMemory:
		sources := make([]*asset.Source, 0, len(cfg.Store.Assets))
		for i := range cfg.Store.Assets {
			sources = append(sources, &cfg.Store.Assets[i])
		}
		return store.NewMemoryStore(sources...)
	case config.StoreFilesystem:
		return store.NewFilesystemStore(cfg.Store.Root)
	}
	return nil, fmt.Errorf("%w: unknown store type %q", config.ErrInvalidConfig, cfg.Store.Type)
}
