package main

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/media-handler/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the MCP server on stdin/stdout",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "address to expose Prometheus metrics on, e.g. :9090. Disabled when empty.",
				Destination: &serveOpts.metricsAddr,
			},
		},
	}
}

var serveOpts struct {
	metricsAddr string
}

func serve(cc *cli.Context) error {
	reg := prometheus.NewRegistry()
	a, err := wire(cc, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cc.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveOpts.metricsAddr != "" {
		srv := &http.Server{
			Addr:    serveOpts.metricsAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
	}

	a.log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("media MCP server")
	return server.New(a.handler, server.WithLogger(a.log), server.WithVersion(Version)).Run(ctx)
}
