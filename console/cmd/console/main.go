package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vitalsim/vitalsim/console/internal/api"
	"github.com/vitalsim/vitalsim/console/internal/config"
	"github.com/vitalsim/vitalsim/console/internal/ws"
	"github.com/vitalsim/vitalsim/pkg/state"
	"github.com/vitalsim/vitalsim/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional; env vars apply either way)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Local .env files override nothing already exported.
	_ = godotenv.Load(".env")

	slog.Info("vitalsim-console starting", "version", version.Build, "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"http_port", cfg.HTTPPort,
		"broadcast_interval", cfg.BroadcastInterval,
		"state_backend", cfg.State.Backend,
		"state_path", cfg.State.Path,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := state.Open(state.Options{Backend: cfg.State.Backend, Path: cfg.State.Path})
	if err != nil {
		slog.Error("failed to open state store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	// WebSocket hub — broadcasts the current sample to UI clients.
	hub := ws.New(st, cfg.BroadcastInterval)
	go hub.Run(ctx)

	// With the file backend we can push a broadcast the moment the sensor
	// publishes a new sample, instead of waiting for the next ticker.
	// SQLite has no change notification, so that backend stays ticker-only.
	if cfg.State.Backend == state.BackendFile {
		go func() {
			if err := state.Watch(ctx, cfg.State.Path, func(slot string) {
				if slot == state.SampleSlot {
					hub.Kick()
				}
			}); err != nil {
				slog.Error("state watcher stopped", "err", err)
			}
		}()
	}

	// Combined HTTP server: REST API + WebSocket hub on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st))
	httpMux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("vitalsim-console shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
