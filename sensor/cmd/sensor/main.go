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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitalsim/vitalsim/pkg/state"
	"github.com/vitalsim/vitalsim/pkg/version"
	"github.com/vitalsim/vitalsim/sensor/internal/alarm"
	"github.com/vitalsim/vitalsim/sensor/internal/api"
	"github.com/vitalsim/vitalsim/sensor/internal/config"
	"github.com/vitalsim/vitalsim/sensor/internal/detect"
	"github.com/vitalsim/vitalsim/sensor/internal/generate"
	"github.com/vitalsim/vitalsim/sensor/internal/metrics"
	"github.com/vitalsim/vitalsim/sensor/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional; env vars apply either way)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Local .env files override nothing already exported.
	_ = godotenv.Load(".env")

	slog.Info("vitalsim-sensor starting", "version", version.Build, "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"method", cfg.Detection.Method,
		"interval", cfg.GenerationInterval,
		"state_backend", cfg.State.Backend,
		"alarm_enabled", cfg.Alarm.EndpointURL != "",
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := state.Open(state.Options{Backend: cfg.State.Backend, Path: cfg.State.Path})
	if err != nil {
		slog.Error("failed to open state store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	detector, err := detect.New(cfg.Detection)
	if err != nil {
		slog.Error("failed to build detector", "err", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Alarm worker — delivery never blocks the tick loop.
	dispatcher := alarm.New(cfg.Alarm.EndpointURL, m)
	go dispatcher.Run(ctx)

	// Generation→detection→alarm tick loop.
	p := pipeline.New(st, generate.New(), detector, dispatcher, m, cfg.GenerationInterval)
	go p.Run(ctx)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.New(st, prometheus.DefaultGatherer),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("vitalsim-sensor shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
