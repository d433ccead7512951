package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/shoreline-analysis/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/shoreline-analysis/internal/adapter/kafka"
	"github.com/couchcryptid/shoreline-analysis/internal/adapter/sheet"
	"github.com/couchcryptid/shoreline-analysis/internal/config"
	"github.com/couchcryptid/shoreline-analysis/internal/observability"
	"github.com/couchcryptid/shoreline-analysis/internal/pipeline"
	"github.com/couchcryptid/shoreline-analysis/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Presentation config (optional, hot-reloaded via RENDER_CONFIG).
	renderCfg := render.Default()
	if cfg.RenderConfigPath != "" {
		renderCfg, err = render.Load(cfg.RenderConfigPath)
		if err != nil {
			logger.Error("failed to load render config", "path", cfg.RenderConfigPath, "error", err)
			os.Exit(1)
		}
	}
	holder := render.NewHolder(renderCfg)
	renderer, err := render.NewRenderer(holder)
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	if cfg.RenderConfigPath != "" {
		go func() {
			err := render.Watch(ctx, cfg.RenderConfigPath, logger, func(next *render.Config, err error) {
				if err != nil {
					metrics.RenderConfigReloads.WithLabelValues("error").Inc()
					return
				}
				holder.Set(next)
				metrics.RenderConfigReloads.WithLabelValues("ok").Inc()
			})
			if err != nil {
				logger.Error("render config watcher stopped", "error", err)
			}
		}()
	}

	// Summary publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("summary publishing disabled")
	}

	p := pipeline.New(sheet.NewReader(), publisher, cfg.AnalysisOptions(cfg.DefaultMode), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, renderer, httpadapter.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		DefaultMode:    cfg.DefaultMode,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
