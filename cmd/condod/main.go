package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/export"
	"github.com/joseph-ayodele/condo-contacts/internal/observability"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle/provider"
	"github.com/joseph-ayodele/condo-contacts/internal/pdftext"
	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
	repo "github.com/joseph-ayodele/condo-contacts/internal/repository"
	"github.com/joseph-ayodele/condo-contacts/internal/server"
)

func main() {
	// messages with variables, no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := repo.HealthCheck(ctx, db, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := repo.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var o oracle.Oracle
	o, err = provider.New(ctx, cfg.Oracle, logger)
	switch {
	case errors.Is(err, provider.ErrDisabled):
		logger.Info("oracle disabled, deterministic extraction only")
		o = nil
	case err != nil:
		logger.Error("failed to build oracle", "error", err, "provider", cfg.Oracle.Provider)
		os.Exit(1)
	}

	observability.Register()

	extractor := pdftext.NewExtractor(pdftext.Config{
		Pdftotext: cfg.PDF.PdfToText,
		Fallback:  cfg.PDF.PdfToTextFallback,
		Timeout:   cfg.PDF.Timeout,
	}, logger)

	pipe := pipeline.NewPipeline(o, extractor, logger, pipeline.Config{
		ChunkChars:  cfg.Oracle.ChunkChars,
		Concurrency: cfg.Oracle.Concurrency,
	})

	srv := server.New(server.Deps{
		Pipeline:     pipe,
		Condominiums: repo.NewCondominiumRepository(db, logger),
		DB:           db,
		Export:       export.NewService(logger),
		Config:       cfg.Server,
		Formatting:   cfg.Format,
		Logger:       logger,
	})

	if addr := cfg.Server.GRPCHealthAddr; addr != "" {
		go func() {
			check := func(ctx context.Context) error { return repo.HealthCheck(ctx, db, 2*time.Second, logger) }
			if err := server.ServeGRPCHealth(ctx, addr, check, logger); err != nil {
				logger.Error("gRPC health serve error", "error", err, "addr", addr)
			}
		}()
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
