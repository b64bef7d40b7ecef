package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/async"
	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/export"
	"github.com/joseph-ayodele/condo-contacts/internal/ingest"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle/provider"
	"github.com/joseph-ayodele/condo-contacts/internal/pdftext"
	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory with <name>.contatos.pdf / <name>.inadimplentes.pdf pairs (required)")
		watch     = flag.Bool("watch", false, "keep watching --dir for new pairs")
		vendorStr = flag.String("vendor", "auto", "billing system: superlogica, condomob, brcondominios or auto")
		modeStr   = flag.String("mode", "auto", "extraction mode: deterministic, oracle or auto")
		layout    = flag.String("layout", "", "force a layout by name and skip detection")
		out       = flag.String("out", "", "output directory (defaults to --dir)")
		workers   = flag.Int("workers", 2, "pairs reconciled concurrently")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = *dir
	}
	vendor, ok := constants.CanonicalizeVendor(*vendorStr)
	if !ok && *vendorStr != "" {
		printError("Error: unknown --vendor %q\n", *vendorStr)
		os.Exit(1)
	}
	mode, ok := pipeline.ParseMode(*modeStr)
	if !ok {
		printError("Error: unknown --mode %q\n", *modeStr)
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		printError("Error: creating --out: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()

	// oracle is optional here; deterministic extraction still runs
	var o oracle.Oracle
	o, err := provider.New(ctx, cfg.Oracle, logger)
	if err != nil {
		if !errors.Is(err, provider.ErrDisabled) {
			logger.Error("failed to build oracle", "error", err, "provider", cfg.Oracle.Provider)
			os.Exit(1)
		}
		logger.Warn("oracle provider not configured, oracle mode will fail")
		o = nil
	}

	extractor := pdftext.NewExtractor(pdftext.Config{
		Pdftotext: cfg.PDF.PdfToText,
		Fallback:  cfg.PDF.PdfToTextFallback,
		Timeout:   cfg.PDF.Timeout,
	}, logger)
	pipe := pipeline.NewPipeline(o, extractor, logger, pipeline.Config{
		ChunkChars:  cfg.Oracle.ChunkChars,
		Concurrency: cfg.Oracle.Concurrency,
	})
	exporter := export.NewService(logger)

	opts := pipeline.Options{
		Dialect:    *layout,
		Mode:       mode,
		Formatting: cfg.Format,
	}
	handler := async.HandlerFunc(func(ctx context.Context, job async.Job) error {
		jobOpts := opts
		jobOpts.Vendor = job.Vendor
		rep, err := pipe.ReconcileFiles(ctx, job.ContactsPath, job.DelinquentPath, jobOpts)
		if err != nil {
			return err
		}
		return writeOutputs(exporter, *out, job.Name, rep)
	})

	queue := async.NewQueue(handler, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(64),
		async.WithProcessTimeout(10*time.Minute),
	)

	enqueue := func(p ingest.Pair) {
		err := queue.Enqueue(ctx, async.Job{
			Name:           p.Name,
			ContactsPath:   p.ContactsPath,
			DelinquentPath: p.DelinquentPath,
			Vendor:         vendor,
		})
		if err != nil {
			logger.Error("failed to enqueue pair", "name", p.Name, "error", err)
		}
	}

	if *watch {
		runWatch(ctx, *dir, enqueue, logger)
	} else {
		pairs, stats, err := ingest.ScanDirectory(*dir, true)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("scan complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"pairs", stats.Pairs,
			"orphans", stats.Orphans)
		for _, p := range pairs {
			enqueue(p)
		}
	}

	queue.Shutdown(context.Background())
	st := queue.Stats()
	logger.Info("batch reconcile complete",
		"reconciled", st.Reconciled,
		"failed", st.Failed,
		"out", *out)
	if st.Failed > 0 {
		os.Exit(1)
	}
}

// runWatch feeds complete pairs to enqueue until ctx is done.
func runWatch(ctx context.Context, dir string, enqueue func(ingest.Pair), logger *slog.Logger) {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "dir", dir, "error", err)
		return
	}
	logger.Info("watching for pairs", "dir", dir)

	pairs := ingest.NewPairs()
	for {
		select {
		case path, ok := <-paths:
			if !ok {
				return
			}
			if p, complete := pairs.Add(path); complete {
				enqueue(p)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}

func writeOutputs(exporter *export.Service, dir, name string, rep pipeline.Report) error {
	body, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	xlsx, err := exporter.ReportXLSX(rep, name)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".xlsx"), xlsx, 0o644); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
