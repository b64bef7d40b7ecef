package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ErrNotPDF is returned for inputs that are not PDF documents.
var ErrNotPDF = errors.New("file is not a PDF")

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	// Fallback runs pdftotext when the embedded text layer is missing or unreadable.
	Fallback bool
	Timeout  time.Duration
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "text-layer" | "pdftotext"
	Duration time.Duration
	Warnings []string
}

// Empty reports whether no text could be read.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

type Extractor struct {
	cfg       Config
	runner    Runner
	reader    PageReader
	inspector Inspector
	logger    *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{
		cfg:       cfg,
		runner:    execRunner{logger: logger},
		reader:    textLayer{},
		inspector: pdfcpuInspector{},
		logger:    logger,
	}
}

// Extract reads the text of the PDF at path. Pages are separated by form feeds.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	if err := sniff(path); err != nil {
		e.logger.Warn("pdftext.not_pdf", "path", path, "error", err)
		return Result{}, err
	}

	var res Result
	pages, err := e.inspector.PageCount(path)
	if err != nil {
		res.Warnings = append(res.Warnings, "pdf structure: "+err.Error())
	}
	res.Pages = pages

	layer, err := e.reader.Pages(ctx, path)
	switch {
	case err != nil:
		res.Warnings = append(res.Warnings, "text layer: "+err.Error())
	default:
		res.Text = strings.Join(layer, "\f")
		res.Method = "text-layer"
		if res.Pages == 0 {
			res.Pages = len(layer)
		}
	}

	if res.Empty() && e.cfg.Fallback {
		text, n, warns, ferr := e.pdfToText(ctx, path)
		res.Warnings = append(res.Warnings, warns...)
		if ferr != nil {
			res.Duration = time.Since(start)
			e.logger.Error("pdftext.extract.failed", "path", path, "error", ferr, "warnings", res.Warnings)
			if err != nil {
				return res, fmt.Errorf("read pdf text: %w", errors.Join(err, ferr))
			}
			return res, fmt.Errorf("pdftotext: %w", ferr)
		}
		res.Text, res.Method = text, "pdftotext"
		if res.Pages == 0 {
			res.Pages = n
		}
	} else if err != nil {
		res.Duration = time.Since(start)
		return res, fmt.Errorf("read pdf text: %w", err)
	}

	res.Duration = time.Since(start)
	e.logger.Info("pdftext.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"empty", res.Empty(),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{strings.TrimSpace(string(errb))}, err
	}
	text = strings.TrimSuffix(string(out), "\f")
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

// sniff checks the PDF signature in the first KiB of the file.
func sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read header: %w", err)
	}
	if !bytes.Contains(head[:n], []byte("%PDF-")) {
		return ErrNotPDF
	}
	return nil
}
