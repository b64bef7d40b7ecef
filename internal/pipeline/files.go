package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/pdftext"
)

// TextExtractor reads the text of a PDF on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (pdftext.Result, error)
}

// ReadText extracts the text of one document. A file that is not a PDF is invalid input;
// any other read failure is an extraction failure.
func (p *Pipeline) ReadText(ctx context.Context, path, label string) (string, error) {
	if p.text == nil {
		return "", common.NewAppError("NO_EXTRACTOR", "no text extractor is configured", common.ErrInternal)
	}
	res, err := p.text.Extract(ctx, path)
	if err != nil {
		if errors.Is(err, pdftext.ErrNotPDF) {
			return "", common.NewAppError("NOT_PDF", fmt.Sprintf("%s: file is not a PDF", label), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		return "", common.NewAppError("EXTRACTION_FAILED", fmt.Sprintf("%s: could not read PDF text", label), fmt.Errorf("%w: %w", common.ErrExtraction, err))
	}
	p.logger.Debug("pipeline.text.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"document", label,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
	)
	return res.Text, nil
}

// ReconcileFiles reads both PDFs concurrently and reconciles them.
func (p *Pipeline) ReconcileFiles(ctx context.Context, contactsPath, delinquentPath string, opts Options) (Report, error) {
	var contactsText, delinquentText string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contactsText, err = p.ReadText(gctx, contactsPath, "contatos")
		return err
	})
	g.Go(func() error {
		var err error
		delinquentText, err = p.ReadText(gctx, delinquentPath, "inadimplentes")
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return p.Reconcile(ctx, contactsText, delinquentText, opts)
}
