package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/condo-contacts/internal/fields"
)

// CollectOptions controls chunking and fan-out of one document.
type CollectOptions struct {
	ChunkChars  int
	Concurrency int
	// Fields styles phones and names the way the document's layout does.
	Fields fields.Options
	Logger *slog.Logger
}

// Collection is the best-effort result of asking the oracle about every chunk.
type Collection struct {
	Records []fields.PartialRecord
	Errors  []ChunkError
	Chunks  int
}

type chunkResult struct {
	records []fields.PartialRecord
	err     *ChunkError
}

// Collect splits text into chunks, asks the oracle about each one concurrently and
// accumulates the parsed records in chunk order. A failing chunk contributes no records
// and is reported in Collection.Errors. ErrNoChunkSucceeded is returned only when every
// chunk failed. Nothing is retried.
func Collect(ctx context.Context, o Oracle, text string, p Profile, opts CollectOptions) (Collection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunks := SplitChunks(text, opts.ChunkChars)
	col := Collection{Records: []fields.PartialRecord{}, Chunks: len(chunks)}
	if len(chunks) == 0 {
		return col, nil
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]chunkResult, len(chunks))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, chunk := range chunks {
		g.Go(func() error {
			results[i] = askChunk(ctx, o, Request{Text: chunk, Profile: p, Part: i, Parts: len(chunks)}, opts.Fields, logger)
			return nil
		})
	}
	_ = g.Wait()

	var firstErr error
	for _, r := range results {
		if r.err != nil {
			col.Errors = append(col.Errors, *r.err)
			if firstErr == nil {
				firstErr = r.err.Err
			}
			continue
		}
		col.Records = append(col.Records, r.records...)
	}

	if len(col.Errors) == len(chunks) {
		return col, fmt.Errorf("%w: %w", ErrNoChunkSucceeded, firstErr)
	}
	return col, nil
}

func askChunk(ctx context.Context, o Oracle, req Request, fieldOpts fields.Options, logger *slog.Logger) chunkResult {
	rid := uuid.New().String()
	start := time.Now()

	logger.Info("oracle.ask.start",
		"req_id", rid,
		"profile", req.Profile.Name,
		"chunk", req.Part,
		"chunks", req.Parts,
		"text_len", len(req.Text),
	)

	raw, err := o.Ask(ctx, req)
	if err != nil {
		logger.Error("oracle.ask.http_error",
			"req_id", rid, "chunk", req.Part, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return chunkResult{err: &ChunkError{Index: req.Part, Err: err}}
	}

	records, err := ParseOutput(raw, fieldOpts)
	if err != nil {
		var pe *ParseError
		preview := Preview(raw)
		if errors.As(err, &pe) {
			preview = pe.Preview
		}
		logger.Warn("oracle.ask.parse_error",
			"req_id", rid, "chunk", req.Part, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return chunkResult{err: &ChunkError{Index: req.Part, Err: err, Preview: preview}}
	}

	logger.Info("oracle.ask.ok",
		"req_id", rid,
		"chunk", req.Part,
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return chunkResult{records: records}
}
