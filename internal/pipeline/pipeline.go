package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/condo-contacts/constants"
	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/dialect"
	"github.com/joseph-ayodele/condo-contacts/internal/fields"
	"github.com/joseph-ayodele/condo-contacts/internal/observability"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/roster"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Config holds oracle fan-out defaults.
type Config struct {
	ChunkChars  int // default 12000
	Concurrency int // default 4
}

// Options are the per-request knobs.
type Options struct {
	Vendor constants.Vendor
	// Dialect forces a layout by name and skips detection.
	Dialect string
	Mode    Mode
	// Hint overrides the dialect's reading of bare numbers (registry unit type).
	Hint       unitkey.Hint
	Filter     unitkey.Filter
	Formatting unitkey.FormattingOptions
	ChunkChars int
}

// ContactsResult is the aggregated roster of one contacts document.
type ContactsResult struct {
	Layout string
	Method Mode
	Roster *roster.Roster
	Errors []oracle.ChunkError
}

type Pipeline struct {
	oracle oracle.Oracle
	text   TextExtractor
	logger *slog.Logger
	cfg    Config
}

// NewPipeline builds a pipeline. o may be nil, in which case only the deterministic
// path is available. text may be nil when callers only pass text.
func NewPipeline(o oracle.Oracle, text TextExtractor, logger *slog.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkChars <= 0 {
		cfg.ChunkChars = 12000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Pipeline{oracle: o, text: text, logger: logger, cfg: cfg}
}

// OracleEnabled reports whether an oracle is configured.
func (p *Pipeline) OracleEnabled() bool { return p.oracle != nil }

// Dialect resolves the layout of text: a forced name first, then detection
// restricted to the requested vendor.
func (p *Pipeline) Dialect(text string, opts Options) (dialect.Dialect, error) {
	if name := strings.ToUpper(strings.TrimSpace(opts.Dialect)); name != "" {
		d, ok := dialect.Lookup(name)
		if !ok {
			return dialect.Dialect{}, common.NewAppError("UNKNOWN_LAYOUT", fmt.Sprintf("unknown layout %q", opts.Dialect), common.ErrInvalidInput)
		}
		return d, nil
	}
	vendor := opts.Vendor
	if vendor == "" {
		vendor = constants.AutoVendor
	}
	return dialect.DetectVendor(text, vendor), nil
}

// Contacts reads the owner records of a contacts document and aggregates them by unit.
// Blank text yields an empty roster.
func (p *Pipeline) Contacts(ctx context.Context, text string, opts Options) (ContactsResult, error) {
	d, err := p.Dialect(text, opts)
	if err != nil {
		return ContactsResult{}, err
	}
	return p.contacts(ctx, d, text, opts)
}

func (p *Pipeline) contacts(ctx context.Context, d dialect.Dialect, text string, opts Options) (ContactsResult, error) {
	rid := requestID(ctx)
	start := time.Now()
	hint := hintFor(d, opts)
	res := ContactsResult{Layout: d.Name, Method: ModeDeterministic}

	if strings.TrimSpace(text) == "" {
		p.logger.Warn("pipeline.contacts.empty_text", "req_id", rid, "layout", d.Name)
		res.Roster = roster.New(hint)
		return res, nil
	}

	var records []fields.PartialRecord
	if opts.Mode != ModeOracle {
		records = d.OwnerRecords(text)
	}
	if p.wantOracle(opts.Mode, len(records)) {
		col, err := p.collect(ctx, text, oracle.ProfileFor(profileName(d)), d.FieldOptions(), opts)
		res.Errors = col.Errors
		if err != nil {
			return res, err
		}
		records = col.Records
		res.Method = ModeOracle
	}

	res.Roster = roster.Aggregate(records, hint)
	observability.ContactsExtractedTotal.Add(float64(res.Roster.Len()))

	p.logger.Info("pipeline.contacts.ok",
		"req_id", rid,
		"layout", d.Name,
		"method", res.Method,
		"records", len(records),
		"units", res.Roster.Len(),
		"chunk_errors", len(res.Errors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Delinquent reads the delinquent units of a delinquency document. It returns the set and
// the layout name. Blank text is an extraction failure.
func (p *Pipeline) Delinquent(ctx context.Context, text string, opts Options) (*roster.DelinquentSet, string, error) {
	d, err := p.Dialect(text, opts)
	if err != nil {
		return nil, "", err
	}
	set, _, err := p.delinquent(ctx, d, text, opts)
	return set, d.Name, err
}

func (p *Pipeline) delinquent(ctx context.Context, d dialect.Dialect, text string, opts Options) (*roster.DelinquentSet, []oracle.ChunkError, error) {
	rid := requestID(ctx)
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		p.logger.Warn("pipeline.delinquent.empty_text", "req_id", rid, "layout", d.Name)
		return nil, nil, common.NewAppError("EMPTY_DELINQUENCY", "no text could be read from the delinquency document", common.ErrExtraction)
	}

	var (
		units  []string
		errs   []oracle.ChunkError
		method = ModeDeterministic
	)
	if opts.Mode != ModeOracle {
		units = d.DelinquentUnits(text)
	}
	if p.wantOracle(opts.Mode, len(units)) {
		col, err := p.collect(ctx, text, oracle.ProfileFor("inadimplentes"), d.FieldOptions(), opts)
		errs = col.Errors
		if err != nil {
			return nil, errs, err
		}
		for _, r := range col.Records {
			units = append(units, r.RawUnit)
		}
		method = ModeOracle
	}

	set := roster.NewDelinquentSet(units, hintFor(d, opts))
	p.logger.Info("pipeline.delinquent.ok",
		"req_id", rid,
		"layout", d.Name,
		"method", method,
		"tokens", len(units),
		"units", set.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return set, errs, nil
}

func (p *Pipeline) wantOracle(mode Mode, found int) bool {
	switch mode {
	case ModeOracle:
		return true
	case ModeAuto:
		return found == 0 && p.oracle != nil
	}
	return false
}

func (p *Pipeline) collect(ctx context.Context, text string, prof oracle.Profile, fieldOpts fields.Options, opts Options) (oracle.Collection, error) {
	if p.oracle == nil {
		return oracle.Collection{}, common.NewAppError("ORACLE_DISABLED", "no oracle provider is configured", common.ErrInvalidInput)
	}
	chunkChars := opts.ChunkChars
	if chunkChars <= 0 {
		chunkChars = p.cfg.ChunkChars
	}
	col, err := oracle.Collect(ctx, p.oracle, text, prof, oracle.CollectOptions{
		ChunkChars:  chunkChars,
		Concurrency: p.cfg.Concurrency,
		Fields:      fieldOpts,
		Logger:      p.logger,
	})
	for _, ce := range col.Errors {
		var pe *oracle.ParseError
		if errors.As(ce.Err, &pe) {
			observability.OracleParseFailuresTotal.Inc()
		}
	}
	if err != nil {
		return col, common.NewAppError("ORACLE_FAILED", "no part of the document could be read by the oracle", fmt.Errorf("%w: %w", common.ErrOracle, err))
	}
	return col, nil
}

// profileName maps a dialect onto its oracle instruction profile.
func profileName(d dialect.Dialect) string {
	switch d.Profile {
	case "condomob", "brcondominios":
		return d.Profile
	}
	return "contatos"
}

func hintFor(d dialect.Dialect, opts Options) unitkey.Hint {
	if opts.Hint != unitkey.HintNone {
		return opts.Hint
	}
	return d.Hint
}

func requestID(ctx context.Context) string {
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		return rid
	}
	return uuid.New().String()
}
