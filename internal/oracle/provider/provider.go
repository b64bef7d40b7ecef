package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/observability"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle/anthropic"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle/gemini"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle/openai"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("oracle provider not configured")

// New builds the oracle selected by cfg.Provider, wrapped with call metrics.
func New(ctx context.Context, cfg common.OracleConfig, logger *slog.Logger) (oracle.Oracle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	var o oracle.Oracle
	switch cfg.Provider {
	case "openai":
		o = openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
	case "anthropic":
		o = anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
	case "gemini":
		g, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		o = g
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown oracle provider %q", cfg.Provider), common.ErrInvalidInput)
	}

	logger.Info("oracle.provider.ready", "provider", cfg.Provider, "model", cfg.Model)
	return Instrument(cfg.Provider, o), nil
}

// Instrument counts calls of o by outcome.
func Instrument(name string, o oracle.Oracle) oracle.Oracle {
	observability.Register()
	return &instrumented{name: name, next: o}
}

type instrumented struct {
	name string
	next oracle.Oracle
}

func (i *instrumented) Ask(ctx context.Context, req oracle.Request) (string, error) {
	raw, err := i.next.Ask(ctx, req)
	outcome := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	observability.OracleCallsTotal.WithLabelValues(i.name, outcome).Inc()
	return raw, err
}
