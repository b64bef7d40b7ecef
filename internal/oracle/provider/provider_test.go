package provider

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/observability"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
)

type stubOracle struct {
	reply string
	err   error
}

func (s stubOracle) Ask(context.Context, oracle.Request) (string, error) { return s.reply, s.err }

var quiet = slog.New(slog.DiscardHandler)

func TestNew(t *testing.T) {
	_, err := New(context.Background(), common.OracleConfig{}, quiet)
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(context.Background(), common.OracleConfig{Provider: "mistral"}, quiet)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	for _, p := range []string{"openai", "anthropic"} {
		o, err := New(context.Background(), common.OracleConfig{Provider: p, OpenAIAPIKey: "k", AnthropicAPIKey: "k"}, quiet)
		require.NoError(t, err, p)
		assert.NotNil(t, o)
	}
}

func TestInstrument(t *testing.T) {
	ok := Instrument("stub-ok", stubOracle{reply: "[]"})
	raw, err := ok.Ask(context.Background(), oracle.Request{})
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	bad := Instrument("stub-bad", stubOracle{err: errors.New("boom")})
	_, err = bad.Ask(context.Background(), oracle.Request{})
	require.Error(t, err)

	slow := Instrument("stub-slow", stubOracle{err: context.DeadlineExceeded})
	_, _ = slow.Ask(context.Background(), oracle.Request{})

	assert.Equal(t, float64(1), testutil.ToFloat64(observability.OracleCallsTotal.WithLabelValues("stub-ok", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(observability.OracleCallsTotal.WithLabelValues("stub-bad", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(observability.OracleCallsTotal.WithLabelValues("stub-slow", "timeout")))
}
