package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Register()
	Register()

	RequestsTotal.WithLabelValues("POST /cobrancas/{vendor}", "200").Inc()
	OracleCallsTotal.WithLabelValues("openai", "ok").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(OracleCallsTotal.WithLabelValues("openai", "ok")))

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "condo_requests_total")
	assert.Contains(t, string(body), "condo_oracle_calls_total")
}
