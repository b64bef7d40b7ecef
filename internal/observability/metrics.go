package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condo_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"route"},
	)
	OracleCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_oracle_calls_total",
			Help: "Oracle calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	OracleParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "condo_oracle_parse_failures_total",
			Help: "Oracle chunks whose reply could not be parsed",
		},
	)
	ContactsExtractedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "condo_contacts_extracted_total",
			Help: "Owner records aggregated from contact documents",
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			OracleCallsTotal,
			OracleParseFailuresTotal,
			ContactsExtractedTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
