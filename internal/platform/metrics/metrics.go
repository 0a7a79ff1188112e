package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TokensIssued    prometheus.Counter
	GateDecisions   *prometheus.CounterVec
	ConsentsWritten prometheus.Counter
	TokenLookups    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardiangate_tokens_issued_total",
			Help: "Total number of consent tokens minted",
		}),
		GateDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardiangate_gate_decisions_total",
			Help: "Registration gate decisions by outcome",
		}, []string{"outcome"}),
		ConsentsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardiangate_consent_records_total",
			Help: "Total number of consent records attached to accounts",
		}),
		TokenLookups: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guardiangate_token_lookup_seconds",
			Help:    "Latency of consent token store lookups",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveTokenLookup records the duration of one token store lookup.
func (m *Metrics) ObserveTokenLookup(d time.Duration) {
	if m == nil {
		return
	}
	m.TokenLookups.Observe(d.Seconds())
}

// ObserveDecision records a gate outcome: allowed_adult, allowed_token,
// allowed_indeterminate, or blocked.
func (m *Metrics) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(outcome).Inc()
}

// IncrementTokensIssued increments the minted-token counter by 1.
func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.TokensIssued.Inc()
}

// IncrementConsentsWritten increments the consent-record counter by 1.
func (m *Metrics) IncrementConsentsWritten() {
	if m == nil {
		return
	}
	m.ConsentsWritten.Inc()
}
