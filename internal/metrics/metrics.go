// Package metrics exposes pricing counters and latencies to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nulln0ne/amm-estimator/pkg/amm"
)

const namespace = "amm_estimator"

// Metrics records quote outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	quotes        *prometheus.CounterVec
	quoteDuration *prometheus.HistogramVec
	pairReads     *prometheus.CounterVec
}

// New creates the collectors and registers them with r.
func New(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "number of priced swaps by model and outcome",
		}, []string{"model", "outcome"}),
		quoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_seconds",
			Help:      "time spent pricing a swap",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"model"}),
		pairReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pair_reads_total",
			Help:      "number of on-chain pair reads by outcome",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{m.quotes, m.quoteDuration, m.pairReads} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveQuote counts one quote and its latency.
func (m *Metrics) ObserveQuote(model amm.Model, err error, d time.Duration) {
	if m == nil {
		return
	}
	label := string(model)
	if !amm.Registered(model) {
		label = "unknown"
	}
	m.quotes.WithLabelValues(label, Outcome(err)).Inc()
	m.quoteDuration.WithLabelValues(label).Observe(d.Seconds())
}

// ObservePairRead counts one on-chain pair read.
func (m *Metrics) ObservePairRead(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.pairReads.WithLabelValues(outcome).Inc()
}

var outcomes = []struct {
	err   error
	label string
}{
	// ErrMathOverflow first: it is the outer kind when wrapped together.
	{amm.ErrMathOverflow, "math_overflow"},
	{amm.ErrInsufficientLiquidity, "insufficient_liquidity"},
	{amm.ErrConvergenceFailed, "convergence_failed"},
	{amm.ErrInvalidIndex, "invalid_index"},
	{amm.ErrZeroAmount, "zero_amount"},
	{amm.ErrPoolSizeTooSmall, "pool_size_too_small"},
	{amm.ErrUnknownModel, "unknown_model"},
}

// Outcome maps a pricing error to a bounded label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}
