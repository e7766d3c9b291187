// Package metrics holds the Prometheus collectors exported by the trading engine
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gemtrader"

// Metrics is the set of engine collectors
type Metrics struct {
	registry *prometheus.Registry

	// TradesTotal counts trades by side and outcome (ok or the error kind)
	TradesTotal *prometheus.CounterVec
	// TradeDuration observes time spent executing a trade, lock wait included
	TradeDuration prometheus.Histogram
	// GemsAwardedTotal counts reward gems credited to users
	GemsAwardedTotal prometheus.Counter
	// RankRecomputeDuration observes leaderboard recomputation passes
	RankRecomputeDuration prometheus.Histogram
	// RankedUsers is the number of users in the latest leaderboard snapshot
	RankedUsers prometheus.Gauge
	// PriceDriftRunsTotal counts price drift passes by outcome
	PriceDriftRunsTotal *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Trades submitted, by side and result",
		}, []string{"side", "result"}),
		TradeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trade_duration_seconds",
			Help:      "Trade execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		GemsAwardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gems_awarded_total",
			Help:      "Reward gems credited for trades",
		}),
		RankRecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_recompute_duration_seconds",
			Help:      "Leaderboard recomputation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		RankedUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ranked_users",
			Help:      "Users in the latest leaderboard snapshot",
		}),
		PriceDriftRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_drift_runs_total",
			Help:      "Price drift passes, by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.TradesTotal,
		m.TradeDuration,
		m.GemsAwardedTotal,
		m.RankRecomputeDuration,
		m.RankedUsers,
		m.PriceDriftRunsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
