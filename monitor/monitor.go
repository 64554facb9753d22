// Package monitor exposes Prometheus metrics for hedge runs.
package monitor

import (
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor owns a private registry so several can coexist in one process
// (tests, one per server).
type Monitor struct {
	registry *prometheus.Registry

	steps        prometheus.Counter
	hedgeTrades  prometheus.Counter
	hedgedShares prometheus.Counter
	runs         *prometheus.CounterVec

	assetPrice     prometheus.Gauge
	portfolioPV    prometheus.Gauge
	portfolioDelta prometheus.Gauge
	preHedgeDelta  prometheus.Gauge

	stepDuration prometheus.Histogram
}

type Config struct {
	Namespace string `yaml:"namespace" json:"namespace"`
	Subsystem string `yaml:"subsystem" json:"subsystem"`
}

func DefaultConfig() Config {
	return Config{
		Namespace: "hedger",
		Subsystem: "sim",
	}
}

func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,

		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "steps_total",
			Help:      "Simulation steps processed.",
		}),
		hedgeTrades: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "hedge_trades_total",
			Help:      "Trades appended by delta hedging.",
		}),
		hedgedShares: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "hedged_shares_total",
			Help:      "Absolute number of shares traded by hedges.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "runs_total",
			Help:      "Finished simulation runs by outcome.",
		}, []string{"outcome"}),

		assetPrice: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "asset_price",
			Help:      "Underlying price at the last step.",
		}),
		portfolioPV: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "portfolio_pv",
			Help:      "Portfolio value after the last hedge.",
		}),
		portfolioDelta: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "portfolio_delta",
			Help:      "Portfolio delta after the last hedge.",
		}),
		preHedgeDelta: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "pre_hedge_delta",
			Help:      "Portfolio delta before the last hedge.",
		}),

		stepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "step_duration_seconds",
			Help:      "Wall time spent hedging and valuing one step.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
}

// Step is the subset of a result row the monitor records.
type Step struct {
	AssetPrice       float64
	PreHedgeDelta    float64
	PortfolioPV      float64
	PortfolioDelta   float64
	HedgeStockAmount float64
}

func (m *Monitor) ObserveStep(s Step, took time.Duration) {
	m.steps.Inc()
	m.hedgeTrades.Add(2)
	m.hedgedShares.Add(math.Abs(s.HedgeStockAmount))
	m.assetPrice.Set(s.AssetPrice)
	m.portfolioPV.Set(s.PortfolioPV)
	m.portfolioDelta.Set(s.PortfolioDelta)
	m.preHedgeDelta.Set(s.PreHedgeDelta)
	m.stepDuration.Observe(took.Seconds())
}

// ObserveRun counts a finished run as "ok" or "error".
func (m *Monitor) ObserveRun(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
