// Package metrics exposes forecast run outcomes to Prometheus.
package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pv-forecast/internal/forecast"
)

const (
	metricPrefix = "pvforecast_"

	resultSuccess = "success"
	resultError   = "error"

	StageReference  = "reference"
	StageUnadjusted = "unadjusted"
	StageAdjusted   = "adjusted"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	runLatency  *prometheus.HistogramVec
	rmse        *prometheus.GaugeVec
	mape        *prometheus.GaugeVec
	ratio       *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
}

// New registers the forecast collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total forecast runs by result",
			},
			[]string{"result"},
		),
		runLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_latency_seconds",
				Help:    "Forecast run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		rmse: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "rmse",
				Help: "RMSE of the latest run by comparison stage",
			},
			[]string{"stage"},
		),
		mape: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "mape",
				Help: "MAPE (fraction) of the latest run by comparison stage",
			},
			[]string{"stage"},
		),
		ratio: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "correction_ratio",
				Help: "Current-year to representative irradiance ratio of the latest run",
			},
			[]string{"month"},
		),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
	m.registry.MustRegister(m.runs, m.runLatency, m.rmse, m.mape, m.ratio, m.lastSuccess)
	return m
}

// Registry is the gatherer to serve on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record stores the outcome of a successful run.
func (m *Metrics) Record(res *forecast.Result) {
	if m == nil || res == nil {
		return
	}
	m.runs.WithLabelValues(resultSuccess).Inc()
	m.runLatency.WithLabelValues(resultSuccess).Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	m.lastSuccess.Set(float64(res.FinishedAt.Unix()))

	if res.Reference != nil {
		m.set(StageReference, res.Reference.RMSE, res.Reference.MAPE)
	}
	if a := res.Adjustment; a != nil {
		m.set(StageUnadjusted, a.Unadjusted.RMSE, a.Unadjusted.MAPE)
		m.set(StageAdjusted, a.Corrected.RMSE, a.Corrected.MAPE)
		m.ratio.Reset()
		for _, r := range a.Ratios {
			if finite(r.Ratio) {
				m.ratio.WithLabelValues(r.Month.String()).Set(r.Ratio)
			}
		}
	}
}

// RecordFailure counts a failed run that took d.
func (m *Metrics) RecordFailure(d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(resultError).Inc()
	m.runLatency.WithLabelValues(resultError).Observe(d.Seconds())
}

func (m *Metrics) set(stage string, rmse, mape float64) {
	if finite(rmse) {
		m.rmse.WithLabelValues(stage).Set(rmse)
	} else {
		m.rmse.DeleteLabelValues(stage)
	}
	if finite(mape) {
		m.mape.WithLabelValues(stage).Set(mape)
	} else {
		m.mape.DeleteLabelValues(stage)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
