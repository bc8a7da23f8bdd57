// Package metrics exports value-iteration progress as Prometheus metrics.
//
// A Recorder is a valueiter.Observer; plug it into valueiter.Options and
// serve the registry it was created with (for example via promhttp).
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lockdown/valueiter"
)

const (
	namespace = "lockdown"
	subsystem = "valueiter"
)

// Recorder holds the solver collectors.
type Recorder struct {
	sweeps      prometheus.Counter
	supNorm     prometheus.Gauge
	duration    prometheus.Histogram
	cells       *prometheus.GaugeVec
	evaluations prometheus.Counter
	stops       *prometheus.CounterVec
	converged   prometheus.Gauge
	iterations  prometheus.Gauge
}

var _ valueiter.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "sweeps_total",
			Help: "Completed Bellman sweeps.",
		}),
		supNorm: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "sup_norm",
			Help: "Sup-norm change of the value function in the last sweep.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "sweep_duration_seconds",
			Help:    "Wall time of one Bellman sweep.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		cells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cells",
			Help: "Grid cells per classification in the last sweep.",
		}, []string{"kind"}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "objective_evaluations_total",
			Help: "Bellman objective evaluations over all sweeps.",
		}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "minimizer_stops_total",
			Help: "Per-cell minimizer stop reasons.",
		}, []string{"status"}),
		converged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "converged",
			Help: "1 when the last run met its tolerance, 0 when it exhausted its budget.",
		}),
		iterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "iterations",
			Help: "Sweeps made by the last finished run.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.sweeps, r.supNorm, r.duration, r.cells, r.evaluations, r.stops, r.converged, r.iterations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	return r, nil
}

// OnSweep implements valueiter.Observer.
func (r *Recorder) OnSweep(rep valueiter.SweepReport) {
	r.sweeps.Inc()
	r.supNorm.Set(rep.SupNorm)
	r.duration.Observe(rep.Duration.Seconds())
	for _, k := range []valueiter.CellKind{valueiter.Interior, valueiter.PostHerd, valueiter.Exterior} {
		r.cells.WithLabelValues(k.String()).Set(float64(rep.Cells[k]))
	}
	r.evaluations.Add(float64(rep.Evaluations))
	for status, n := range rep.Statuses {
		r.stops.WithLabelValues(status.String()).Add(float64(n))
	}
}

// OnResult records the outcome of a finished run.
func (r *Recorder) OnResult(res *valueiter.Result) {
	if res.Converged() {
		r.converged.Set(1)
	} else {
		r.converged.Set(0)
	}
	r.iterations.Set(float64(res.Iterations))
}
