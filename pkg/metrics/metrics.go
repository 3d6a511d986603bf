// Package metrics provides Prometheus instrumentation for simplification
// runs.
//
// # Basic Usage
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector("jsonlite", reg)
//	s := simplify.New(simplify.WithObserver(collector))
//	s.Simplify(rows)
//	_ = collector.WriteText(os.Stderr)
//
// Collectors are safe for concurrent use.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/halhen/jsonlite/pkg/models"
)

// Collector records simplification statistics. It implements
// simplify.Observer.
type Collector struct {
	gatherer       prometheus.Gatherer
	runs           *prometheus.CounterVec   // runs by result
	rows           prometheus.Counter       // rows of feasible runs
	columns        prometheus.Histogram     // columns per feasible run
	coercionMisses *prometheus.CounterVec   // supplied values stored as NA
	duration       *prometheus.HistogramVec // run latency by result
}

// NewCollector creates a collector whose metrics are prefixed with
// namespace and registered on reg. A nil reg uses a private registry.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		gatherer: reg,
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simplify_total",
				Help:      "Simplification runs by result (feasible, infeasible)",
			},
			[]string{"result"},
		),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_simplified_total",
			Help:      "Rows converted into columnar tables",
		}),
		columns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "columns_inferred",
			Help:      "Columns per simplified table",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		coercionMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cells_coerced_na_total",
				Help:      "Supplied values that could not be converted and were stored as NA",
			},
			[]string{"type"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "simplify_duration_seconds",
				Help:      "Time spent inferring and materializing one table",
				Buckets: []float64{
					1e-6, // trivial inputs
					1e-5,
					1e-4,
					1e-3,
					1e-2,
					1e-1,
					1,
					10, // very large documents
				},
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(c.runs, c.rows, c.columns, c.coercionMisses, c.duration)
	return c
}

func result(feasible bool) string {
	if feasible {
		return "feasible"
	}
	return "infeasible"
}

// ObserveRun records one simplification.
func (c *Collector) ObserveRun(feasible bool, rows, columns int, elapsed time.Duration) {
	label := result(feasible)
	c.runs.WithLabelValues(label).Inc()
	c.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	if feasible {
		c.rows.Add(float64(rows))
		c.columns.Observe(float64(columns))
	}
}

// ObserveCoercionNA records a value that could not be converted.
func (c *Collector) ObserveCoercionNA(target models.Kind) {
	c.coercionMisses.WithLabelValues(target.String()).Inc()
}

// WriteText writes all gathered metrics in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
