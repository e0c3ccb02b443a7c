package docset

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type storeMetrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newStoreMetrics builds the collectors labelled with the table and
// registers them on reg when it is not nil. Stores reopened on the same
// registry share the collectors registered first.
func newStoreMetrics(reg prometheus.Registerer, table string) (*storeMetrics, error) {
	labels := prometheus.Labels{"table": table}
	m := &storeMetrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "docset_store_operations_total",
				Help:        "Total number of document store operations by result.",
				ConstLabels: labels,
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "docset_store_operation_duration_seconds",
				Help:        "Duration of document store operations.",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"op"},
		),
	}
	if reg == nil {
		return m, nil
	}

	if err := register(reg, m.ops, func(existing prometheus.Collector) bool {
		c, ok := existing.(*prometheus.CounterVec)
		if ok {
			m.ops = c
		}
		return ok
	}); err != nil {
		return nil, err
	}
	if err := register(reg, m.duration, func(existing prometheus.Collector) bool {
		h, ok := existing.(*prometheus.HistogramVec)
		if ok {
			m.duration = h
		}
		return ok
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When an equal collector is already registered,
// reuse is called with it and reports whether it could be adopted.
func register(reg prometheus.Registerer, c prometheus.Collector, reuse func(prometheus.Collector) bool) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) && reuse(are.ExistingCollector) {
		return nil
	}
	return fmt.Errorf("register store metrics: %w", err)
}

func (m *storeMetrics) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case IsKind(err, ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
