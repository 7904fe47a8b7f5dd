// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvalMetrics counts program evaluations.
type EvalMetrics struct {
	evaluations *prometheus.CounterVec
	steps       prometheus.Counter
	duration    prometheus.Histogram
	storeErrors prometheus.Counter
}

// MakeEvalMetrics registers the evaluation collectors with reg. Calling it
// twice on one registry returns metrics backed by the same series.
func MakeEvalMetrics(reg *Registry) (*EvalMetrics, error) {
	evaluations, err := reg.register(EvaluationsTotal.Name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: sanitizePrometheusName(EvaluationsTotal.Name),
		Help: EvaluationsTotal.Description,
	}, []string{"verdict"}))
	if err != nil {
		return nil, err
	}
	steps, err := reg.register(EvalStepsTotal.Name, prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizePrometheusName(EvalStepsTotal.Name),
		Help: EvalStepsTotal.Description,
	}))
	if err != nil {
		return nil, err
	}
	duration, err := reg.register(EvalDurationSeconds.Name, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    sanitizePrometheusName(EvalDurationSeconds.Name),
		Help:    EvalDurationSeconds.Description,
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}))
	if err != nil {
		return nil, err
	}
	storeErrors, err := reg.register(StoreErrorsTotal.Name, prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizePrometheusName(StoreErrorsTotal.Name),
		Help: StoreErrorsTotal.Description,
	}))
	if err != nil {
		return nil, err
	}
	return &EvalMetrics{
		evaluations: evaluations.(*prometheus.CounterVec),
		steps:       steps.(prometheus.Counter),
		duration:    duration.(prometheus.Histogram),
		storeErrors: storeErrors.(prometheus.Counter),
	}, nil
}

// Observe records one finished evaluation. A nil receiver does nothing.
func (m *EvalMetrics) Observe(verdict string, steps int, d time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(verdict).Inc()
	m.steps.Add(float64(steps))
	m.duration.Observe(d.Seconds())
}

// StoreError records a failed state store operation. A nil receiver does nothing.
func (m *EvalMetrics) StoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}
