// Package middleware provides cross-cutting concerns for the
// aggregation core: metrics and tracing wrappers around the result
// store.
package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/assessly/appraise/internal/domain"
	"github.com/assessly/appraise/internal/ports"
)

var _ ports.ResultStore = (*MeasuredResultStore)(nil)

// StoreMetrics holds the Prometheus instruments for result store
// observability: cache effectiveness of the lookup-or-compute path,
// persist volume, conflict rate, and operation latency.
type StoreMetrics struct {
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	persistedResults *prometheus.CounterVec
	persistConflicts prometheus.Counter
	opLatency        *prometheus.HistogramVec
}

// NewStoreMetrics registers the result store metrics with the given
// registerer. A nil registerer falls back to the default registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &StoreMetrics{
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "assessment_result_cache_hits_total",
			Help: "Lookups that found a previously persisted assessment result.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "assessment_result_cache_misses_total",
			Help: "Lookups that found no persisted assessment result.",
		}),
		persistedResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_results_persisted_total",
			Help: "Assessment results written to the store.",
		}, []string{"mode"}),
		persistConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "assessment_result_persist_conflicts_total",
			Help: "Duplicate-key writes absorbed by the first-computation race.",
		}),
		opLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessment_result_store_op_duration_seconds",
			Help:    "Latency of result store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// MeasuredResultStore wraps a ResultStore with Prometheus metrics. It is
// transparent to callers: every error, including the sentinel not-found
// and duplicate errors the service branches on, passes through
// unchanged.
type MeasuredResultStore struct {
	next    ports.ResultStore
	metrics *StoreMetrics
}

// NewMeasuredResultStore wraps next with the given metrics.
func NewMeasuredResultStore(next ports.ResultStore, metrics *StoreMetrics) *MeasuredResultStore {
	return &MeasuredResultStore{next: next, metrics: metrics}
}

// ByAssessmentID delegates to the wrapped store, counting hits and
// misses of the result cache.
func (m *MeasuredResultStore) ByAssessmentID(ctx context.Context, assessmentID uuid.UUID) (*domain.AssessmentResult, error) {
	defer m.observe("by_assessment_id")()
	result, err := m.next.ByAssessmentID(ctx, assessmentID)
	switch {
	case err == nil:
		m.metrics.cacheHits.Inc()
	case errors.Is(err, ports.ErrResultNotFound):
		m.metrics.cacheMisses.Inc()
	}
	return result, err
}

// ByAssessmentIDs delegates to the wrapped store.
func (m *MeasuredResultStore) ByAssessmentIDs(ctx context.Context, assessmentIDs []uuid.UUID) ([]*domain.AssessmentResult, error) {
	defer m.observe("by_assessment_ids")()
	return m.next.ByAssessmentIDs(ctx, assessmentIDs)
}

// Create delegates to the wrapped store, counting persisted results and
// duplicate-key conflicts.
func (m *MeasuredResultStore) Create(ctx context.Context, result *domain.AssessmentResult) error {
	defer m.observe("create")()
	err := m.next.Create(ctx, result)
	switch {
	case err == nil:
		m.metrics.persistedResults.WithLabelValues("single").Inc()
	case errors.Is(err, ports.ErrDuplicateResult):
		m.metrics.persistConflicts.Inc()
	}
	return err
}

// CreateRange delegates to the wrapped store, counting the bulk write.
func (m *MeasuredResultStore) CreateRange(ctx context.Context, results []*domain.AssessmentResult) error {
	defer m.observe("create_range")()
	err := m.next.CreateRange(ctx, results)
	if err == nil {
		m.metrics.persistedResults.WithLabelValues("bulk").Add(float64(len(results)))
	}
	return err
}

// observe starts a latency observation for one operation and returns the
// function that records it.
func (m *MeasuredResultStore) observe(operation string) func() {
	start := time.Now()
	return func() {
		m.metrics.opLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
