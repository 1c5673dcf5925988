package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/assessly/appraise/internal/domain"
	"github.com/assessly/appraise/internal/ports"
)

var _ ports.ResultStore = (*TracedResultStore)(nil)

// TracedResultStore wraps a ResultStore with OpenTelemetry spans. The
// sentinel not-found and duplicate errors are recorded as span events
// rather than error status, since both are expected states of the
// lookup-or-compute protocol.
type TracedResultStore struct {
	next   ports.ResultStore
	tracer trace.Tracer
}

// NewTracedResultStore wraps next with tracing.
func NewTracedResultStore(next ports.ResultStore) *TracedResultStore {
	return &TracedResultStore{
		next:   next,
		tracer: otel.Tracer("appraise/result-store"),
	}
}

// ByAssessmentID delegates to the wrapped store inside a span.
func (t *TracedResultStore) ByAssessmentID(ctx context.Context, assessmentID uuid.UUID) (*domain.AssessmentResult, error) {
	ctx, span := t.tracer.Start(ctx, "ResultStore.ByAssessmentID", trace.WithAttributes(
		attribute.String("assessment.id", assessmentID.String()),
	))
	defer span.End()

	result, err := t.next.ByAssessmentID(ctx, assessmentID)
	t.finish(span, err)
	return result, err
}

// ByAssessmentIDs delegates to the wrapped store inside a span.
func (t *TracedResultStore) ByAssessmentIDs(ctx context.Context, assessmentIDs []uuid.UUID) ([]*domain.AssessmentResult, error) {
	ctx, span := t.tracer.Start(ctx, "ResultStore.ByAssessmentIDs", trace.WithAttributes(
		attribute.Int("assessment.count", len(assessmentIDs)),
	))
	defer span.End()

	results, err := t.next.ByAssessmentIDs(ctx, assessmentIDs)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(results)))
	}
	t.finish(span, err)
	return results, err
}

// Create delegates to the wrapped store inside a span.
func (t *TracedResultStore) Create(ctx context.Context, result *domain.AssessmentResult) error {
	ctx, span := t.tracer.Start(ctx, "ResultStore.Create", trace.WithAttributes(
		attribute.String("assessment.id", result.AssessmentID.String()),
	))
	defer span.End()

	err := t.next.Create(ctx, result)
	t.finish(span, err)
	return err
}

// CreateRange delegates to the wrapped store inside a span.
func (t *TracedResultStore) CreateRange(ctx context.Context, results []*domain.AssessmentResult) error {
	ctx, span := t.tracer.Start(ctx, "ResultStore.CreateRange", trace.WithAttributes(
		attribute.Int("result.count", len(results)),
	))
	defer span.End()

	err := t.next.CreateRange(ctx, results)
	t.finish(span, err)
	return err
}

// finish records the operation outcome on the span.
func (t *TracedResultStore) finish(span trace.Span, err error) {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ports.ErrResultNotFound):
		span.AddEvent("result.not_found")
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ports.ErrDuplicateResult):
		span.AddEvent("result.duplicate")
		span.SetStatus(codes.Ok, "")
	default:
		span.SetStatus(codes.Error, err.Error())
	}
}
