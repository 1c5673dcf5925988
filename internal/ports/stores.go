// Package ports defines the interfaces through which the aggregation
// core talks to its collaborators: the submission source, the reference
// map source, the result store, and the assessment catalog. The core has
// no wire protocol of its own; request handlers and persistence
// adapters live behind these interfaces.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/assessly/appraise/internal/domain"
)

// Common errors returned by store implementations.
var (
	// ErrResultNotFound is returned by ResultStore.ByAssessmentID when no
	// result has been persisted for the assessment yet.
	ErrResultNotFound = errors.New("assessment result not found")

	// ErrDuplicateResult is returned by ResultStore.Create when a result
	// for the assessment already exists. Callers racing on first
	// computation treat this as benign: both computations are
	// deterministic over the same input snapshot.
	ErrDuplicateResult = errors.New("assessment result already exists")
)

// SubmissionSource provides read-only access to persisted evaluation
// submissions. Each returned submission must already carry a resolved
// integer role weight, and submissions must be returned in a stable,
// deterministic order (e.g. by creation time) so aggregated comment
// ordering is reproducible.
type SubmissionSource interface {
	// Submissions returns every submission for one assessment.
	// An assessment nobody evaluated yields an empty slice, not an error.
	Submissions(ctx context.Context, assessmentID uuid.UUID) ([]domain.EvaluationSubmission, error)

	// SubmissionsBatch returns submissions for many assessments in one
	// batched read, keyed by assessment id. Assessments without
	// submissions may be absent from the map.
	SubmissionsBatch(ctx context.Context, assessmentIDs []uuid.UUID) (map[uuid.UUID][]domain.EvaluationSubmission, error)
}

// ReferenceMapSource provides the globally shared competence → criteria
// reference map. The map is not assessment-specific.
type ReferenceMapSource interface {
	// CompetenceCriteria returns the reference map defining the complete
	// criterion universe for scoring.
	CompetenceCriteria(ctx context.Context) (domain.ReferenceMap, error)
}

// ResultStore persists computed assessment results. The store is the
// cache: a persisted result is served verbatim forever, so
// implementations must reject or ignore a duplicate primary key rather
// than corrupt state.
type ResultStore interface {
	// ByAssessmentID returns the persisted result for one assessment, or
	// ErrResultNotFound when none exists.
	ByAssessmentID(ctx context.Context, assessmentID uuid.UUID) (*domain.AssessmentResult, error)

	// ByAssessmentIDs returns the persisted results that exist for the
	// given ids. Missing ids are simply absent from the slice.
	ByAssessmentIDs(ctx context.Context, assessmentIDs []uuid.UUID) ([]*domain.AssessmentResult, error)

	// Create persists one result, returning ErrDuplicateResult when a
	// result for the assessment already exists.
	Create(ctx context.Context, result *domain.AssessmentResult) error

	// CreateRange persists many results in a single bulk write. Results
	// whose assessment already has a persisted result are ignored.
	CreateRange(ctx context.Context, results []*domain.AssessmentResult) error
}

// AssessmentRef identifies one completed assessment of an evaluatee.
// EndDate orders historical trend output.
type AssessmentRef struct {
	ID          uuid.UUID
	EvaluateeID uuid.UUID
	EndDate     time.Time
}

// AssessmentCatalog provides read-only access to assessment metadata
// owned by an external collaborator.
type AssessmentCatalog interface {
	// CompletedAssessments returns every completed assessment for one
	// evaluatee.
	CompletedAssessments(ctx context.Context, evaluateeID uuid.UUID) ([]AssessmentRef, error)
}
