// Package storage provides in-memory implementations of the core's
// ports. They carry the exact contract semantics the real persistence
// collaborators must honor, and back the tests and the demo command.
package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/assessly/appraise/internal/domain"
	"github.com/assessly/appraise/internal/ports"
)

var (
	_ ports.ResultStore        = (*MemoryResultStore)(nil)
	_ ports.SubmissionSource   = (*MemorySubmissionSource)(nil)
	_ ports.ReferenceMapSource = (*StaticReferenceMap)(nil)
	_ ports.AssessmentCatalog  = (*MemoryAssessmentCatalog)(nil)
)

// MemoryResultStore is a mutex-guarded ResultStore keyed by assessment
// id. Stored results are treated as immutable: callers must never mutate
// a result after handing it to Create.
type MemoryResultStore struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*domain.AssessmentResult
}

// NewMemoryResultStore creates an empty in-memory result store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{results: make(map[uuid.UUID]*domain.AssessmentResult)}
}

// ByAssessmentID returns the stored result or ports.ErrResultNotFound.
func (s *MemoryResultStore) ByAssessmentID(ctx context.Context, assessmentID uuid.UUID) (*domain.AssessmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[assessmentID]
	if !ok {
		return nil, ports.ErrResultNotFound
	}
	return result, nil
}

// ByAssessmentIDs returns the results that exist for the given ids, in
// the order the ids were supplied.
func (s *MemoryResultStore) ByAssessmentIDs(ctx context.Context, assessmentIDs []uuid.UUID) ([]*domain.AssessmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*domain.AssessmentResult, 0, len(assessmentIDs))
	for _, id := range assessmentIDs {
		if result, ok := s.results[id]; ok {
			results = append(results, result)
		}
	}
	return results, nil
}

// Create persists one result, rejecting a duplicate primary key with
// ports.ErrDuplicateResult.
func (s *MemoryResultStore) Create(ctx context.Context, result *domain.AssessmentResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.AssessmentID]; exists {
		return ports.ErrDuplicateResult
	}
	s.results[result.AssessmentID] = result
	return nil
}

// CreateRange persists many results in one write, silently ignoring
// entries whose assessment already has a result.
func (s *MemoryResultStore) CreateRange(ctx context.Context, results []*domain.AssessmentResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, result := range results {
		if _, exists := s.results[result.AssessmentID]; exists {
			continue
		}
		s.results[result.AssessmentID] = result
	}
	return nil
}

// Len returns the number of stored results.
func (s *MemoryResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// MemorySubmissionSource is a mutex-guarded SubmissionSource. Insertion
// order is preserved per assessment, which doubles as the stable
// submission order the aggregation contract requires.
type MemorySubmissionSource struct {
	mu           sync.RWMutex
	byAssessment map[uuid.UUID][]domain.EvaluationSubmission
}

// NewMemorySubmissionSource creates an empty in-memory submission
// source.
func NewMemorySubmissionSource() *MemorySubmissionSource {
	return &MemorySubmissionSource{byAssessment: make(map[uuid.UUID][]domain.EvaluationSubmission)}
}

// Add records a submission under its assessment id.
func (s *MemorySubmissionSource) Add(submission domain.EvaluationSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAssessment[submission.AssessmentID] = append(s.byAssessment[submission.AssessmentID], submission)
}

// Submissions returns every submission for one assessment in insertion
// order.
func (s *MemorySubmissionSource) Submissions(ctx context.Context, assessmentID uuid.UUID) ([]domain.EvaluationSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byAssessment[assessmentID]
	submissions := make([]domain.EvaluationSubmission, len(stored))
	copy(submissions, stored)
	return submissions, nil
}

// SubmissionsBatch returns submissions for many assessments keyed by
// assessment id. Assessments without submissions are absent from the
// map.
func (s *MemorySubmissionSource) SubmissionsBatch(ctx context.Context, assessmentIDs []uuid.UUID) (map[uuid.UUID][]domain.EvaluationSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch := make(map[uuid.UUID][]domain.EvaluationSubmission, len(assessmentIDs))
	for _, id := range assessmentIDs {
		stored, ok := s.byAssessment[id]
		if !ok {
			continue
		}
		submissions := make([]domain.EvaluationSubmission, len(stored))
		copy(submissions, stored)
		batch[id] = submissions
	}
	return batch, nil
}

// StaticReferenceMap serves a fixed competence → criteria map.
type StaticReferenceMap struct {
	refMap domain.ReferenceMap
}

// NewStaticReferenceMap wraps a reference map for serving. The map is
// copied so later caller mutations cannot leak into aggregation.
func NewStaticReferenceMap(refMap domain.ReferenceMap) *StaticReferenceMap {
	copied := make(domain.ReferenceMap, len(refMap))
	for competenceID, criterionIDs := range refMap {
		criteria := make([]uuid.UUID, len(criterionIDs))
		copy(criteria, criterionIDs)
		copied[competenceID] = criteria
	}
	return &StaticReferenceMap{refMap: copied}
}

// CompetenceCriteria returns the reference map.
func (s *StaticReferenceMap) CompetenceCriteria(ctx context.Context) (domain.ReferenceMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.refMap, nil
}

// MemoryAssessmentCatalog is a mutex-guarded AssessmentCatalog.
type MemoryAssessmentCatalog struct {
	mu   sync.RWMutex
	refs []ports.AssessmentRef
}

// NewMemoryAssessmentCatalog creates an empty in-memory catalog.
func NewMemoryAssessmentCatalog() *MemoryAssessmentCatalog {
	return &MemoryAssessmentCatalog{}
}

// Add records a completed assessment.
func (c *MemoryAssessmentCatalog) Add(ref ports.AssessmentRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = append(c.refs, ref)
}

// CompletedAssessments returns every completed assessment for one
// evaluatee in insertion order.
func (c *MemoryAssessmentCatalog) CompletedAssessments(ctx context.Context, evaluateeID uuid.UUID) ([]ports.AssessmentRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var refs []ports.AssessmentRef
	for _, ref := range c.refs {
		if ref.EvaluateeID == evaluateeID {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}
