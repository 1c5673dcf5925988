package domain

import (
	"strings"

	"github.com/google/uuid"
)

// CriterionSummary is the aggregated outcome for one criterion: the
// role-weighted average over every evaluator who scored it, plus their
// non-empty comments in evaluator-submission order. Summaries are
// immutable once computed.
type CriterionSummary struct {
	// Score is the role-weighted average of all scores for this
	// criterion, rounded to two decimal places.
	Score float64 `json:"score"`

	// Comments holds every non-empty comment from evaluators who scored
	// this criterion, in evaluator-submission order.
	Comments []string `json:"comments,omitempty"`
}

// JoinedComment returns the summary's comments concatenated with
// newlines, for display consumers that want a single block of text.
func (c CriterionSummary) JoinedComment() string {
	return strings.Join(c.Comments, "\n")
}

// CompetenceSummary is the aggregated outcome for one competence: the
// unweighted mean of its criterion averages, the per-criterion summaries
// restricted to criteria that received at least one score, and the
// competence-level comments from evaluators who judged the competence.
type CompetenceSummary struct {
	// Score is the simple average of the criterion summary scores,
	// rounded to two decimal places. It is not re-weighted by evaluator
	// count; each scored criterion counts once.
	Score float64 `json:"score"`

	// Criteria maps criterion id to its summary. Criteria that nobody
	// scored are absent from the map, not zero-valued.
	Criteria map[uuid.UUID]CriterionSummary `json:"criteria"`

	// Comments holds every non-empty competence-level comment from
	// evaluators who judged this competence, in evaluator-submission
	// order. An evaluator judged a competence if they supplied a
	// criterion collection for it, whether or not anything was scored.
	Comments []string `json:"comments,omitempty"`
}

// JoinedComment returns the summary's comments concatenated with
// newlines.
func (c CompetenceSummary) JoinedComment() string {
	return strings.Join(c.Comments, "\n")
}

// AssessmentResult is the unit of caching and persistence: for one
// assessment, the aggregated summary of every competence in the
// reference map. A result is computed on first demand, persisted exactly
// once, and served verbatim thereafter; it is never mutated or
// recomputed.
type AssessmentResult struct {
	// AssessmentID identifies the assessment this result was computed
	// for and is the result's primary key in the store.
	AssessmentID uuid.UUID `json:"assessment_id"`

	// Competences maps every competence id in the reference map to its
	// summary. A nil value is an explicit "no data" marker: the
	// competence exists but no evaluator scored any of its criteria.
	Competences map[uuid.UUID]*CompetenceSummary `json:"competences"`
}

// CompetenceScore returns the aggregated score for one competence and
// whether that competence has data in this result.
func (r *AssessmentResult) CompetenceScore(competenceID uuid.UUID) (float64, bool) {
	summary, ok := r.Competences[competenceID]
	if !ok || summary == nil {
		return 0, false
	}
	return summary.Score, true
}
