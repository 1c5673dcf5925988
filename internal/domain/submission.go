// Package domain contains pure, dependency-free domain models and the
// score aggregation algorithm for the assessment engine.
package domain

import (
	"github.com/google/uuid"
)

// DefaultRoleWeight is the weight applied to a submission whose role
// weight was never resolved by the caller.
const DefaultRoleWeight = 1

// ReferenceMap defines the criterion universe for scoring: for each
// competence, the ordered list of criterion ids that belong to it.
// Judgments referencing competences or criteria outside this map are
// ignored during aggregation.
type ReferenceMap map[uuid.UUID][]uuid.UUID

// EvaluationSubmission is one evaluator's complete judgment of one
// evaluatee for one assessment. Submissions are created once when the
// evaluator submits and are immutable thereafter; aggregation treats
// them as read-only input.
type EvaluationSubmission struct {
	// AssessmentID identifies the assessment period this submission
	// belongs to.
	AssessmentID uuid.UUID `json:"assessment_id"`

	// EvaluatorID identifies the person who submitted the judgment.
	EvaluatorID uuid.UUID `json:"evaluator_id"`

	// RoleWeight is the relative trust of this evaluator's role, e.g. a
	// manager's judgment may count double a peer's. Values below 1 are
	// normalized to DefaultRoleWeight; use Weight to read it.
	RoleWeight int `json:"role_weight"`

	// Judgments holds the evaluator's per-competence judgments in the
	// order they were supplied. Callers must supply submissions in a
	// stable order (e.g. by creation time) for reproducible comment
	// ordering in the aggregated output.
	Judgments []CompetenceJudgment `json:"judgments"`
}

// Weight returns the submission's effective role weight, defaulting to
// DefaultRoleWeight when the stored value is missing or invalid.
func (s EvaluationSubmission) Weight() int {
	if s.RoleWeight < DefaultRoleWeight {
		return DefaultRoleWeight
	}
	return s.RoleWeight
}

// CompetenceJudgment is one evaluator's view of one competence.
// A judgment is either judged (the evaluator opened the competence and
// supplied a criterion collection, possibly with no scores) or skipped
// (the evaluator never judged the competence at all). The two states are
// distinct: only judged competences contribute comments and scores to
// aggregation. Construct values with JudgedCompetence or
// SkippedCompetence rather than struct literals so the flag stays
// consistent with the payload.
type CompetenceJudgment struct {
	// CompetenceID identifies the competence being judged.
	CompetenceID uuid.UUID `json:"competence_id"`

	// Comment is the evaluator's free-text remark about the competence
	// as a whole. May be empty.
	Comment string `json:"comment,omitempty"`

	// Judged reports whether the evaluator actually judged this
	// competence. A skipped judgment carries no criteria and is invisible
	// to aggregation even if it carries a comment.
	Judged bool `json:"judged"`

	// Criteria holds the per-criterion judgments. Only meaningful when
	// Judged is true; an empty slice means the evaluator judged the
	// competence but scored nothing.
	Criteria []CriterionJudgment `json:"criteria,omitempty"`
}

// JudgedCompetence builds a judgment for a competence the evaluator
// actually assessed. The criterion collection may be empty.
func JudgedCompetence(competenceID uuid.UUID, comment string, criteria ...CriterionJudgment) CompetenceJudgment {
	return CompetenceJudgment{
		CompetenceID: competenceID,
		Comment:      comment,
		Judged:       true,
		Criteria:     criteria,
	}
}

// SkippedCompetence builds a judgment recording that the evaluator did
// not assess the competence. Any comment is retained for audit purposes
// but never participates in aggregation.
func SkippedCompetence(competenceID uuid.UUID, comment string) CompetenceJudgment {
	return CompetenceJudgment{
		CompetenceID: competenceID,
		Comment:      comment,
	}
}

// CriterionJudgment is one evaluator's score for one criterion within a
// judged competence. A nil Score means the evaluator declined to score
// the criterion; such a judgment contributes neither numeric weight nor
// its comment to the aggregated summary.
type CriterionJudgment struct {
	// CriterionID identifies the criterion being scored.
	CriterionID uuid.UUID `json:"criterion_id"`

	// Score is the integer score the evaluator assigned, or nil when
	// the evaluator declined to score this criterion.
	Score *int `json:"score,omitempty"`

	// Comment is the evaluator's free-text remark for this criterion.
	Comment string `json:"comment,omitempty"`
}

// ScoredCriterion builds a criterion judgment carrying a score.
func ScoredCriterion(criterionID uuid.UUID, score int, comment string) CriterionJudgment {
	return CriterionJudgment{CriterionID: criterionID, Score: &score, Comment: comment}
}

// UnscoredCriterion builds a criterion judgment recording that the
// evaluator declined to score the criterion.
func UnscoredCriterion(criterionID uuid.UUID, comment string) CriterionJudgment {
	return CriterionJudgment{CriterionID: criterionID, Comment: comment}
}

// Scored reports whether the evaluator assigned a score.
func (c CriterionJudgment) Scored() bool { return c.Score != nil }
