package domain

import (
	"github.com/google/uuid"
)

// CompetenceStanding is the tri-state outcome of classifying one
// competence against grade thresholds. "Not evaluated" is deliberately
// distinct from failed: a competence nobody scored carries no signal.
type CompetenceStanding string

const (
	// StandingPassed means every scored criterion met its threshold and
	// the competence average met the competence threshold.
	StandingPassed CompetenceStanding = "passed"

	// StandingFailed means at least one scored criterion or the
	// competence average fell below its threshold.
	StandingFailed CompetenceStanding = "failed"

	// StandingNotEvaluated means the competence has no summary: no
	// evaluator scored any of its criteria.
	StandingNotEvaluated CompetenceStanding = "not_evaluated"
)

// GradeThresholds holds the minimum scores for one grade. The
// recommendation generator compares aggregated scores against the table
// row for the evaluatee's grade to decide which competences need an
// improvement plan.
type GradeThresholds struct {
	// MinAvgCompetence is the minimum acceptable competence average.
	MinAvgCompetence float64 `json:"min_avg_competence" yaml:"min_avg_competence" validate:"min=0,max=10"`

	// MinAvgCriterion is the minimum acceptable criterion average for
	// criteria that are not mandatory for the grade.
	MinAvgCriterion float64 `json:"min_avg_criterion" yaml:"min_avg_criterion" validate:"min=0,max=10"`

	// MinCoreThreshold is the minimum acceptable criterion average for
	// criteria mandatory for the grade.
	MinCoreThreshold float64 `json:"min_core_threshold" yaml:"min_core_threshold" validate:"min=0,max=10"`
}

// ClassifyCriterion reports whether one criterion summary meets the
// grade thresholds. Mandatory criteria are held to MinCoreThreshold,
// everything else to MinAvgCriterion.
func ClassifyCriterion(summary CriterionSummary, mandatory bool, t GradeThresholds) bool {
	if mandatory {
		return summary.Score >= t.MinCoreThreshold
	}
	return summary.Score >= t.MinAvgCriterion
}

// ClassifyCompetence classifies one competence summary against the grade
// thresholds. The core set names the criterion ids mandatory for the
// evaluatee's grade. A competence passes only if all of its scored
// criteria pass and its average meets MinAvgCompetence; a nil summary
// classifies as StandingNotEvaluated.
//
// Classification consumes only the summary's values, never the
// aggregation internals that produced them.
func ClassifyCompetence(summary *CompetenceSummary, core map[uuid.UUID]bool, t GradeThresholds) CompetenceStanding {
	if summary == nil {
		return StandingNotEvaluated
	}
	if summary.Score < t.MinAvgCompetence {
		return StandingFailed
	}
	for criterionID, criterion := range summary.Criteria {
		if !ClassifyCriterion(criterion, core[criterionID], t) {
			return StandingFailed
		}
	}
	return StandingPassed
}

// ClassifyResult classifies every competence in a result, producing the
// competence id → standing map the recommendation-filtering step
// consumes. Competences absent from the result's map are not reported.
func ClassifyResult(result *AssessmentResult, core map[uuid.UUID]bool, t GradeThresholds) map[uuid.UUID]CompetenceStanding {
	standings := make(map[uuid.UUID]CompetenceStanding, len(result.Competences))
	for competenceID, summary := range result.Competences {
		standings[competenceID] = ClassifyCompetence(summary, core, t)
	}
	return standings
}
