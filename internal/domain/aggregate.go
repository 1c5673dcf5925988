package domain

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// AggregateAssessment reduces raw evaluation submissions into an
// assessment result, applying role weights and the missing-data policy.
// It is a pure function: no I/O, no errors. Malformed input degrades to
// absent data rather than failure; judgments for competences or
// criteria outside the reference map are silently ignored.
//
// The function returns nil when submissions is empty or when no
// competence in the reference map received a single criterion score.
// "Nobody evaluated this assessment yet" is a distinct state from a
// populated result and must never be persisted.
//
// Comment ordering within each summary follows the order submissions
// were supplied in; callers are responsible for supplying submissions in
// a stable order for reproducible output.
func AggregateAssessment(assessmentID uuid.UUID, submissions []EvaluationSubmission, ref ReferenceMap) *AssessmentResult {
	if len(submissions) == 0 {
		return nil
	}

	competences := make(map[uuid.UUID]*CompetenceSummary, len(ref))
	scored := false
	for competenceID, criterionIDs := range ref {
		summary := summarizeCompetence(collectJudged(submissions, competenceID), criterionIDs)
		competences[competenceID] = summary
		if summary != nil {
			scored = true
		}
	}
	if !scored {
		return nil
	}

	return &AssessmentResult{AssessmentID: assessmentID, Competences: competences}
}

// judgedCompetence pairs a competence judgment with its submission's
// effective role weight, preserving submission encounter order.
type judgedCompetence struct {
	weight   int
	judgment CompetenceJudgment
}

// collectJudged gathers every judged occurrence of one competence across
// all submissions, in submission order. Skipped judgments are invisible
// here regardless of any comment they carry.
func collectJudged(submissions []EvaluationSubmission, competenceID uuid.UUID) []judgedCompetence {
	var pairs []judgedCompetence
	for _, sub := range submissions {
		for _, judgment := range sub.Judgments {
			if judgment.CompetenceID == competenceID && judgment.Judged {
				pairs = append(pairs, judgedCompetence{weight: sub.Weight(), judgment: judgment})
			}
		}
	}
	return pairs
}

// summarizeCompetence builds the summary for one competence from the
// judged occurrences collected for it. It returns nil when nobody judged
// the competence or when no criterion within it received a score; a
// competence with comments but no scored criteria still summarizes to
// nil.
func summarizeCompetence(pairs []judgedCompetence, criterionIDs []uuid.UUID) *CompetenceSummary {
	if len(pairs) == 0 {
		return nil
	}

	criteria := make(map[uuid.UUID]CriterionSummary, len(criterionIDs))
	for _, criterionID := range criterionIDs {
		if summary, ok := summarizeCriterion(pairs, criterionID); ok {
			criteria[criterionID] = summary
		}
	}
	if len(criteria) == 0 {
		return nil
	}

	return &CompetenceSummary{
		Score:    competenceAverage(criterionIDs, criteria),
		Criteria: criteria,
		Comments: competenceComments(pairs),
	}
}

// summarizeCriterion computes the role-weighted average and comment list
// for one criterion. Judgments with a nil score contribute nothing, and
// their comments are discarded under the same participates-only-if-scored
// policy. The boolean result is false when no evaluator scored the
// criterion, in which case the criterion is omitted from the competence
// summary rather than reported as zero.
func summarizeCriterion(pairs []judgedCompetence, criterionID uuid.UUID) (CriterionSummary, bool) {
	var weightedSum, totalWeight int
	var comments []string
	for _, pair := range pairs {
		for _, judgment := range pair.judgment.Criteria {
			if judgment.CriterionID != criterionID || !judgment.Scored() {
				continue
			}
			weightedSum += *judgment.Score * pair.weight
			totalWeight += pair.weight
			if strings.TrimSpace(judgment.Comment) != "" {
				comments = append(comments, judgment.Comment)
			}
		}
	}
	if totalWeight == 0 {
		return CriterionSummary{}, false
	}
	return CriterionSummary{
		Score:    criterionWeightedAverage(weightedSum, totalWeight),
		Comments: comments,
	}, true
}

// criterionWeightedAverage is the first of the two rounding stages:
// Σ(score × weight) / Σ(weight), rounded to two decimals. Downstream
// consumers depend on this value byte-for-byte; never fold it into a
// single global average with the competence stage.
func criterionWeightedAverage(weightedSum, totalWeight int) float64 {
	return round2(float64(weightedSum) / float64(totalWeight))
}

// competenceAverage is the second rounding stage: the unweighted mean of
// the already-rounded criterion averages. Summation follows the
// reference map's criterion order so output is reproducible.
func competenceAverage(criterionIDs []uuid.UUID, criteria map[uuid.UUID]CriterionSummary) float64 {
	var sum float64
	var count int
	for _, criterionID := range criterionIDs {
		if summary, ok := criteria[criterionID]; ok {
			sum += summary.Score
			count++
		}
	}
	return round2(sum / float64(count))
}

// competenceComments gathers non-blank competence-level comments from
// every judged occurrence, in submission order.
func competenceComments(pairs []judgedCompetence) []string {
	var comments []string
	for _, pair := range pairs {
		if strings.TrimSpace(pair.judgment.Comment) != "" {
			comments = append(comments, pair.judgment.Comment)
		}
	}
	return comments
}

// round2 rounds half away from zero to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
