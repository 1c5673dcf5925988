package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed ids keep the test fixtures readable; their values carry no
// meaning.
var (
	assessmentID = uuid.MustParse("3f2b8c44-9d1e-4a6b-8f3c-1a2b3c4d5e6f")
	competenceA  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	competenceB  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	criterionA1  = uuid.MustParse("aaaaaaaa-1111-1111-1111-111111111111")
	criterionA2  = uuid.MustParse("aaaaaaaa-2222-2222-2222-222222222222")
	criterionB1  = uuid.MustParse("bbbbbbbb-1111-1111-1111-111111111111")
	evaluator1   = uuid.MustParse("e1e1e1e1-0000-0000-0000-000000000001")
	evaluator2   = uuid.MustParse("e1e1e1e1-0000-0000-0000-000000000002")
)

func submission(evaluatorID uuid.UUID, weight int, judgments ...CompetenceJudgment) EvaluationSubmission {
	return EvaluationSubmission{
		AssessmentID: assessmentID,
		EvaluatorID:  evaluatorID,
		RoleWeight:   weight,
		Judgments:    judgments,
	}
}

// TestAggregateAssessment_EmptySubmissions verifies that an assessment
// nobody evaluated yields no result at all, not an empty one.
func TestAggregateAssessment_EmptySubmissions(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}

	result := AggregateAssessment(assessmentID, nil, ref)
	assert.Nil(t, result)

	result = AggregateAssessment(assessmentID, []EvaluationSubmission{}, ref)
	assert.Nil(t, result)
}

// TestAggregateAssessment_SingleEvaluatorFullScores verifies the basic
// shape: each criterion summary equals the single score, the competence
// average is the simple mean of the criterion averages, and comments are
// carried through verbatim.
func TestAggregateAssessment_SingleEvaluatorFullScores(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1, criterionA2}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1, JudgedCompetence(competenceA, "solid quarter",
			ScoredCriterion(criterionA1, 8, "clear writing"),
			ScoredCriterion(criterionA2, 6, ""),
		)),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)
	require.Len(t, result.Competences, 1)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 7.0, summary.Score)
	assert.Equal(t, []string{"solid quarter"}, summary.Comments)

	require.Len(t, summary.Criteria, 2)
	assert.Equal(t, 8.0, summary.Criteria[criterionA1].Score)
	assert.Equal(t, []string{"clear writing"}, summary.Criteria[criterionA1].Comments)
	assert.Equal(t, 6.0, summary.Criteria[criterionA2].Score)
	assert.Empty(t, summary.Criteria[criterionA2].Comments)
}

// TestAggregateAssessment_WeightedMultiEvaluator verifies the
// role-weighted criterion average: weight 2 score 9 and weight 1 score 6
// combine to round((9*2+6*1)/3, 2) = 8.00.
func TestAggregateAssessment_WeightedMultiEvaluator(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 2, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 9, "manager view"))),
		submission(evaluator2, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 6, "peer view"))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 8.0, summary.Criteria[criterionA1].Score)
	assert.Equal(t, 8.0, summary.Score)
	assert.Equal(t, []string{"manager view", "peer view"}, summary.Criteria[criterionA1].Comments,
		"comments must follow submission order")
}

// TestAggregateAssessment_MissingRoleWeightDefaultsToOne verifies that a
// submission without a resolved weight counts once.
func TestAggregateAssessment_MissingRoleWeightDefaultsToOne(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 0, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 9, ""))),
		submission(evaluator2, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 5, ""))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)
	assert.Equal(t, 7.0, result.Competences[competenceA].Criteria[criterionA1].Score)
}

// TestAggregateAssessment_DeclinedScoreExcluded verifies that an
// evaluator who declined to score a criterion contributes neither weight
// nor comment, while scored judgments still count.
func TestAggregateAssessment_DeclinedScoreExcluded(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 3, JudgedCompetence(competenceA, "",
			UnscoredCriterion(criterionA1, "cannot judge this"))),
		submission(evaluator2, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 8, "good"))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 8.0, summary.Criteria[criterionA1].Score)
	assert.Equal(t, []string{"good"}, summary.Criteria[criterionA1].Comments,
		"declining evaluator's comment must be discarded")
}

// TestAggregateAssessment_UnscoredCriterionOmitted verifies that a
// criterion nobody scored is absent from the criterion map rather than
// reported as zero.
func TestAggregateAssessment_UnscoredCriterionOmitted(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1, criterionA2}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 7, ""),
			UnscoredCriterion(criterionA2, ""))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 7.0, summary.Score)
	assert.Contains(t, summary.Criteria, criterionA1)
	assert.NotContains(t, summary.Criteria, criterionA2)
}

// TestAggregateAssessment_SkippedCompetenceIsNil verifies the explicit
// "no data" marker: a competence no evaluator judged maps to nil, and a
// comment on a skipped judgment is still discarded because the gate is
// "has scored criteria", not "has a comment".
func TestAggregateAssessment_SkippedCompetenceIsNil(t *testing.T) {
	ref := ReferenceMap{
		competenceA: {criterionA1},
		competenceB: {criterionB1},
	}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1,
			JudgedCompetence(competenceA, "", ScoredCriterion(criterionA1, 5, "")),
			SkippedCompetence(competenceB, "never worked together"),
		),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)
	require.Len(t, result.Competences, 2)

	summaryB, present := result.Competences[competenceB]
	assert.True(t, present, "unjudged competence must be an explicit nil entry, not an absent key")
	assert.Nil(t, summaryB)
}

// TestAggregateAssessment_JudgedWithoutScoresIsNil verifies step 4 of
// the algorithm: a competence that was judged, even with a comment, but
// whose criteria received no score summarizes to nil.
func TestAggregateAssessment_JudgedWithoutScoresIsNil(t *testing.T) {
	ref := ReferenceMap{
		competenceA: {criterionA1},
		competenceB: {criterionB1},
	}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1,
			JudgedCompetence(competenceA, "", ScoredCriterion(criterionA1, 5, "")),
			JudgedCompetence(competenceB, "promising but unproven",
				UnscoredCriterion(criterionB1, "")),
		),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)
	assert.Nil(t, result.Competences[competenceB])
}

// TestAggregateAssessment_NothingScoredYieldsNilResult verifies the
// whole-assessment mirror of the per-competence rule: when every
// competence summarizes to nil the result itself is nil.
func TestAggregateAssessment_NothingScoredYieldsNilResult(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1, JudgedCompetence(competenceA, "only words",
			UnscoredCriterion(criterionA1, "no score"))),
	}

	assert.Nil(t, AggregateAssessment(assessmentID, subs, ref))
}

// TestAggregateAssessment_UnknownIDsIgnored verifies that judgments for
// competences or criteria outside the reference map are silently
// ignored rather than rejected.
func TestAggregateAssessment_UnknownIDsIgnored(t *testing.T) {
	unknownCompetence := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	unknownCriterion := uuid.MustParse("99999999-0000-0000-0000-999999999999")
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1,
			JudgedCompetence(competenceA, "",
				ScoredCriterion(criterionA1, 6, ""),
				ScoredCriterion(unknownCriterion, 10, "should not count")),
			JudgedCompetence(unknownCompetence, "",
				ScoredCriterion(criterionA1, 10, "")),
		),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)
	require.Len(t, result.Competences, 1)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 6.0, summary.Score)
	require.Len(t, summary.Criteria, 1)
}

// TestAggregateAssessment_TwoStageRounding pins the two-stage averaging
// policy: the competence average is the unweighted mean of the rounded
// criterion averages, which is not equivalent to one global weighted
// average. Criterion A1 gets scores 7 and 8 (avg 7.50), criterion A2
// gets 9 (avg 9.00); the competence average is 8.25 where a single
// global average over all three scores would be 8.00.
func TestAggregateAssessment_TwoStageRounding(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1, criterionA2}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 7, ""),
			ScoredCriterion(criterionA2, 9, ""))),
		submission(evaluator2, 1, JudgedCompetence(competenceA, "",
			ScoredCriterion(criterionA1, 8, ""))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, 7.5, summary.Criteria[criterionA1].Score)
	assert.Equal(t, 9.0, summary.Criteria[criterionA2].Score)
	assert.Equal(t, 8.25, summary.Score)
}

// TestAggregateAssessment_BlankCommentsDropped verifies that empty and
// whitespace-only comments never reach a summary, at both the criterion
// and competence level.
func TestAggregateAssessment_BlankCommentsDropped(t *testing.T) {
	ref := ReferenceMap{competenceA: {criterionA1}}
	subs := []EvaluationSubmission{
		submission(evaluator1, 1, JudgedCompetence(competenceA, "   ",
			ScoredCriterion(criterionA1, 5, "\t\n"))),
		submission(evaluator2, 1, JudgedCompetence(competenceA, "real note",
			ScoredCriterion(criterionA1, 5, "real remark"))),
	}

	result := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, result)

	summary := result.Competences[competenceA]
	require.NotNil(t, summary)
	assert.Equal(t, []string{"real note"}, summary.Comments)
	assert.Equal(t, []string{"real remark"}, summary.Criteria[criterionA1].Comments)
}

// TestAggregateAssessment_Deterministic verifies that aggregation over a
// fixed input is reproducible: same scores, same rounding, same comment
// order.
func TestAggregateAssessment_Deterministic(t *testing.T) {
	ref := ReferenceMap{
		competenceA: {criterionA1, criterionA2},
		competenceB: {criterionB1},
	}
	subs := []EvaluationSubmission{
		submission(evaluator1, 2,
			JudgedCompetence(competenceA, "first",
				ScoredCriterion(criterionA1, 7, "a"),
				ScoredCriterion(criterionA2, 4, "b")),
			JudgedCompetence(competenceB, "",
				ScoredCriterion(criterionB1, 10, ""))),
		submission(evaluator2, 1,
			JudgedCompetence(competenceA, "second",
				ScoredCriterion(criterionA1, 5, "c"))),
	}

	first := AggregateAssessment(assessmentID, subs, ref)
	second := AggregateAssessment(assessmentID, subs, ref)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

// TestRound2 pins the rounding mode at half away from zero. The
// midpoints chosen here are exactly representable in binary so the test
// exercises the rounding policy, not floating point noise.
func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "midpoint rounds away from zero", in: 0.125, want: 0.13},
		{name: "negative midpoint rounds away from zero", in: -0.125, want: -0.13},
		{name: "upper midpoint", in: 0.375, want: 0.38},
		{name: "repeating third", in: 2.0 / 3.0, want: 0.67},
		{name: "integral value unchanged", in: 8, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, round2(tt.in))
		})
	}
}

// TestCriterionWeightedAverage exercises the first rounding stage
// directly.
func TestCriterionWeightedAverage(t *testing.T) {
	// (9*2 + 6*1) / 3 = 8.00
	assert.Equal(t, 8.0, criterionWeightedAverage(9*2+6*1, 3))
	// (7 + 8 + 8) / 3 = 7.666... -> 7.67
	assert.Equal(t, 7.67, criterionWeightedAverage(23, 3))
}
