package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestEvaluationSubmission_Weight verifies the role weight default:
// anything below one counts as one.
func TestEvaluationSubmission_Weight(t *testing.T) {
	tests := []struct {
		name   string
		weight int
		want   int
	}{
		{name: "unset weight defaults", weight: 0, want: 1},
		{name: "negative weight defaults", weight: -3, want: 1},
		{name: "unit weight kept", weight: 1, want: 1},
		{name: "manager weight kept", weight: 2, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := EvaluationSubmission{RoleWeight: tt.weight}
			assert.Equal(t, tt.want, sub.Weight())
		})
	}
}

// TestCompetenceJudgmentConstructors verifies that the judged flag stays
// consistent with how the judgment was built.
func TestCompetenceJudgmentConstructors(t *testing.T) {
	judged := JudgedCompetence(competenceA, "note", ScoredCriterion(criterionA1, 5, ""))
	assert.True(t, judged.Judged)
	assert.Len(t, judged.Criteria, 1)

	empty := JudgedCompetence(competenceA, "note")
	assert.True(t, empty.Judged, "judging with zero criteria is still judging")
	assert.Empty(t, empty.Criteria)

	skipped := SkippedCompetence(competenceA, "never collaborated")
	assert.False(t, skipped.Judged)
	assert.Empty(t, skipped.Criteria)
	assert.Equal(t, "never collaborated", skipped.Comment)
}

// TestCriterionJudgment_Scored verifies the optional score sentinel.
func TestCriterionJudgment_Scored(t *testing.T) {
	assert.True(t, ScoredCriterion(criterionA1, 0, "").Scored(), "zero is a real score")
	assert.False(t, UnscoredCriterion(criterionA1, "declined").Scored())
}

// TestSummaryJoinedComment verifies the display helper keeps encounter
// order.
func TestSummaryJoinedComment(t *testing.T) {
	summary := CriterionSummary{Comments: []string{"first", "second"}}
	assert.Equal(t, "first\nsecond", summary.JoinedComment())

	competence := CompetenceSummary{Comments: []string{"only"}}
	assert.Equal(t, "only", competence.JoinedComment())
}

// TestAssessmentResult_CompetenceScore verifies the no-data marker is
// distinguishable from a real score.
func TestAssessmentResult_CompetenceScore(t *testing.T) {
	result := &AssessmentResult{
		AssessmentID: assessmentID,
		Competences: map[uuid.UUID]*CompetenceSummary{
			competenceA: {Score: 7.25},
			competenceB: nil,
		},
	}

	score, ok := result.CompetenceScore(competenceA)
	assert.True(t, ok)
	assert.Equal(t, 7.25, score)

	_, ok = result.CompetenceScore(competenceB)
	assert.False(t, ok, "nil summary must read as no data")
}
