package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadThresholds verifies parsing and indexing of a valid threshold
// table.
func TestLoadThresholds(t *testing.T) {
	config := `
grades:
  - grade: junior
    min_avg_competence: 5
    min_avg_criterion: 4
    min_core_threshold: 6
  - grade: senior
    min_avg_competence: 7.5
    min_avg_criterion: 6.5
    min_core_threshold: 8
`
	table, err := LoadThresholds(strings.NewReader(config))
	require.NoError(t, err)
	require.Len(t, table, 2)

	senior, ok := table.For("senior")
	require.True(t, ok)
	assert.Equal(t, 7.5, senior.MinAvgCompetence)
	assert.Equal(t, 6.5, senior.MinAvgCriterion)
	assert.Equal(t, 8.0, senior.MinCoreThreshold)

	_, ok = table.For("principal")
	assert.False(t, ok)
}

// TestLoadThresholds_Invalid covers the rejection paths: malformed YAML,
// empty tables, out-of-range scores, and duplicate grades.
func TestLoadThresholds_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			config:  "grades: [",
			wantErr: "parse threshold config",
		},
		{
			name:    "empty table",
			config:  "grades: []",
			wantErr: "validation failed",
		},
		{
			name: "missing grade name",
			config: `
grades:
  - min_avg_competence: 5
    min_avg_criterion: 4
    min_core_threshold: 6
`,
			wantErr: "validation failed",
		},
		{
			name: "score above scale",
			config: `
grades:
  - grade: junior
    min_avg_competence: 11
    min_avg_criterion: 4
    min_core_threshold: 6
`,
			wantErr: "validation failed",
		},
		{
			name: "duplicate grade",
			config: `
grades:
  - grade: junior
    min_avg_competence: 5
    min_avg_criterion: 4
    min_core_threshold: 6
  - grade: junior
    min_avg_competence: 6
    min_avg_criterion: 5
    min_core_threshold: 7
`,
			wantErr: `duplicate grade "junior"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadThresholds(strings.NewReader(tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
