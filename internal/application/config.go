package application

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/assessly/appraise/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// ThresholdRow is one grade's entry in the threshold configuration file.
// Scores use the platform's 0-10 scale.
type ThresholdRow struct {
	// Grade names the grade this row applies to, e.g. "junior" or
	// "senior". Grades must be unique within one file.
	Grade string `yaml:"grade" validate:"required,min=1,max=64"`

	// MinAvgCompetence is the minimum acceptable competence average.
	MinAvgCompetence float64 `yaml:"min_avg_competence" validate:"min=0,max=10"`

	// MinAvgCriterion is the minimum acceptable average for criteria not
	// mandatory for the grade.
	MinAvgCriterion float64 `yaml:"min_avg_criterion" validate:"min=0,max=10"`

	// MinCoreThreshold is the minimum acceptable average for criteria
	// mandatory for the grade.
	MinCoreThreshold float64 `yaml:"min_core_threshold" validate:"min=0,max=10"`
}

// ThresholdConfig is the top-level shape of a threshold configuration
// file.
type ThresholdConfig struct {
	Grades []ThresholdRow `yaml:"grades" validate:"required,min=1,dive"`
}

// ThresholdTable maps a grade name to its thresholds.
type ThresholdTable map[string]domain.GradeThresholds

// For returns the thresholds for one grade and whether the grade is
// known.
func (t ThresholdTable) For(grade string) (domain.GradeThresholds, bool) {
	thresholds, ok := t[grade]
	return thresholds, ok
}

// LoadThresholds reads, validates, and indexes a YAML threshold table.
// Duplicate grades are rejected rather than last-write-wins, since a
// silently shadowed row would change classification outcomes.
func LoadThresholds(r io.Reader) (ThresholdTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read threshold config: %w", err)
	}

	var config ThresholdConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse threshold config: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("threshold config validation failed: %w", err)
	}

	table := make(ThresholdTable, len(config.Grades))
	for _, row := range config.Grades {
		if _, exists := table[row.Grade]; exists {
			return nil, fmt.Errorf("duplicate grade %q in threshold config", row.Grade)
		}
		table[row.Grade] = domain.GradeThresholds{
			MinAvgCompetence: row.MinAvgCompetence,
			MinAvgCriterion:  row.MinAvgCriterion,
			MinCoreThreshold: row.MinCoreThreshold,
		}
	}
	return table, nil
}

// LoadThresholdsFromFile loads a threshold table from a YAML file on
// disk.
func LoadThresholdsFromFile(path string) (ThresholdTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open threshold config %s: %w", path, err)
	}
	defer f.Close()
	return LoadThresholds(f)
}
