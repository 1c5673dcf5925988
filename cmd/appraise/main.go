// Command appraise computes assessment results from a YAML fixture of
// evaluation submissions and prints the aggregated summaries, optionally
// classifying them against a grade threshold table. It is a
// demonstration and backfill harness for the aggregation core; the
// production platform consumes the same packages from its request
// handlers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/assessly/appraise/infrastructure/storage"
	"github.com/assessly/appraise/internal/application"
	"github.com/assessly/appraise/internal/domain"
	"github.com/assessly/appraise/internal/logging"
	"github.com/assessly/appraise/internal/ports"
)

type fixture struct {
	ReferenceMap []fixtureCompetence `yaml:"reference_map"`
	Assessments  []fixtureAssessment `yaml:"assessments"`
	Submissions  []fixtureSubmission `yaml:"submissions"`
	Grade        string              `yaml:"grade"`
	CoreCriteria []string            `yaml:"core_criteria"`
}

type fixtureCompetence struct {
	Competence string   `yaml:"competence"`
	Criteria   []string `yaml:"criteria"`
}

type fixtureAssessment struct {
	ID        string `yaml:"id"`
	Evaluatee string `yaml:"evaluatee"`
	EndDate   string `yaml:"end_date"`
}

type fixtureSubmission struct {
	Assessment string            `yaml:"assessment"`
	Evaluator  string            `yaml:"evaluator"`
	RoleWeight int               `yaml:"role_weight"`
	Judgments  []fixtureJudgment `yaml:"judgments"`
}

type fixtureJudgment struct {
	Competence string             `yaml:"competence"`
	Comment    string             `yaml:"comment"`
	Criteria   []fixtureCriterion `yaml:"criteria"`
}

type fixtureCriterion struct {
	Criterion string `yaml:"criterion"`
	Score     *int   `yaml:"score"`
	Comment   string `yaml:"comment"`
}

func main() {
	fixturePath := flag.String("fixture", "", "path to the YAML submissions fixture")
	thresholdPath := flag.String("thresholds", "", "optional path to a YAML grade threshold table")
	jsonLog := flag.Bool("json", false, "emit JSON logs")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger, err := logging.New(*jsonLog, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *fixturePath == "" {
		logger.Fatal("missing required -fixture flag")
	}
	if err := run(context.Background(), logger, *fixturePath, *thresholdPath); err != nil {
		logger.Fatal("appraise failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, fixturePath, thresholdPath string) error {
	fix, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	refMap, submissions, refs, err := buildInputs(fix)
	if err != nil {
		return err
	}

	submissionSource := storage.NewMemorySubmissionSource()
	for _, submission := range submissions {
		submissionSource.Add(submission)
	}
	catalog := storage.NewMemoryAssessmentCatalog()
	for _, ref := range refs {
		catalog.Add(ref)
	}

	service := application.NewResultService(
		submissionSource,
		storage.NewStaticReferenceMap(refMap),
		storage.NewMemoryResultStore(),
		catalog,
		application.WithLogger(logger),
	)

	ids := make([]uuid.UUID, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	results, err := service.ComputeMissing(ctx, ids)
	if err != nil {
		return err
	}
	logger.Info("aggregation complete",
		zap.Int("assessments", len(ids)),
		zap.Int("results", len(results)))

	var thresholds domain.GradeThresholds
	classify := false
	if thresholdPath != "" {
		table, err := application.LoadThresholdsFromFile(thresholdPath)
		if err != nil {
			return err
		}
		thresholds, classify = table.For(fix.Grade)
		if !classify {
			return fmt.Errorf("grade %q not present in threshold table %s", fix.Grade, thresholdPath)
		}
	}

	core, err := parseIDSet(fix.CoreCriteria)
	if err != nil {
		return fmt.Errorf("parse core criteria: %w", err)
	}

	for _, result := range results {
		for competenceID, summary := range result.Competences {
			fields := []zap.Field{
				zap.String("assessment_id", result.AssessmentID.String()),
				zap.String("competence_id", competenceID.String()),
			}
			if summary == nil {
				logger.Info("competence not evaluated", fields...)
				continue
			}
			fields = append(fields,
				zap.Float64("score", summary.Score),
				zap.Int("scored_criteria", len(summary.Criteria)),
				zap.Strings("comments", summary.Comments))
			if classify {
				standing := domain.ClassifyCompetence(summary, core, thresholds)
				fields = append(fields, zap.String("standing", string(standing)))
			}
			logger.Info("competence summary", fields...)
		}
	}
	return nil
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var fix fixture
	if err := yaml.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &fix, nil
}

// buildInputs resolves the fixture's string ids into domain values.
func buildInputs(fix *fixture) (domain.ReferenceMap, []domain.EvaluationSubmission, []ports.AssessmentRef, error) {
	refMap := make(domain.ReferenceMap, len(fix.ReferenceMap))
	for _, entry := range fix.ReferenceMap {
		competenceID, err := uuid.Parse(entry.Competence)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse competence id %q: %w", entry.Competence, err)
		}
		criteria := make([]uuid.UUID, len(entry.Criteria))
		for i, raw := range entry.Criteria {
			if criteria[i], err = uuid.Parse(raw); err != nil {
				return nil, nil, nil, fmt.Errorf("parse criterion id %q: %w", raw, err)
			}
		}
		refMap[competenceID] = criteria
	}

	refs := make([]ports.AssessmentRef, len(fix.Assessments))
	for i, entry := range fix.Assessments {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse assessment id %q: %w", entry.ID, err)
		}
		evaluateeID, err := uuid.Parse(entry.Evaluatee)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse evaluatee id %q: %w", entry.Evaluatee, err)
		}
		endDate, err := time.Parse("2006-01-02", entry.EndDate)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse end date %q: %w", entry.EndDate, err)
		}
		refs[i] = ports.AssessmentRef{ID: id, EvaluateeID: evaluateeID, EndDate: endDate}
	}

	submissions := make([]domain.EvaluationSubmission, 0, len(fix.Submissions))
	for _, entry := range fix.Submissions {
		assessmentID, err := uuid.Parse(entry.Assessment)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse assessment id %q: %w", entry.Assessment, err)
		}
		evaluatorID, err := uuid.Parse(entry.Evaluator)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse evaluator id %q: %w", entry.Evaluator, err)
		}
		judgments := make([]domain.CompetenceJudgment, 0, len(entry.Judgments))
		for _, judgment := range entry.Judgments {
			competenceID, err := uuid.Parse(judgment.Competence)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("parse competence id %q: %w", judgment.Competence, err)
			}
			criteria := make([]domain.CriterionJudgment, 0, len(judgment.Criteria))
			for _, criterion := range judgment.Criteria {
				criterionID, err := uuid.Parse(criterion.Criterion)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("parse criterion id %q: %w", criterion.Criterion, err)
				}
				if criterion.Score != nil {
					criteria = append(criteria, domain.ScoredCriterion(criterionID, *criterion.Score, criterion.Comment))
				} else {
					criteria = append(criteria, domain.UnscoredCriterion(criterionID, criterion.Comment))
				}
			}
			judgments = append(judgments, domain.JudgedCompetence(competenceID, judgment.Comment, criteria...))
		}
		submissions = append(submissions, domain.EvaluationSubmission{
			AssessmentID: assessmentID,
			EvaluatorID:  evaluatorID,
			RoleWeight:   entry.RoleWeight,
			Judgments:    judgments,
		})
	}

	return refMap, submissions, refs, nil
}

func parseIDSet(raw []string) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, nil
}
