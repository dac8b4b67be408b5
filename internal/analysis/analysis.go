package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
	"github.com/spigell/cv-tailor/internal/prompt"
	"github.com/spigell/cv-tailor/internal/utils"
)

// Suggestions is the canonical result of comparing a CV with a job posting.
type Suggestions struct {
	Summary           string   `json:"summary"`
	Score             int      `json:"score"`
	RequiredSkills    []string `json:"required_skills"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	CVRecommendations []string `json:"cv_recommendations"`
}

// ProfileFit is the result of comparing the structured profile with a job posting.
type ProfileFit struct {
	Score                      int      `json:"score"`
	Summary                    string   `json:"summary"`
	MatchedElements            []string `json:"matched_elements"`
	MissingElements            []string `json:"missing_elements"`
	ImprovementRecommendations []string `json:"improvement_recommendations"`
}

// Analyzer runs the match analyses through the inference capability.
type Analyzer struct {
	inferrer ai.Inferrer
	logger   *zap.Logger
}

// NewAnalyzer returns an Analyzer; a nil logger disables logging.
func NewAnalyzer(inferrer ai.Inferrer, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{inferrer: inferrer, logger: logger}
}

// Analyze compares cv with job. The first returned match result is used; errors
// of the inference capability are returned as they are, without retry.
func (a *Analyzer) Analyze(ctx context.Context, job jobs.Record, cv string) (*Suggestions, error) {
	text, err := prompt.BuildMatch(prompt.Match{Job: job, CV: cv})
	if err != nil {
		return nil, fmt.Errorf("build match prompt: %w", err)
	}

	items, err := a.inferrer.Infer(ctx, ai.Request{
		System: prompt.MatchSystem,
		Prompt: text,
		Schema: MatchSchema,
		List:   true,
	})
	if err != nil {
		return nil, err
	}

	if len(items) > 1 {
		a.logger.Debug("ignoring extra match results", zap.Int("results", len(items)))
	}

	suggestions, err := ai.DecodeFirst[Suggestions](items)
	if err != nil {
		return nil, err
	}

	suggestions.normalize()
	if err := suggestions.validate(); err != nil {
		return nil, err
	}

	a.logger.Info("cv analyzed",
		zap.String("job_title", job.Title),
		zap.Int("score", suggestions.Score),
		zap.Int("missing_skills", len(suggestions.MissingSkills)),
	)

	return suggestions, nil
}

// AnalyzeProfile compares the structured profile with job.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, job jobs.Record, p *profile.Profile) (*ProfileFit, error) {
	text, err := prompt.BuildProfileFit(prompt.ProfileFit{Job: job, Profile: p})
	if err != nil {
		return nil, fmt.Errorf("build profile fit prompt: %w", err)
	}

	items, err := a.inferrer.Infer(ctx, ai.Request{
		System: prompt.ProfileFitSystem,
		Prompt: text,
		Schema: ProfileFitSchema,
		List:   true,
	})
	if err != nil {
		return nil, err
	}

	fit, err := ai.DecodeFirst[ProfileFit](items)
	if err != nil {
		return nil, err
	}

	fit.MatchedElements = utils.NonEmpty(fit.MatchedElements)
	fit.MissingElements = utils.NonEmpty(fit.MissingElements)
	fit.ImprovementRecommendations = utils.NonEmpty(fit.ImprovementRecommendations)
	fit.Summary = strings.TrimSpace(fit.Summary)

	if fit.Score < 0 || fit.Score > 100 {
		return nil, fmt.Errorf("%w: profile fit score %d is out of range", ai.ErrInference, fit.Score)
	}

	return fit, nil
}

// normalize trims list entries and makes sure every matched or missing skill is
// also listed as required.
func (s *Suggestions) normalize() {
	s.Summary = strings.TrimSpace(s.Summary)
	s.RequiredSkills = utils.NonEmpty(s.RequiredSkills)
	s.MatchedSkills = utils.NonEmpty(s.MatchedSkills)
	s.MissingSkills = utils.NonEmpty(s.MissingSkills)
	s.CVRecommendations = utils.NonEmpty(s.CVRecommendations)

	s.RequiredSkills = utils.AppendMissing(s.RequiredSkills, s.MatchedSkills...)
	s.RequiredSkills = utils.AppendMissing(s.RequiredSkills, s.MissingSkills...)
}

// validate rejects results that are unusable for the generation stage.
func (s *Suggestions) validate() error {
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("%w: match score %d is out of range", ai.ErrInference, s.Score)
	}
	if len(s.RequiredSkills) == 0 {
		return fmt.Errorf("%w: match result has no required skills", ai.ErrInference)
	}
	if len(s.CVRecommendations) == 0 {
		return fmt.Errorf("%w: match result has no cv recommendations", ai.ErrInference)
	}
	return nil
}
