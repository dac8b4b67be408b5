// Package generation produces the tailored CV text from the profile, the
// original CV and the match analysis.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
	"github.com/spigell/cv-tailor/internal/prompt"
)

// CVSchema describes the single generated CV object.
var CVSchema = ai.Schema{
	Name: "generated_cv",
	Document: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cv": map[string]any{
				"type":        "string",
				"description": "The complete tailored CV as plain text",
			},
		},
		"required": []any{"cv"},
	},
}

type result struct {
	CV string `json:"cv"`
}

// Generator is the CV generation stage on top of an inference capability.
type Generator struct {
	inferrer ai.Inferrer
	logger   *zap.Logger
}

// NewGenerator returns a Generator; a nil logger disables logging.
func NewGenerator(inferrer ai.Inferrer, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{inferrer: inferrer, logger: logger}
}

// Generate asks for a tailored CV and returns its text exactly as produced.
func (g *Generator) Generate(ctx context.Context, p *profile.Profile, job jobs.Record, originalCV string, s *analysis.Suggestions) (string, error) {
	if s == nil {
		return "", errors.New("match suggestions are required")
	}

	text, err := prompt.BuildGeneration(prompt.Generation{
		Job:             job,
		Profile:         p,
		OriginalCV:      originalCV,
		Score:           s.Score,
		Summary:         s.Summary,
		RequiredSkills:  s.RequiredSkills,
		MatchedSkills:   s.MatchedSkills,
		MissingSkills:   s.MissingSkills,
		Recommendations: s.CVRecommendations,
	})
	if err != nil {
		return "", fmt.Errorf("build cv prompt: %w", err)
	}

	items, err := g.inferrer.Infer(ctx, ai.Request{
		System: prompt.CVSystem,
		Prompt: text,
		Schema: CVSchema,
	})
	if err != nil {
		return "", err
	}

	out, err := ai.DecodeFirst[result](items)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(out.CV) == "" {
		return "", fmt.Errorf("%w: generated cv is empty", ai.ErrInference)
	}

	g.logger.Info("cv generated", zap.String("job_title", job.Title), zap.Int("length", len(out.CV)))

	return out.CV, nil
}
