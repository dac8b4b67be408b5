package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

// Resolver resolves a job identifier; found is false for unknown identifiers.
type Resolver interface {
	Resolve(ctx context.Context, id string) (jobs.Record, bool, error)
}

type MatchAnalyzer interface {
	Analyze(ctx context.Context, job jobs.Record, cv string) (*analysis.Suggestions, error)
}

type CVGenerator interface {
	Generate(ctx context.Context, p *profile.Profile, job jobs.Record, originalCV string, s *analysis.Suggestions) (string, error)
}

// Stage is one step of a run.
type Stage interface {
	Name() string
	// Requires reports an error wrapping ErrInputMissing when the state lacks
	// the fields the stage reads.
	Requires(s *State) error
	Apply(ctx context.Context, s *State) error
	// Reached is the phase the state moves to after Apply succeeds.
	Reached() Phase
	// Reason is used for failures that carry no more specific classification.
	Reason() Reason
}

type lookupStage struct {
	resolver Resolver
}

// NewLookup creates the stage that loads the job record.
func NewLookup(r Resolver) Stage { return &lookupStage{resolver: r} }

func (st *lookupStage) Name() string   { return "job_lookup" }
func (st *lookupStage) Reached() Phase { return PhaseJobLoaded }
func (st *lookupStage) Reason() Reason { return ReasonRemoteLookupFailed }

func (st *lookupStage) Requires(s *State) error {
	if strings.TrimSpace(s.JobID) == "" {
		return fmt.Errorf("%w: job id", ErrInputMissing)
	}
	return nil
}

func (st *lookupStage) Apply(ctx context.Context, s *State) error {
	record, found, err := st.resolver.Resolve(ctx, s.JobID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrJobNotFound, s.JobID)
	}
	s.Job = &record
	return nil
}

type analysisStage struct {
	analyzer MatchAnalyzer
}

// NewAnalysis creates the stage that compares the CV text with the job.
func NewAnalysis(a MatchAnalyzer) Stage { return &analysisStage{analyzer: a} }

func (st *analysisStage) Name() string   { return "match_analysis" }
func (st *analysisStage) Reached() Phase { return PhaseAnalyzed }
func (st *analysisStage) Reason() Reason { return ReasonAnalysisFailed }

func (st *analysisStage) Requires(s *State) error {
	switch {
	case s.Job == nil:
		return fmt.Errorf("%w: job record", ErrInputMissing)
	case strings.TrimSpace(s.CVText) == "":
		return fmt.Errorf("%w: cv text", ErrInputMissing)
	}
	return nil
}

func (st *analysisStage) Apply(ctx context.Context, s *State) error {
	suggestions, err := st.analyzer.Analyze(ctx, *s.Job, s.CVText)
	if err != nil {
		return err
	}
	s.Suggestions = suggestions
	return nil
}

type generationStage struct {
	generator CVGenerator
}

// NewGeneration creates the stage that writes the tailored CV.
func NewGeneration(g CVGenerator) Stage { return &generationStage{generator: g} }

func (st *generationStage) Name() string   { return "cv_generation" }
func (st *generationStage) Reached() Phase { return PhaseGenerated }
func (st *generationStage) Reason() Reason { return ReasonGenerationFailed }

func (st *generationStage) Requires(s *State) error {
	switch {
	case s.Profile == nil:
		return fmt.Errorf("%w: profile", ErrInputMissing)
	case s.Job == nil:
		return fmt.Errorf("%w: job record", ErrInputMissing)
	case s.Suggestions == nil:
		return fmt.Errorf("%w: suggestions", ErrInputMissing)
	case strings.TrimSpace(s.OriginalCV) == "":
		return fmt.Errorf("%w: original cv", ErrInputMissing)
	}
	return nil
}

func (st *generationStage) Apply(ctx context.Context, s *State) error {
	cv, err := st.generator.Generate(ctx, s.Profile, *s.Job, s.OriginalCV, s.Suggestions)
	if err != nil {
		return err
	}
	s.FinalCV = cv
	return nil
}
