// Package pipeline sequences job lookup, match analysis and CV generation for
// a single run and keeps the state each stage produced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/profile"
)

// Orchestrator runs the stages in order. It holds no state between runs.
type Orchestrator struct {
	profiles profile.Repository
	stages   []Stage
	logger   *zap.Logger
}

type options struct {
	workers int
	logger  *zap.Logger
}

// Option customises an Orchestrator or a Batch.
type Option func(*options)

// WithLogger sets the logger used for phase transitions.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds the number of concurrent runs of a Batch.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func newOptions(opts []Option) options {
	o := options{workers: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// New returns an orchestrator running lookup, match analysis and CV generation
// for the profile stored in profiles.
func New(profiles profile.Repository, resolver Resolver, analyzer MatchAnalyzer, generator CVGenerator, opts ...Option) *Orchestrator {
	o := newOptions(opts)
	return &Orchestrator{
		profiles: profiles,
		stages: []Stage{
			NewLookup(resolver),
			NewAnalysis(analyzer),
			NewGeneration(generator),
		},
		logger: o.logger,
	}
}

// Run executes a full run. The returned state is never nil; on failure it is
// in PhaseFailed and the error is the same *Failure stored in the state.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*State, error) {
	state := newState(in)
	log := logger.WithRun(o.logger, state.RunID, state.JobID)
	log.Info("pipeline started")

	if err := o.loadProfile(ctx, state); err != nil {
		state.fail(&Failure{Reason: classify(err, ReasonProfileMissing), Err: err})
		logFailure(log, state)
		return state, state.Failure
	}

	if strings.TrimSpace(state.CVText) == "" {
		state.fail(&Failure{Reason: ReasonInputMissing, Err: fmt.Errorf("%w: cv text", ErrInputMissing)})
		logFailure(log, state)
		return state, state.Failure
	}

	if err := runStages(ctx, log, o.stages, state); err != nil {
		return state, err
	}

	log.Info("pipeline finished", zap.Int("cv_length", len(state.FinalCV)))
	return state, nil
}

func (o *Orchestrator) loadProfile(ctx context.Context, state *State) error {
	if o.profiles == nil {
		return profile.ErrMissing
	}
	p, err := o.profiles.Load(ctx)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return errors.Join(profile.ErrMissing, err)
	}
	state.Profile = p
	return nil
}

func newState(in Input) *State {
	cvText := in.CVText
	if strings.TrimSpace(cvText) == "" {
		cvText = in.OriginalCV
	}
	return &State{
		RunID:      uuid.NewString(),
		JobID:      strings.TrimSpace(in.JobID),
		OriginalCV: in.OriginalCV,
		CVText:     cvText,
		Phase:      PhaseStart,
	}
}

// runStages applies stages sequentially and stops at the first failure.
func runStages(ctx context.Context, log *zap.Logger, stages []Stage, state *State) error {
	for _, stage := range stages {
		if err := stage.Requires(state); err != nil {
			state.fail(&Failure{Reason: ReasonInputMissing, Err: err})
			logFailure(log.With(zap.String("stage", stage.Name())), state)
			return state.Failure
		}

		if err := stage.Apply(ctx, state); err != nil {
			state.fail(&Failure{Reason: classify(err, stage.Reason()), Err: err})
			logFailure(log.With(zap.String("stage", stage.Name())), state)
			return state.Failure
		}

		state.Phase = stage.Reached()
		log.Info("pipeline phase reached",
			zap.String("stage", stage.Name()),
			zap.String(logger.FieldPhase, string(state.Phase)),
		)
	}
	return nil
}

func logFailure(log *zap.Logger, state *State) {
	log.Warn("pipeline failed",
		zap.String(logger.FieldPhase, string(state.Failure.Phase)),
		zap.String("reason", string(state.Failure.Reason)),
		zap.Error(state.Failure.Err),
	)
}
