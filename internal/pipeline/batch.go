package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
)

// JobAnalysis is the outcome of analysing one job of a batch. Exactly one of
// Suggestions and Failure is set.
type JobAnalysis struct {
	JobID       string
	Job         *jobs.Record
	Suggestions *analysis.Suggestions
	Failure     *Failure
}

// Batch runs the lookup and analysis stages for several jobs against one CV.
type Batch struct {
	stages  []Stage
	workers int
	logger  *zap.Logger
}

// NewBatch returns a batch runner. Generation is never part of a batch.
func NewBatch(resolver Resolver, analyzer MatchAnalyzer, opts ...Option) *Batch {
	o := newOptions(opts)
	return &Batch{
		stages:  []Stage{NewLookup(resolver), NewAnalysis(analyzer)},
		workers: o.workers,
		logger:  o.logger,
	}
}

// AnalyzeJobs resolves and analyses every id against cv with at most workers
// runs in flight. Results keep the order of ids.
func AnalyzeJobs(ctx context.Context, resolver Resolver, analyzer MatchAnalyzer, ids []string, cv string, workers int) []JobAnalysis {
	return NewBatch(resolver, analyzer, WithWorkers(workers)).Run(ctx, ids, cv)
}

// Run analyses every id. A failing job does not stop the others.
func (b *Batch) Run(ctx context.Context, ids []string, cv string) []JobAnalysis {
	results := make([]JobAnalysis, len(ids))

	var g errgroup.Group
	g.SetLimit(b.workers)

	for i, id := range ids {
		g.Go(func() error {
			state := newState(Input{JobID: id, CVText: cv})
			runLog := logger.WithRun(b.logger, state.RunID, state.JobID)

			if strings.TrimSpace(state.CVText) == "" {
				state.fail(&Failure{Reason: ReasonInputMissing, Err: fmt.Errorf("%w: cv text", ErrInputMissing)})
				logFailure(runLog, state)
			} else {
				_ = runStages(ctx, runLog, b.stages, state)
			}

			results[i] = JobAnalysis{
				JobID:       state.JobID,
				Job:         state.Job,
				Suggestions: state.Suggestions,
				Failure:     state.Failure,
			}
			return nil
		})
	}

	_ = g.Wait()

	b.logger.Info("batch analysis completed", zap.Int("jobs", len(ids)), zap.Int("workers", b.workers))

	return results
}
