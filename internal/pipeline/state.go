package pipeline

import (
	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

// Phase is the furthest point a run has reached.
type Phase string

const (
	PhaseStart     Phase = "start"
	PhaseJobLoaded Phase = "job_loaded"
	PhaseAnalyzed  Phase = "analyzed"
	PhaseGenerated Phase = "generated"
	PhaseFailed    Phase = "failed"
)

// Input is what the caller provides for a single run.
type Input struct {
	JobID      string
	OriginalCV string
	// CVText is the text compared with the job. OriginalCV is used when empty.
	CVText string
}

// State is the record threaded through the stages of one run. Each field is
// written once by the stage responsible for it and kept after a failure.
type State struct {
	RunID string
	JobID string

	Profile    *profile.Profile
	OriginalCV string
	CVText     string

	Job         *jobs.Record
	Suggestions *analysis.Suggestions
	FinalCV     string

	Phase   Phase
	Failure *Failure
}

func (s *State) fail(f *Failure) {
	f.Phase = s.Phase
	s.Failure = f
	s.Phase = PhaseFailed
}
