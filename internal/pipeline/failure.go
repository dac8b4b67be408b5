package pipeline

import (
	"errors"
	"fmt"

	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

var (
	// ErrInputMissing is returned when a stage runs without the data it needs.
	ErrInputMissing = errors.New("required input is missing")
	// ErrJobNotFound is returned when the job identifier is unknown to the lookup.
	ErrJobNotFound = errors.New("job not found")
)

// Reason classifies why a run stopped.
type Reason string

const (
	ReasonJobNotFound        Reason = "job_not_found"
	ReasonRemoteLookupFailed Reason = "remote_lookup_failed"
	ReasonProfileMissing     Reason = "profile_missing"
	ReasonInputMissing       Reason = "input_missing"
	ReasonAnalysisFailed     Reason = "analysis_failed"
	ReasonGenerationFailed   Reason = "generation_failed"
)

// Failure is the terminal error of a run. Phase is the last phase reached
// before the failure.
type Failure struct {
	Reason Reason
	Phase  Phase
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s after %s: %v", f.Reason, f.Phase, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// ReasonOf returns the failure reason carried by err, or an empty reason.
func ReasonOf(err error) Reason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}

func classify(err error, fallback Reason) Reason {
	switch {
	case errors.Is(err, ErrInputMissing):
		return ReasonInputMissing
	case errors.Is(err, profile.ErrMissing):
		return ReasonProfileMissing
	case errors.Is(err, ErrJobNotFound):
		return ReasonJobNotFound
	case errors.Is(err, jobs.ErrLookupFailed):
		return ReasonRemoteLookupFailed
	default:
		return fallback
	}
}
