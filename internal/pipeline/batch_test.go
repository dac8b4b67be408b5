package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-tailor/internal/analysis"
	"github.com/spigell/cv-tailor/internal/jobs"
)

func TestAnalyzeJobsKeepsInputOrder(t *testing.T) {
	remote := &fakeLookup{records: map[string][]jobs.Record{
		"A": {{Title: "Go Engineer", Description: "Go"}},
		"C": {{Title: "SRE", Description: "Kubernetes"}},
		"D": {{Title: "Platform Engineer", Description: "Terraform"}},
	}}
	cache := jobs.NewCache(filepath.Join(t.TempDir(), "cache"), remote, nil)
	inferrer := &scriptedInferrer{answers: map[string]string{analysis.MatchSchema.Name: matchAnswer}}

	ids := []string{"A", "B", "C", "D"}
	results := AnalyzeJobs(context.Background(), cache, analysis.NewAnalyzer(inferrer, nil), ids, "Go developer", 3)

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}

	for i, res := range results {
		if res.JobID != ids[i] {
			t.Fatalf("result %d: expected job %s, got %s", i, ids[i], res.JobID)
		}
		if res.JobID == "B" {
			if res.Failure == nil || res.Failure.Reason != ReasonJobNotFound {
				t.Fatalf("expected job not found for B, got %+v", res.Failure)
			}
			if res.Suggestions != nil {
				t.Fatal("expected no suggestions for B")
			}
			continue
		}
		if res.Failure != nil {
			t.Fatalf("unexpected failure for %s: %v", res.JobID, res.Failure)
		}
		if res.Suggestions == nil || res.Job == nil {
			t.Fatalf("expected job and suggestions for %s", res.JobID)
		}
	}

	if got := len(inferrer.requests); got != 3 {
		t.Fatalf("expected three analyses, got %d", got)
	}
}

func TestAnalyzeJobsWithoutCV(t *testing.T) {
	remote := &fakeLookup{}
	cache := jobs.NewCache(t.TempDir(), remote, nil)

	results := AnalyzeJobs(context.Background(), cache, analysis.NewAnalyzer(&scriptedInferrer{}, nil), []string{"A"}, "", 0)

	if len(results) != 1 || results[0].Failure == nil || results[0].Failure.Reason != ReasonInputMissing {
		t.Fatalf("expected input missing, got %+v", results)
	}
	if remote.calls != 0 {
		t.Fatal("expected no lookup without cv")
	}
}

func TestBatchRunsLookupAndAnalysisOnly(t *testing.T) {
	remote := &fakeLookup{records: map[string][]jobs.Record{"A": {{Title: "Go Engineer", Description: "Go"}}}}
	cache := jobs.NewCache(t.TempDir(), remote, nil)
	inferrer := &scriptedInferrer{answers: map[string]string{analysis.MatchSchema.Name: matchAnswer}}

	core, logs := observer.New(zapcore.InfoLevel)
	batch := NewBatch(cache, analysis.NewAnalyzer(inferrer, nil), WithLogger(zap.New(core)), WithWorkers(0))

	names := make([]string, 0, len(batch.stages))
	for _, stage := range batch.stages {
		names = append(names, stage.Name())
	}
	if len(names) != 2 || names[0] != "job_lookup" || names[1] != "match_analysis" {
		t.Fatalf("unexpected batch stages: %v", names)
	}
	if batch.workers != 1 {
		t.Fatalf("expected workers to default to 1, got %d", batch.workers)
	}

	results := batch.Run(context.Background(), []string{"A"}, "Go developer")
	if results[0].Failure != nil || results[0].Suggestions == nil {
		t.Fatalf("unexpected result: %+v", results[0])
	}

	for _, req := range inferrer.requests {
		if req.Schema.Name != analysis.MatchSchema.Name {
			t.Fatalf("unexpected inference request %s", req.Schema.Name)
		}
	}

	if logs.FilterMessage("batch analysis completed").Len() != 1 {
		t.Fatal("expected batch completion to be logged")
	}
}
