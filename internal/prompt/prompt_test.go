package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

var backendJob = jobs.Record{
	Title:       "Backend Engineer",
	Company:     "Acme",
	Location:    "Berlin",
	Description: "Build Go services on Kubernetes.",
}

func TestBuildMatch(t *testing.T) {
	cv := "- 2 years experience with Python\n- {{NOT_A_SLOT}} stays verbatim"

	got, err := BuildMatch(Match{Job: backendJob, CV: cv})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Job Title: Backend Engineer",
		"Company: Acme",
		"Location: Berlin",
		"Build Go services on Kubernetes.",
		cv,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, got)
		}
	}

	again, _ := BuildMatch(Match{Job: backendJob, CV: cv})
	if again != got {
		t.Fatal("expected deterministic rendering")
	}
}

func TestBuildMatchLocationPlaceholder(t *testing.T) {
	job := backendJob
	job.Location = ""

	got, err := BuildMatch(Match{Job: job, CV: "Go developer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "Location: "+NotSpecified) {
		t.Fatalf("expected location placeholder, got:\n%s", got)
	}
}

func TestBuildMatchMissingSlots(t *testing.T) {
	_, err := BuildMatch(Match{Job: jobs.Record{Description: "Run the platform."}, CV: "  "})
	if !errors.Is(err, ErrMissingSlot) {
		t.Fatalf("expected ErrMissingSlot, got %v", err)
	}

	for _, slot := range []string{"JOB_TITLE", "CV_TEXT"} {
		if !strings.Contains(err.Error(), slot) {
			t.Fatalf("expected %s in error, got %v", slot, err)
		}
	}
}

func TestBuildPromptsWithoutDescription(t *testing.T) {
	job := jobs.Record{Title: "Backend Engineer", Company: "Acme"}
	p := &profile.Profile{Name: "Ada Lovelace"}

	match, err := BuildMatch(Match{Job: job, CV: "Go developer"})
	if err != nil {
		t.Fatalf("match prompt: %v", err)
	}

	fit, err := BuildProfileFit(ProfileFit{Job: job, Profile: p})
	if err != nil {
		t.Fatalf("profile fit prompt: %v", err)
	}

	cv, err := BuildGeneration(Generation{Job: job, Profile: p, OriginalCV: "Go developer", Score: 50})
	if err != nil {
		t.Fatalf("cv prompt: %v", err)
	}

	for name, got := range map[string]string{"match": match, "profile_fit": fit, "cv": cv} {
		if !strings.Contains(got, "Description:\n"+NotSpecified) {
			t.Fatalf("%s: expected description placeholder, got:\n%s", name, got)
		}
	}
}

func TestBuildMatchEmbedsCVVerbatim(t *testing.T) {
	cv := "  Ada Lovelace\n    - Go, 2 years  \n\n"

	got, err := BuildMatch(Match{Job: backendJob, CV: cv})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "=== User CV ===\n"+cv+"\n\nReturn") {
		t.Fatalf("expected cv embedded unchanged, got:\n%q", got)
	}
}

func TestBuildGenerationListsMissingSkills(t *testing.T) {
	p := &profile.Profile{
		Name:       "Ada Lovelace",
		Skills:     "Go, Docker",
		Experience: []string{"Backend intern at Initech"},
		Projects:   []string{"Kubernetes operator for backups"},
	}

	got, err := BuildGeneration(Generation{
		Job:             backendJob,
		Profile:         p,
		OriginalCV:      "Ada Lovelace - Go developer",
		Score:           72,
		Summary:         "Backend role",
		RequiredSkills:  []string{"Go", "Kubernetes", "gRPC"},
		MatchedSkills:   []string{"Go"},
		MissingSkills:   []string{"Kubernetes", "gRPC"},
		Recommendations: []string{"Mention the operator project"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"- Kubernetes",
		"- gRPC",
		"Match score: 72/100",
		"Ada Lovelace - Go developer",
		"- Kubernetes operator for backups",
		"- Mention the operator project",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, got)
		}
	}

	order := []string{"1. Name and contact", "2. Summary", "3. Education", "4. Skills", "5. Projects", "6. Experience"}
	last := -1
	for _, section := range order {
		idx := strings.Index(got, section)
		if idx <= last {
			t.Fatalf("expected %q after previous section", section)
		}
		last = idx
	}
}

func TestBuildGenerationRequiresProfile(t *testing.T) {
	_, err := BuildGeneration(Generation{Job: backendJob, OriginalCV: "cv"})
	if !errors.Is(err, ErrMissingSlot) || !strings.Contains(err.Error(), "PROFILE") {
		t.Fatalf("expected missing PROFILE slot, got %v", err)
	}
}

func TestProfileText(t *testing.T) {
	got := ProfileText(&profile.Profile{Name: "Ada", Projects: []string{"Engine", " "}})

	for _, want := range []string{"Name: Ada", "University: " + NotSpecified, "Experience:\n- none", "Projects:\n- Engine"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in profile text, got:\n%s", want, got)
		}
	}

	if strings.Contains(got, "Contact:") {
		t.Fatal("did not expect empty contact line")
	}
}

func TestTemplateRenderUnknownPlaceholder(t *testing.T) {
	tmpl := Template{name: "inline", text: "Hello {{NAME}} from {{PLACE}}"}

	_, err := tmpl.Render(map[string]string{"NAME": "Ada"})
	if !errors.Is(err, ErrMissingSlot) || !strings.Contains(err.Error(), "PLACE") {
		t.Fatalf("expected missing PLACE slot, got %v", err)
	}
}
