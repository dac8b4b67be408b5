package prompt

import (
	"strconv"
	"strings"

	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/profile"
)

// NotSpecified is rendered for optional values that are absent, including a
// job description the lookup did not return.
const NotSpecified = "not specified"

var (
	matchTemplate      = mustLoad("match", "JOB_TITLE", "CV_TEXT")
	profileFitTemplate = mustLoad("profile_fit", "JOB_TITLE", "PROFILE")
	cvTemplate         = mustLoad("cv", "JOB_TITLE", "PROFILE", "ORIGINAL_CV", "SCORE")

	// MatchSystem is the system instruction for CV match analysis.
	MatchSystem = mustText("match_system")
	// ProfileFitSystem is the system instruction for profile fit analysis.
	ProfileFitSystem = mustText("profile_fit_system")
	// CVSystem is the system instruction for CV generation.
	CVSystem = mustText("cv_system")
)

// Match is the input of the CV match analysis prompt.
type Match struct {
	Job jobs.Record
	CV  string
}

// ProfileFit is the input of the profile fit prompt.
type ProfileFit struct {
	Job     jobs.Record
	Profile *profile.Profile
}

// Generation is the input of the CV generation prompt.
type Generation struct {
	Job        jobs.Record
	Profile    *profile.Profile
	OriginalCV string

	Score           int
	Summary         string
	RequiredSkills  []string
	MatchedSkills   []string
	MissingSkills   []string
	Recommendations []string
}

func BuildMatch(in Match) (string, error) {
	slots := jobSlots(in.Job)
	slots["CV_TEXT"] = in.CV
	return matchTemplate.Render(slots)
}

func BuildProfileFit(in ProfileFit) (string, error) {
	slots := jobSlots(in.Job)
	slots["PROFILE"] = ProfileText(in.Profile)
	return profileFitTemplate.Render(slots)
}

func BuildGeneration(in Generation) (string, error) {
	slots := jobSlots(in.Job)
	slots["PROFILE"] = ProfileText(in.Profile)
	slots["ORIGINAL_CV"] = in.OriginalCV
	slots["SCORE"] = strconv.Itoa(in.Score)
	slots["SUMMARY"] = orNotSpecified(in.Summary)
	slots["REQUIRED_SKILLS"] = bullets(in.RequiredSkills)
	slots["MATCHED_SKILLS"] = bullets(in.MatchedSkills)
	slots["MISSING_SKILLS"] = bullets(in.MissingSkills)
	slots["RECOMMENDATIONS"] = bullets(in.Recommendations)
	return cvTemplate.Render(slots)
}

// ProfileText renders the profile as labelled lines. A nil profile renders empty.
func ProfileText(p *profile.Profile) string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(orNotSpecified(value))
		b.WriteString("\n")
	}

	line("Name", p.Name)
	if strings.TrimSpace(p.Contact) != "" {
		line("Contact", p.Contact)
	}
	line("University", p.University)
	line("Degree", p.Degree)
	line("Courses", p.Courses)
	line("Skills", p.Skills)
	b.WriteString("Experience:\n")
	b.WriteString(bullets(p.Experience))
	b.WriteString("\nProjects:\n")
	b.WriteString(bullets(p.Projects))

	return b.String()
}

func jobSlots(job jobs.Record) map[string]string {
	return map[string]string{
		"JOB_TITLE":   job.Title,
		"COMPANY":     orNotSpecified(job.Company),
		"LOCATION":    orNotSpecified(job.Location),
		"DESCRIPTION": orNotSpecified(job.Description),
	}
}

func bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	if b.Len() == 0 {
		return "- none"
	}
	return b.String()
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotSpecified
	}
	return strings.TrimSpace(v)
}
