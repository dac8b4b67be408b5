package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders the suggestions the way the CLI prints them.
func (s *Suggestions) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Job Summary\n%s\n\n", s.Summary)
	fmt.Fprintf(&b, "### Confidence Score: **%d** / 100\n\n", s.Score)
	section(&b, "Required Skills", s.RequiredSkills)
	section(&b, "Matched Skills", s.MatchedSkills)
	section(&b, "Missing Skills", s.MissingSkills)
	section(&b, "CV Recommendations", s.CVRecommendations)
	return strings.TrimSpace(b.String())
}

// Markdown renders the profile fit the way the CLI prints it.
func (f *ProfileFit) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Job Summary\n%s\n\n", f.Summary)
	fmt.Fprintf(&b, "### Profile Match Score: **%d** / 100\n\n", f.Score)
	section(&b, "Matched Elements", f.MatchedElements)
	section(&b, "Missing Elements", f.MissingElements)
	section(&b, "Recommendations", f.ImprovementRecommendations)
	return strings.TrimSpace(b.String())
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "### %s:\n", title)
	if len(items) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
