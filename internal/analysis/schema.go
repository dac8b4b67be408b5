package analysis

import "github.com/spigell/cv-tailor/internal/ai"

func stringArray(description string, minItems int) map[string]any {
	s := map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	return s
}

func score(description string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": description,
		"minimum":     0,
		"maximum":     100,
	}
}

// MatchSchema describes one CV match result.
var MatchSchema = ai.Schema{
	Name: "match_result",
	Document: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":            map[string]any{"type": "string", "description": "A summary of the job posting"},
			"score":              score("The confidence score (0-100) for how well the CV matches the job"),
			"required_skills":    stringArray("List of required skills for the job", 1),
			"matched_skills":     stringArray("Required skills the CV demonstrates", 0),
			"missing_skills":     stringArray("Required skills missing from the CV", 0),
			"cv_recommendations": stringArray("Specific suggestions to improve the CV for this job", 1),
		},
		"required": []any{"summary", "score", "required_skills", "matched_skills", "missing_skills", "cv_recommendations"},
	},
}

// ProfileFitSchema describes one profile fit result.
var ProfileFitSchema = ai.Schema{
	Name: "profile_fit",
	Document: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":                       score("Match score (0-100) between the user profile and job"),
			"summary":                     map[string]any{"type": "string", "description": "2-3 line summary of the job"},
			"matched_elements":            stringArray("Elements in the user profile that align with the job requirements", 0),
			"missing_elements":            stringArray("Elements missing from user profile that are important for the job", 0),
			"improvement_recommendations": stringArray("Suggestions to improve user's profile for this role", 1),
		},
		"required": []any{"score", "summary", "matched_elements", "missing_elements", "improvement_recommendations"},
	},
}
