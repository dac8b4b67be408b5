package gemini

import (
	"sort"

	"google.golang.org/genai"
)

// toGenaiSchema converts the subset of JSON schema used by the stages into the
// Gemini response schema.
func toGenaiSchema(doc map[string]any) *genai.Schema {
	if doc == nil {
		return nil
	}

	s := &genai.Schema{}

	switch t, _ := doc["type"].(string); t {
	case "object":
		s.Type = genai.TypeObject
	case "array":
		s.Type = genai.TypeArray
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	}

	if d, ok := doc["description"].(string); ok {
		s.Description = d
	}

	if v, ok := number(doc["minimum"]); ok {
		s.Minimum = &v
	}
	if v, ok := number(doc["maximum"]); ok {
		s.Maximum = &v
	}
	if v, ok := number(doc["minItems"]); ok {
		n := int64(v)
		s.MinItems = &n
	}

	if items, ok := doc["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}

	s.Required = stringList(doc["required"])

	if props, ok := doc["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		keys := make([]string, 0, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(prop)
				keys = append(keys, name)
			}
		}
		sort.Strings(keys)
		s.PropertyOrdering = orderedKeys(s.Required, keys)
	}

	return s
}

// orderedKeys lists required properties first in their declared order,
// followed by the remaining keys.
func orderedKeys(required, keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range required {
		if present[k] && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for _, k := range keys {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
