// Package prompt renders the inference prompts from typed inputs. Templates are
// embedded markdown files with {{SLOT}} placeholders.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed templates/*.md
var templates embed.FS

// ErrMissingSlot is returned when a required slot has no value.
var ErrMissingSlot = errors.New("missing prompt slot")

var slotRe = regexp.MustCompile(`\{\{[A-Z_]+\}\}`)

// Template is a prompt text with named slots.
type Template struct {
	name     string
	text     string
	required []string
}

func mustLoad(name string, required ...string) Template {
	data, err := templates.ReadFile("templates/" + name + ".md")
	if err != nil {
		panic(fmt.Sprintf("prompt template %s: %v", name, err))
	}
	return Template{name: name, text: string(data), required: required}
}

func mustText(name string) string {
	return strings.TrimSpace(mustLoad(name).text)
}

// Render substitutes slots into the template. Every required slot must be
// non-blank and every placeholder in the text must be provided. Values are
// inserted as given.
func (t Template) Render(slots map[string]string) (string, error) {
	var missing []string
	for _, name := range t.required {
		if strings.TrimSpace(slots[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s: %s", ErrMissingSlot, t.name, strings.Join(missing, ", "))
	}

	out := slotRe.ReplaceAllStringFunc(t.text, func(placeholder string) string {
		name := strings.Trim(placeholder, "{}")
		value, ok := slots[name]
		if !ok {
			missing = append(missing, name)
			return placeholder
		}
		return value
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: %s: %s", ErrMissingSlot, t.name, strings.Join(missing, ", "))
	}

	return strings.TrimSpace(out), nil
}
