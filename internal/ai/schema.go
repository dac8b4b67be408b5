package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a named JSON schema document describing one result instance.
type Schema struct {
	Name     string
	Document map[string]any
}

// ListOf returns a schema for a non-empty array of s instances.
func (s Schema) ListOf() Schema {
	return Schema{
		Name: s.Name + "_list",
		Document: map[string]any{
			"type":     "array",
			"items":    s.Document,
			"minItems": 1,
		},
	}
}

// Validate checks a single JSON instance against the schema.
func (s Schema) Validate(instance json.RawMessage) error {
	if s.Document == nil {
		return nil
	}

	res, err := gojsonschema.Validate(gojsonschema.NewGoLoader(s.Document), gojsonschema.NewBytesLoader(instance))
	if err != nil {
		return fmt.Errorf("validate %s: %w", s.Name, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%s does not match schema: %s", s.Name, strings.Join(msgs, "; "))
}
