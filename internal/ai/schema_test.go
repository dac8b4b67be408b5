package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

var testSchema = Schema{
	Name: "match_result",
	Document: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":           map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"required_skills": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1},
		},
		"required": []any{"score", "required_skills"},
	},
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "valid", payload: `{"score": 72, "required_skills": ["Go"]}`},
		{name: "score out of range", payload: `{"score": 140, "required_skills": ["Go"]}`, wantErr: "score"},
		{name: "empty skills", payload: `{"score": 10, "required_skills": []}`, wantErr: "required_skills"},
		{name: "missing field", payload: `{"required_skills": ["Go"]}`, wantErr: "score"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := testSchema.Validate(json.RawMessage(tc.payload))
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSchemaListOf(t *testing.T) {
	list := testSchema.ListOf()

	if err := list.Validate(json.RawMessage(`[{"score": 1, "required_skills": ["Go"]}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := list.Validate(json.RawMessage(`[]`)); err == nil {
		t.Fatal("expected empty list to be rejected")
	}
}

func TestDecodeFirst(t *testing.T) {
	type result struct {
		Score int `json:"score"`
	}

	got, err := DecodeFirst[result]([]json.RawMessage{
		json.RawMessage(`{"score": 72}`),
		json.RawMessage(`{"score": 10}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 72 {
		t.Fatalf("expected first element, got %d", got.Score)
	}

	if _, err := DecodeFirst[result](nil); !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}
