package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/cv-tailor/internal/ai"
)

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

var cvSchema = ai.Schema{
	Name: "generated_cv",
	Document: map[string]any{
		"type":       "object",
		"properties": map[string]any{"cv": map[string]any{"type": "string", "description": "tailored CV"}},
		"required":   []any{"cv"},
	},
}

func TestGeneratorInferSingleObject(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"cv": "Ada Lovelace\nSummary"}`)}
	g := newGenerator(models, "gemini-pro", 0, zap.NewNop())

	items, err := g.Infer(context.Background(), ai.Request{
		System: "You are a professional resume writer.",
		Prompt: "generate",
		Schema: cvSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected single instance, got %d", len(items))
	}

	var out struct{ CV string }
	if err := json.Unmarshal(items[0], &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.CV != "Ada Lovelace\nSummary" {
		t.Fatalf("unexpected cv: %q", out.CV)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", call.model)
	}
	if call.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json mime type, got %q", call.config.ResponseMIMEType)
	}
	if call.config.ResponseSchema == nil || call.config.ResponseSchema.Type != genai.TypeObject {
		t.Fatalf("expected object response schema, got %+v", call.config.ResponseSchema)
	}
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != "You are a professional resume writer." {
		t.Fatalf("expected system instruction to be set")
	}
	if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "generate" {
		t.Fatalf("unexpected contents: %+v", call.contents)
	}
}

func TestGeneratorInferListRequestsArraySchema(t *testing.T) {
	models := &fakeModels{resp: textResponse("```json\n[{\"cv\": \"first\"}, {\"cv\": \"second\"}]\n```")}
	g := newGenerator(models, "", 0, nil)

	items, err := g.Infer(context.Background(), ai.Request{Prompt: "p", Schema: cvSchema, List: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(items))
	}

	call := models.calls[0]
	if call.model != defaultModel || g.Model() != defaultModel {
		t.Fatalf("expected default model, got %s (generator reports %s)", call.model, g.Model())
	}
	schema := call.config.ResponseSchema
	if schema.Type != genai.TypeArray || schema.Items == nil || schema.Items.Type != genai.TypeObject {
		t.Fatalf("expected array of objects schema, got %+v", schema)
	}
	if schema.MinItems == nil || *schema.MinItems != 1 {
		t.Fatalf("expected minItems 1, got %v", schema.MinItems)
	}
	if call.config.SystemInstruction != nil {
		t.Fatal("did not expect system instruction")
	}
}

func TestGeneratorInferErrors(t *testing.T) {
	cases := []struct {
		name   string
		models *fakeModels
		req    ai.Request
	}{
		{
			name:   "transport error",
			models: &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
			req:    ai.Request{Prompt: "p", Schema: cvSchema},
		},
		{
			name:   "empty response",
			models: &fakeModels{resp: &genai.GenerateContentResponse{}},
			req:    ai.Request{Prompt: "p", Schema: cvSchema},
		},
		{
			name:   "empty list",
			models: &fakeModels{resp: textResponse(`[]`)},
			req:    ai.Request{Prompt: "p", Schema: cvSchema, List: true},
		},
		{
			name:   "schema violation",
			models: &fakeModels{resp: textResponse(`{"resume": "wrong field"}`)},
			req:    ai.Request{Prompt: "p", Schema: cvSchema},
		},
		{
			name:   "not json",
			models: &fakeModels{resp: textResponse(`Sure! Here is your CV.`)},
			req:    ai.Request{Prompt: "p", Schema: cvSchema},
		},
		{
			name:   "blank prompt",
			models: &fakeModels{},
			req:    ai.Request{Prompt: "  ", Schema: cvSchema},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGenerator(tc.models, "gemini-pro", 0, zap.NewNop())
			_, err := g.Infer(context.Background(), tc.req)
			if !errors.Is(err, ai.ErrInference) {
				t.Fatalf("expected ErrInference, got %v", err)
			}
			if len(tc.models.calls) > 1 {
				t.Fatalf("expected no retries, got %d calls", len(tc.models.calls))
			}
		})
	}
}

func TestResponseTextSkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking about it", Thought: true},
				{Text: `{"cv":`},
				{Text: ` "x"}`},
			}},
		}},
	}

	if got := responseText(resp); got != `{"cv":"x"}` {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"score":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"extra":   map[string]any{"type": "boolean"},
		},
		"required": []any{"summary", "score"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("unexpected type: %s", s.Type)
	}

	score := s.Properties["score"]
	if score == nil || score.Type != genai.TypeInteger {
		t.Fatalf("unexpected score schema: %+v", score)
	}
	if score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Fatalf("expected score bounds, got %v %v", score.Minimum, score.Maximum)
	}

	want := []string{"summary", "score", "extra"}
	if len(s.PropertyOrdering) != len(want) {
		t.Fatalf("unexpected ordering: %v", s.PropertyOrdering)
	}
	for i := range want {
		if s.PropertyOrdering[i] != want[i] {
			t.Fatalf("unexpected ordering: %v", s.PropertyOrdering)
		}
	}
}
