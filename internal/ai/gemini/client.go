package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/utils"
)

const (
	defaultModel        = "gemini-2.5-flash"
	defaultMaxLogLength = 200
	provider            = "gemini"
)

// modelsAPI is the part of genai.Models the generator needs.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements ai.Inferrer on top of the Gemini API using JSON
// structured output.
type Generator struct {
	models    modelsAPI
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, maxLogLength, log), nil
}

func newGenerator(models modelsAPI, model string, maxLogLength int, log *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		models:    models,
		model:     model,
		logger:    logger.WithCommonFields(log, provider, model),
		maxLogLen: maxLogLength,
	}
}

// Infer sends the prompt with the response schema and returns every instance
// of the reply, each validated against req.Schema.
func (g *Generator) Infer(ctx context.Context, req ai.Request) ([]json.RawMessage, error) {
	if g == nil || g.models == nil {
		return nil, fmt.Errorf("%w: gemini generator is not initialized", ai.ErrInference)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", ai.ErrInference)
	}

	schema := req.Schema
	if req.List {
		schema = req.Schema.ListOf()
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema.Document),
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	g.logger.Debug("gemini generate content request",
		zap.String("schema", schema.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %w", ai.ErrInference, err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: gemini api returned empty response", ai.ErrInference)
	}

	g.logger.Debug("gemini generate content response",
		zap.String("schema", schema.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	items, err := splitInstances(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse gemini response: %w", ai.ErrInference, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: gemini api returned no %s instances", ai.ErrInference, req.Schema.Name)
	}

	for i, item := range items {
		if err := req.Schema.Validate(item); err != nil {
			return nil, fmt.Errorf("%w: instance %d: %w", ai.ErrInference, i, err)
		}
	}

	return items, nil
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			builder.WriteString(text)
		}
		// Only the first candidate with content is used.
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}

// splitInstances turns the reply into separate JSON instances. A top-level
// array yields its elements; a single object yields itself.
func splitInstances(raw string) ([]json.RawMessage, error) {
	cleaned := extractJSON(raw)

	switch {
	case strings.HasPrefix(cleaned, "["):
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
			return nil, err
		}
		return items, nil
	case strings.HasPrefix(cleaned, "{"):
		if !json.Valid([]byte(cleaned)) {
			return nil, errors.New("invalid json object")
		}
		return []json.RawMessage{json.RawMessage(cleaned)}, nil
	default:
		return nil, fmt.Errorf("unexpected response: %s", utils.TruncateForLog(cleaned, 40))
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
