package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInference marks failures of the structured inference capability: transport
// errors, unparsable or schema-violating output, or an empty result.
var ErrInference = errors.New("inference failed")

// Request is a single structured inference call.
type Request struct {
	// System is an optional instruction applied before the prompt.
	System string
	Prompt string
	Schema Schema
	// List asks for a JSON array of Schema instances instead of one object.
	List bool
}

// Inferrer maps a prompt and a declared schema to one or more schema-conforming
// JSON instances.
type Inferrer interface {
	Infer(ctx context.Context, req Request) ([]json.RawMessage, error)
}

// DecodeFirst unmarshals the first instance into T. Additional instances are ignored.
func DecodeFirst[T any](items []json.RawMessage) (*T, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no results returned", ErrInference)
	}

	var out T
	if err := json.Unmarshal(items[0], &out); err != nil {
		return nil, fmt.Errorf("%w: decode result: %w", ErrInference, err)
	}

	return &out, nil
}
