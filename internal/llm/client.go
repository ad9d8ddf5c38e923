// Package llm provides LLM clients and the timetable reviewer built on them.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoChoices is returned when a provider answers without any choice.
	ErrNoChoices = errors.New("no response choices returned")

	// ErrMalformedReply is returned when a reply carries no decodable JSON.
	ErrMalformedReply = errors.New("malformed model reply")
)

// Prompt is a single-turn request: a system instruction and the user message.
type Prompt struct {
	System string
	User   string

	// JSON asks the provider to constrain the reply to a JSON object where it
	// supports that.
	JSON bool

	// Temperature overrides the provider's sampling temperature when > 0.
	Temperature float64
}

// Client sends prompts to a model.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleteJSON sends p in JSON mode and decodes the reply into result.
// A reply that carries no decodable JSON yields an error wrapping
// ErrMalformedReply.
func CompleteJSON(ctx context.Context, c Client, p Prompt, result any) error {
	p.JSON = true
	content, err := c.Complete(ctx, p)
	if err != nil {
		return err
	}
	if err := decodeJSON(content, result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}
