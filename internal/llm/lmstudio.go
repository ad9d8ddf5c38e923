package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient talks to LM Studio through its OpenAI-compatible API.
type LMStudioClient struct {
	api     openai.Client
	model   string
	baseURL string
}

// NewLMStudioClient creates a client for model served at baseURL.
// The API key is read from LMSTUDIO_API_KEY, then OPENAI_API_KEY; LM Studio
// accepts any non-empty key.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	return &LMStudioClient{
		api: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(lmStudioAPIKey()),
		),
		model:   model,
		baseURL: baseURL,
	}, nil
}

func lmStudioAPIKey() string {
	for _, env := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return "lm-studio"
}

// Complete implements Client. LM Studio has no JSON object mode, so JSON
// prompts rely on the instruction in the prompt itself.
func (c *LMStudioClient) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, c.params(p))
	if err != nil {
		return "", fmt.Errorf("lm studio %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *LMStudioClient) params(p Prompt) openai.ChatCompletionNewParams {
	var msgs []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		msgs = append(msgs, openai.SystemMessage(p.System))
	}
	msgs = append(msgs, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: msgs,
	}
	if p.Temperature > 0 {
		params.Temperature = openai.Float(p.Temperature)
	}
	return params
}
