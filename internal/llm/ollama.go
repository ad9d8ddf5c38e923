package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient creates a client for model served at baseURL.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("ollama model is required")
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaClient{llm: llm, model: model, baseURL: baseURL}, nil
}

// Complete implements Client.
func (c *OllamaClient) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := c.llm.GenerateContent(ctx, ollamaMessages(p), ollamaOptions(c.model, p)...)
	if err != nil {
		return "", fmt.Errorf("ollama %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

func ollamaMessages(p Prompt) []llms.MessageContent {
	var msgs []llms.MessageContent
	if p.System != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, p.System))
	}
	return append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, p.User))
}

func ollamaOptions(model string, p Prompt) []llms.CallOption {
	opts := []llms.CallOption{llms.WithModel(model)}
	if p.JSON {
		opts = append(opts, llms.WithJSONMode())
	}
	if p.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(p.Temperature))
	}
	return opts
}
