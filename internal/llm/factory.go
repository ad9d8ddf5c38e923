package llm

import (
	"fmt"
	"slices"
	"strings"
)

const (
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

type clientFactory func(model, baseURL string) (Client, error)

var providers = map[string]clientFactory{
	ProviderOllama: func(model, baseURL string) (Client, error) {
		return NewOllamaClient(model, baseURL)
	},
	ProviderLMStudio: func(model, baseURL string) (Client, error) {
		return NewLMStudioClient(model, baseURL)
	},
}

var providerAliases = map[string]string{
	"":          ProviderOllama,
	"lm-studio": ProviderLMStudio,
}

// Providers returns the supported provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewClient creates an LLM client based on provider configuration.
// An empty provider selects Ollama.
func NewClient(provider, model, baseURL string) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if alias, ok := providerAliases[name]; ok {
		name = alias
	}
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider %q (supported: %s)", provider, strings.Join(Providers(), ", "))
	}
	return factory(model, baseURL)
}
