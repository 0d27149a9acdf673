package models

import (
	"context"
	"fmt"
	"strings"
)

// NewLLMProvider returns a concrete Agent for the configured provider.
func NewLLMProvider(ctx context.Context, cfg Config) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "groq", "":
		return NewGroqLLM(cfg)
	case "openai":
		return NewOpenAILLM(cfg)
	case "anthropic", "claude":
		return NewAnthropicLLM(cfg)
	case "gemini", "google":
		return NewGeminiLLM(ctx, cfg)
	case "ollama":
		return NewOllamaLLM(cfg)
	case "dummy":
		return NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
