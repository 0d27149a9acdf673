package models

import "context"

// Agent is the minimal surface the orchestrator needs from a language model:
// one blocking completion per call.
type Agent interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries everything a provider constructor needs. Credentials are
// resolved by the caller (typically from the environment once at startup) and
// passed in explicitly rather than read ambiently.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string // OpenAI-compatible endpoints and Ollama host
	Temperature float32
	MaxTokens   int
}
