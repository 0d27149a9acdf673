package models

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAILLM talks to any OpenAI-compatible chat completions API.
type OpenAILLM struct {
	Client      *openai.Client
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewOpenAILLM constructs a client for api.openai.com, or for cfg.BaseURL
// when set.
func NewOpenAILLM(cfg Config) (*OpenAILLM, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: missing API key")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAILLM{
		Client:      openai.NewClientWithConfig(clientCfg),
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, nil
}

// NewGroqLLM constructs a client for Groq's hosted models. Groq speaks the
// OpenAI wire format, so this is the OpenAI client pointed at Groq.
func NewGroqLLM(cfg Config) (*OpenAILLM, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("groq: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = GroqBaseURL
	}
	return NewOpenAILLM(cfg)
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.Model,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Agent = (*OpenAILLM)(nil)
