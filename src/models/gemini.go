package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM implements Agent using Google's Generative AI API.
type GeminiLLM struct {
	Client      *genai.Client
	Model       string
	Temperature float32
}

func NewGeminiLLM(ctx context.Context, cfg Config) (*GeminiLLM, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: cfg.Model, Temperature: cfg.Temperature}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.Client.GenerativeModel(g.Model)
	model.SetTemperature(g.Temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

var _ Agent = (*GeminiLLM)(nil)
