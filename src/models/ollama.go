package models

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaLLM implements Agent against a local Ollama server.
type OllamaLLM struct {
	Client *ollama.Client
	Model  string
}

// NewOllamaLLM connects to cfg.BaseURL, or http://localhost:11434 when unset.
// No API key is required.
func NewOllamaLLM(cfg Config) (*OllamaLLM, error) {
	host := cfg.BaseURL
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &OllamaLLM{
		Client: ollama.NewClient(u, httpClient),
		Model:  cfg.Model,
	}, nil
}

func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	var text strings.Builder

	req := &ollama.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
	}

	if err := o.Client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		if gr.Response != "" {
			text.WriteString(gr.Response)
		}
		return nil
	}); err != nil {
		return "", err
	}

	return text.String(), nil
}

var _ Agent = (*OllamaLLM)(nil)
