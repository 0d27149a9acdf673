// Package config resolves process configuration once at startup. Values come
// from the environment (a .env file is honoured when present) and are carried
// in an explicit struct from then on; nothing else reads the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nimeshkanishka/datagen-agent/src/models"
)

// Defaults matching the hosted setup the assistant ships with.
const (
	DefaultProvider    = "groq"
	DefaultGroqModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultTemperature = 0.3
	DefaultStepLimit   = 50
	DefaultWindow      = 128
)

// Config is the process-wide configuration for the DataGen CLI.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int

	StepLimit     int
	SessionWindow int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Provider:      envOr("DATAGEN_PROVIDER", DefaultProvider),
		Model:         os.Getenv("DATAGEN_MODEL"),
		BaseURL:       os.Getenv("DATAGEN_BASE_URL"),
		Temperature:   DefaultTemperature,
		StepLimit:     DefaultStepLimit,
		SessionWindow: DefaultWindow,
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if raw := os.Getenv("DATAGEN_TEMPERATURE"); raw != "" {
		t, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Config{}, fmt.Errorf("DATAGEN_TEMPERATURE: %w", err)
		}
		cfg.Temperature = float32(t)
	}
	if raw := os.Getenv("DATAGEN_STEP_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("DATAGEN_STEP_LIMIT: invalid value %q", raw)
		}
		cfg.StepLimit = n
	}
	if raw := os.Getenv("DATAGEN_MAX_TOKENS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("DATAGEN_MAX_TOKENS: invalid value %q", raw)
		}
		cfg.MaxTokens = n
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	cfg.APIKey = apiKeyFor(cfg.Provider)
	if cfg.BaseURL == "" && cfg.Provider == "ollama" {
		cfg.BaseURL = os.Getenv("OLLAMA_HOST")
	}

	return cfg, nil
}

// Validate reports configuration the providers cannot work with.
func (c Config) Validate() error {
	switch c.Provider {
	case "ollama", "dummy":
		return nil
	case "groq", "openai", "anthropic", "claude", "gemini", "google":
		if c.APIKey == "" {
			return fmt.Errorf("provider %s requires an API key (set %s)", c.Provider, keyEnvName(c.Provider))
		}
		return nil
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
}

// ModelConfig converts to the provider-constructor configuration.
func (c Config) ModelConfig() models.Config {
	return models.Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "groq":
		return DefaultGroqModel
	case "openai":
		return "gpt-4o-mini"
	case "anthropic", "claude":
		return "claude-3-5-sonnet-latest"
	case "gemini", "google":
		return "gemini-2.0-flash"
	case "ollama":
		return "llama3.2"
	default:
		return ""
	}
}

func apiKeyFor(provider string) string {
	if key := os.Getenv("DATAGEN_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case "groq":
		return os.Getenv("GROQ_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini", "google":
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

func keyEnvName(provider string) string {
	switch provider {
	case "groq":
		return "GROQ_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	case "gemini", "google":
		return "GOOGLE_API_KEY"
	default:
		return "DATAGEN_API_KEY"
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
