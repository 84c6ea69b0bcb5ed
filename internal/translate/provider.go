package translate

import (
	"context"
	"fmt"

	"sublate/internal/config"
	"sublate/internal/services/groqllm"
	"sublate/internal/services/llm"
)

// Provider is the completion surface the translator needs. Both the
// OpenAI-compatible client and the Groq client satisfy it.
type Provider interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

// NewProvider builds the completion provider selected by
// translator.provider.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Translator.Provider {
	case "", "openai":
		settings := cfg.GetLLM()
		return llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		}), nil
	case "groq":
		return groqllm.NewClient(cfg.Groq.APIKey, cfg.Groq.Model)
	default:
		return nil, fmt.Errorf("unknown translator provider %q", cfg.Translator.Provider)
	}
}
