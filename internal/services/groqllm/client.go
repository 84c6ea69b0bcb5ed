package groqllm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"
)

// Client wraps the Groq SDK behind the same completion surface as the
// OpenAI-compatible client.
type Client struct {
	client *groq.Client
	model  groq.ChatModel
}

// NewClient constructs a Groq-backed completion client.
func NewClient(apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq: api key required")
	}
	inner, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	return &Client{
		client: inner,
		model:  groq.ChatModel(strings.TrimSpace(model)),
	}, nil
}

// Model returns the configured model name for logging.
func (c *Client) Model() string {
	return string(c.model)
}

// CompleteText issues a chat completion request with the supplied prompts and
// returns the completion text.
func (c *Client) CompleteText(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("groq complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("groq complete: user prompt required")
	}

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("groq complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq complete: no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("groq complete: empty response")
	}
	return content, nil
}

// HealthCheck verifies the API key and model respond. Any non-empty
// completion counts as healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.CompleteText(ctx, "You are a health check. Reply with the single word: ok", "ping", 0); err != nil {
		return fmt.Errorf("groq health: %w", err)
	}
	return nil
}
