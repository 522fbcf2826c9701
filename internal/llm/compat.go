package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"dealdesk/config"
)

// compatGateway speaks the OpenAI chat-completions wire format directly over
// HTTP, for self-hosted endpoints that no SDK component covers.
type compatGateway struct {
	client    *resty.Client
	model     string
	maxTokens int
}

type compatRequest struct {
	Model     string          `json:"model"`
	Messages  []compatMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type compatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type compatResponse struct {
	Choices []struct {
		Message compatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newCompatGateway(cfg *config.Config) Gateway {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(120*time.Second).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &compatGateway{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (g *compatGateway) Complete(ctx context.Context, prompt string) (string, error) {
	var out compatResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(compatRequest{
			Model:     g.model,
			Messages:  []compatMessage{{Role: "user", Content: prompt}},
			MaxTokens: g.maxTokens,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: status %s", ErrTransient, resp.Status())
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrTransient, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrTransient)
	}
	return out.Choices[0].Message.Content, nil
}
