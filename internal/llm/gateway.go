package llm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"dealdesk/config"
)

// Gateway is the reviewer boundary: given a prompt, return raw text. The
// response may be malformed and the call may fail transiently; callers go
// through the validated-retry executor rather than trusting a single call.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewGateway selects a backend from the configured provider.
func NewGateway(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return newDeepSeekGateway(ctx, cfg)
	case "openai":
		return newOpenAIGateway(ctx, cfg)
	case "openai_compat":
		return newCompatGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// chatModelGateway adapts an eino chat model to the Gateway contract.
type chatModelGateway struct {
	cm model.BaseChatModel
}

func newDeepSeekGateway(ctx context.Context, cfg *config.Config) (Gateway, error) {
	cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create deepseek model: %w", err)
	}
	return &chatModelGateway{cm: cm}, nil
}

func newOpenAIGateway(ctx context.Context, cfg *config.Config) (Gateway, error) {
	maxTokens := cfg.MaxTokens
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return &chatModelGateway{cm: cm}, nil
}

func (g *chatModelGateway) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := g.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return msg.Content, nil
}

// CleanResponse strips markdown code fences and surrounding whitespace from a
// model response. Models often wrap JSON in ```json ... ``` blocks. Handles
// ```json\n{...}\n```, ```\n{...}\n```, and bare JSON.
func CleanResponse(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if len(s) == 0 {
		return s
	}

	if bytes.HasPrefix(s, []byte("```")) {
		if idx := bytes.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		if bytes.HasSuffix(s, []byte("```")) {
			s = s[:len(s)-3]
		}
		s = bytes.TrimSpace(s)
	}

	return s
}
