package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicOptions struct {
	APIKey       string
	Model        string
	MaxTokens    int64
	SystemPrompt string
}

// Anthropic answers through the Messages API.
type Anthropic struct {
	client *anthropic.Client
	opts   AnthropicOptions
}

func NewAnthropic(optFns ...func(o *AnthropicOptions)) *Anthropic {
	opts := AnthropicOptions{
		Model:     string(anthropic.ModelClaude3_5Sonnet20241022),
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Anthropic{client: &client, opts: opts}
}

func NewAnthropicFromClient(client *anthropic.Client, optFns ...func(o *AnthropicOptions)) *Anthropic {
	opts := AnthropicOptions{
		Model:     string(anthropic.ModelClaude3_5Sonnet20241022),
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Anthropic{client: client, opts: opts}
}

func (m *Anthropic) Reply(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.opts.Model),
		MaxTokens: m.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if m.opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: m.opts.SystemPrompt}}
	}
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
