package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIOptions struct {
	APIKey              string
	Model               string
	MaxCompletionTokens int64
	SystemPrompt        string
}

// OpenAI answers through the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAI(optFns ...func(o *OpenAIOptions)) *OpenAI {
	opts := OpenAIOptions{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAI{client: &client, opts: opts}
}

// NewOpenAIFromClient reuses an existing client, e.g. one pointed at a test server.
func NewOpenAIFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAI {
	opts := OpenAIOptions{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAI{client: client, opts: opts}
}

func (m *OpenAI) Reply(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if m.opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(m.opts.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
