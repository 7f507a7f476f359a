// Package chat answers askAI prompts through a hosted chat-completion model.
// One prompt in, one reply string out; no conversation memory is kept.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConfigured = errors.New("chat assistant not configured")
	ErrEmptyReply    = errors.New("chat assistant returned no text")
)

type Assistant interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// Settings select and configure a provider.
type Settings struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int64
	// SystemPrompt is sent ahead of the user prompt when non-empty.
	SystemPrompt string
}

// New builds the assistant named by s.Provider. An empty provider or a
// missing key yields Disabled, which fails every call with ErrNotConfigured.
func New(s Settings) (Assistant, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" || provider == "none" || s.APIKey == "" {
		return Disabled{}, nil
	}
	switch provider {
	case "openai":
		return NewOpenAI(func(o *OpenAIOptions) {
			o.APIKey = s.APIKey
			if s.Model != "" {
				o.Model = s.Model
			}
			if s.MaxTokens > 0 {
				o.MaxCompletionTokens = s.MaxTokens
			}
			o.SystemPrompt = s.SystemPrompt
		}), nil
	case "anthropic":
		return NewAnthropic(func(o *AnthropicOptions) {
			o.APIKey = s.APIKey
			if s.Model != "" {
				o.Model = s.Model
			}
			if s.MaxTokens > 0 {
				o.MaxTokens = s.MaxTokens
			}
			o.SystemPrompt = s.SystemPrompt
		}), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", s.Provider)
	}
}

type Disabled struct{}

func (Disabled) Reply(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Render converts a reply or failure into room-visible text.
func Render(reply string, err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "⚠ AI assistant is not configured on this server.", true
	case err != nil:
		return "⚠ AI assistant is unavailable. Try again later.", true
	default:
		return reply, false
	}
}
