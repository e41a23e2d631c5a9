// Package copywriter drafts marketing descriptions for portfolio
// projects. It is optional and best-effort: when no API key is
// configured the Disabled generator is used and every call reports
// ErrUnavailable without touching the network.
package copywriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrUnavailable is returned when the generative-text collaborator is
// not configured.
var ErrUnavailable = errors.New("copywriter not configured")

// Generator drafts a project description from its title and category.
type Generator interface {
	Describe(ctx context.Context, title, category string) (string, error)
}

// ChatService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the generator using OpenAI's chat completions.
type OpenAI struct {
	chat    ChatService
	model   openai.ChatModel
	company string
}

// Compile-time interface check
var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates a generator backed by OpenAI.
func NewOpenAI(apiKey, model, company string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:    client.Chat.Completions,
		model:   openai.ChatModel(model),
		company: company,
	}
}

// New returns the configured generator: OpenAI when an API key is set,
// Disabled otherwise.
func New(apiKey, model, company string) Generator {
	if apiKey == "" {
		return Disabled{}
	}
	return NewOpenAI(apiKey, model, company)
}

// Describe drafts a short Portuguese portfolio description.
func (o *OpenAI) Describe(ctx context.Context, title, category string) (string, error) {
	prompt := fmt.Sprintf(
		"Escreva uma descrição profissional, atraente e concisa (máximo 40 palavras) "+
			"para um projeto de portfólio de uma empresa de remodelações chamada %s.\n"+
			"Título do Projeto: %s\nTipo: %s\nIdioma: Português de Portugal.",
		o.company, title, category)

	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model:     openai.F(o.model),
		MaxTokens: openai.Int(160),
	})
	if err != nil {
		return "", fmt.Errorf("description generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("description generation failed: no choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("description generation failed: empty response")
	}

	return text, nil
}

// Disabled is the generator used when no API key is configured.
type Disabled struct{}

// Describe always reports ErrUnavailable.
func (Disabled) Describe(ctx context.Context, title, category string) (string, error) {
	return "", ErrUnavailable
}
