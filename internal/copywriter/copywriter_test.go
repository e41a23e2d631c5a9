package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// mockChatService records the request and returns a canned completion.
// Messages are captured in wire form to avoid depending on the SDK's
// union parameter internals.
type mockChatService struct {
	model       string
	rawMessages string
	text        string
	err         error
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.model = string(params.Model.Value)
	if b, err := json.Marshal(params.Messages.Value); err == nil {
		m.rawMessages = string(b)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.text}},
		},
	}, nil
}

func TestDescribe(t *testing.T) {
	chat := &mockChatService{text: "  Remodelação integral de cozinha com acabamentos premium.  "}
	gen := &OpenAI{chat: chat, model: "gpt-4o-mini", company: "RF Construções"}

	got, err := gen.Describe(context.Background(), "Cozinha Moderna em Lisboa", "Cozinha")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if got != "Remodelação integral de cozinha com acabamentos premium." {
		t.Errorf("description = %q, want trimmed completion text", got)
	}

	if chat.model != "gpt-4o-mini" {
		t.Errorf("model = %q", chat.model)
	}
}

func TestDescribe_PromptContainsProjectFacts(t *testing.T) {
	chat := &mockChatService{text: "Descrição."}
	gen := &OpenAI{chat: chat, model: "gpt-4o-mini", company: "DNL Remodelações"}

	if _, err := gen.Describe(context.Background(), "Casa de Banho Premium", "Banheiro"); err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	for _, want := range []string{"Casa de Banho Premium", "Banheiro", "DNL Remodelações", "40 palavras"} {
		if !strings.Contains(chat.rawMessages, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(chat.rawMessages, `"user"`) {
		t.Errorf("prompt not sent as a user message: %s", chat.rawMessages)
	}
}

func TestDescribe_APIError(t *testing.T) {
	chat := &mockChatService{err: errors.New("quota exceeded")}
	gen := &OpenAI{chat: chat, model: "gpt-4o-mini", company: "RF Construções"}

	if _, err := gen.Describe(context.Background(), "Obra", "Residencial"); err == nil {
		t.Fatal("expected error from failed completion")
	}
}

func TestDescribe_EmptyResponse(t *testing.T) {
	chat := &mockChatService{text: "   "}
	gen := &OpenAI{chat: chat, model: "gpt-4o-mini", company: "RF Construções"}

	if _, err := gen.Describe(context.Background(), "Obra", "Residencial"); err == nil {
		t.Fatal("expected error for blank completion")
	}
}

func TestNew_DisabledWithoutKey(t *testing.T) {
	gen := New("", "gpt-4o-mini", "RF Construções")

	if _, ok := gen.(Disabled); !ok {
		t.Fatalf("generator = %T, want Disabled", gen)
	}
	if _, err := gen.Describe(context.Background(), "Obra", "Residencial"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
