package suggestion

import (
	"context"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.poe.com/v1"
	DefaultModel   = "gpt-4o"
)

// Model is a chat model that answers a system + user prompt pair
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIModel talks to an OpenAI-compatible chat completion API.
// The client is built on first use so a missing key only fails requests.
type OpenAIModel struct {
	cfg OpenAIConfig

	once   sync.Once
	client *openai.Client
}

// NewOpenAIModel creates an OpenAIModel, filling in default base URL and model
func NewOpenAIModel(cfg OpenAIConfig) *OpenAIModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &OpenAIModel{cfg: cfg}
}

// Complete sends the prompt and returns the trimmed content of the first choice,
// or "" if the model returned no content
func (m *OpenAIModel) Complete(ctx context.Context, system, user string) (string, error) {
	if m.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	m.once.Do(func() {
		config := openai.DefaultConfig(m.cfg.APIKey)
		config.BaseURL = m.cfg.BaseURL
		m.client = openai.NewClientWithConfig(config)
	})

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
