package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	defaultModel     = "claude-sonnet-4-5"
	defaultMaxTokens = 16_000
)

// API calls the Anthropic Messages API directly instead of shelling out.
// Selected when the configuration asks for it and an API key is available.
type API struct {
	Client    *anthropic.Client
	Model     string
	MaxTokens int64
}

// NewAPI builds an API collaborator with a client configured from the
// environment (ANTHROPIC_API_KEY).
func NewAPI(model string) API {
	client := anthropic.NewClient()
	return API{Client: &client, Model: model}
}

// Summarize streams one Messages request and returns the accumulated text.
func (a API) Summarize(ctx context.Context, req Request) (string, error) {
	model := a.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	stream := a.Client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildUserPrompt(req))),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		if err := message.Accumulate(stream.Current()); err != nil {
			return "", fmt.Errorf("accumulate response: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("empty response from summarizer")
	}
	return out.String(), nil
}
