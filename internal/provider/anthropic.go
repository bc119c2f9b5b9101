package provider

import (
	"context"

	"github.com/sells-group/mscore-cli/pkg/anthropic"
)

// extraction answers are short key=value blocks; 2048 tokens is generous.
const extractMaxTokens = 2048

// AnthropicAdapter extracts via the Anthropic Messages API.
type AnthropicAdapter struct {
	client anthropic.Client
	model  string
}

var _ Adapter = (*AnthropicAdapter)(nil)

// NewAnthropicAdapter wraps an Anthropic client for the given model.
func NewAnthropicAdapter(client anthropic.Client, model string) *AnthropicAdapter {
	return &AnthropicAdapter{client: client, model: model}
}

func (a *AnthropicAdapter) Name() string {
	return AnthropicID
}

func (a *AnthropicAdapter) Extract(ctx context.Context, req Request) (string, error) {
	temp := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   extractMaxTokens,
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", Classify(AnthropicID, anthropic.StatusCode(err), err)
	}
	if resp.Text == "" {
		return "", NewError(AnthropicID, KindUnknown, errEmptyResponse)
	}
	return resp.Text, nil
}
