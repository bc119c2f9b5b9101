package provider

import (
	"context"
	"errors"

	"github.com/sells-group/mscore-cli/pkg/deepseek"
)

// DeepSeekAdapter extracts via the DeepSeek chat-completions API.
type DeepSeekAdapter struct {
	client deepseek.Client
	model  string
}

var _ Adapter = (*DeepSeekAdapter)(nil)

// NewDeepSeekAdapter wraps a DeepSeek client for the given model.
func NewDeepSeekAdapter(client deepseek.Client, model string) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client, model: model}
}

func (a *DeepSeekAdapter) Name() string {
	return DeepSeekID
}

func (a *DeepSeekAdapter) Extract(ctx context.Context, req Request) (string, error) {
	temp := 0.0
	maxTokens := extractMaxTokens
	resp, err := a.client.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Model: a.model,
		Messages: []deepseek.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", Classify(DeepSeekID, statusOf(err), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", NewError(DeepSeekID, KindUnknown, errEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func statusOf(err error) int {
	var apiErr *deepseek.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
