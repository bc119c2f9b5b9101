package provider

import (
	"context"
	"errors"

	"github.com/sells-group/mscore-cli/pkg/gemini"
)

var errEmptyResponse = errors.New("empty response text")

// GeminiAdapter extracts via the Google GenAI API.
type GeminiAdapter struct {
	client gemini.Client
	model  string
}

var _ Adapter = (*GeminiAdapter)(nil)

// NewGeminiAdapter wraps a Gemini client for the given model.
func NewGeminiAdapter(client gemini.Client, model string) *GeminiAdapter {
	return &GeminiAdapter{client: client, model: model}
}

func (a *GeminiAdapter) Name() string {
	return GeminiID
}

func (a *GeminiAdapter) Extract(ctx context.Context, req Request) (string, error) {
	temp := float32(0)
	resp, err := a.client.GenerateText(ctx, gemini.GenerateRequest{
		Model:       a.model,
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: &temp,
	})
	if err != nil {
		return "", Classify(GeminiID, gemini.StatusCode(err), err)
	}
	if resp.Text == "" {
		return "", NewError(GeminiID, KindUnknown, errEmptyResponse)
	}
	return resp.Text, nil
}
