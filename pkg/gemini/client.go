// Package gemini wraps the Google GenAI SDK behind a narrow text-generation
// interface used by the extraction pipeline.
package gemini

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client generates text completions against the Gemini API.
type Client interface {
	GenerateText(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest carries one generation call.
type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature *float32
}

// GenerateResponse is the trimmed result of a generation call.
type GenerateResponse struct {
	Text         string
	InputTokens  int32
	OutputTokens int32
}

// Option configures the client.
type Option func(*sdkClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		c.model = model
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *sdkClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type sdkClient struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewClient creates a Gemini client backed by the GenAI SDK.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	c := &sdkClient{client: gc, model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *sdkClient) GenerateText(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "gemini: rate limit wait")
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(*req.Temperature)
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	resp := &GenerateResponse{Text: result.Text()}
	if result.UsageMetadata != nil {
		resp.InputTokens = result.UsageMetadata.PromptTokenCount
		resp.OutputTokens = result.UsageMetadata.CandidatesTokenCount
	}
	return resp, nil
}

// StatusCode extracts the HTTP status code from a GenAI SDK error chain.
// Returns 0 when the error carries no status (e.g., network failure).
func StatusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
