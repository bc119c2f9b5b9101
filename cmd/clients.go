package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mscore-cli/internal/extract"
	"github.com/sells-group/mscore-cli/internal/pipeline"
	"github.com/sells-group/mscore-cli/internal/provider"
	"github.com/sells-group/mscore-cli/internal/validate"
	anthropicpkg "github.com/sells-group/mscore-cli/pkg/anthropic"
	"github.com/sells-group/mscore-cli/pkg/deepseek"
	"github.com/sells-group/mscore-cli/pkg/gemini"
)

// buildRegistry registers an adapter for every provider with a credential.
func buildRegistry(ctx context.Context) (*provider.Registry, error) {
	r := provider.NewRegistry()

	if cfg.Anthropic.Configured() {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		r.Register(provider.NewAnthropicAdapter(client, cfg.Anthropic.Model))
	}

	if cfg.Gemini.Configured() {
		var opts []gemini.Option
		if cfg.Gemini.RPSLimit > 0 {
			opts = append(opts, gemini.WithRateLimit(cfg.Gemini.RPSLimit))
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, opts...)
		if err != nil {
			return nil, eris.Wrap(err, "init gemini client")
		}
		r.Register(provider.NewGeminiAdapter(client, cfg.Gemini.Model))
	}

	if cfg.DeepSeek.Configured() {
		var opts []deepseek.Option
		if cfg.DeepSeek.BaseURL != "" {
			opts = append(opts, deepseek.WithBaseURL(cfg.DeepSeek.BaseURL))
		}
		if cfg.DeepSeek.RPSLimit > 0 {
			opts = append(opts, deepseek.WithRateLimit(cfg.DeepSeek.RPSLimit))
		}
		client := deepseek.NewClient(cfg.DeepSeek.Key, opts...)
		r.Register(provider.NewDeepSeekAdapter(client, cfg.DeepSeek.Model))
	}

	if len(r.List()) == 0 {
		return nil, eris.New("no provider configured: set at least one of anthropic.key, gemini.key, deepseek.key")
	}
	return r, nil
}

// effectivePriority filters the configured priority list down to providers
// that actually registered, keeping the order.
func effectivePriority(r *provider.Registry) []string {
	var out []string
	for _, id := range cfg.Pipeline.Priority {
		if r.Get(id) == nil {
			zap.L().Warn("provider in priority list is not configured, skipping",
				zap.String("provider", id))
			continue
		}
		out = append(out, id)
	}
	return out
}

// buildPipeline wires the full analysis flow from configuration.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, []string, error) {
	registry, err := buildRegistry(ctx)
	if err != nil {
		return nil, nil, err
	}

	policy, err := validate.LoadPolicy(cfg.Pipeline.PolicyPath)
	if err != nil {
		return nil, nil, err
	}

	orch := extract.NewOrchestrator(registry, extract.Config{
		MaxAttempts: cfg.Pipeline.RetryAttempts,
		CallTimeout: cfg.Pipeline.CallTimeout(),
	})

	priority := effectivePriority(registry)
	if len(priority) == 0 {
		return nil, nil, eris.New("pipeline.priority names no configured provider")
	}
	return pipeline.New(orch, validate.New(policy)), priority, nil
}
