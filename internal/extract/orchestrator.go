package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mscore-cli/internal/model"
	"github.com/sells-group/mscore-cli/internal/provider"
	"github.com/sells-group/mscore-cli/internal/resilience"
)

// Config bounds the per-provider call behavior of the orchestrator.
type Config struct {
	// MaxAttempts is the total number of calls made to one provider when
	// it keeps returning retryable errors, including the first call.
	MaxAttempts int
	// InitialBackoff seeds the exponential backoff between retries.
	InitialBackoff time.Duration
	// CallTimeout caps each individual provider call.
	CallTimeout time.Duration
}

// DefaultConfig returns the production call bounds.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		CallTimeout:    45 * time.Second,
	}
}

// FailedError is the terminal extraction outcome: every provider in the
// priority list was exhausted without a parseable response. Causes holds
// the final error from each provider in priority order.
type FailedError struct {
	Causes []error
}

func (e *FailedError) Error() string {
	parts := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		parts = append(parts, c.Error())
	}
	return "extract: all providers failed: " + strings.Join(parts, "; ")
}

// Orchestrator runs the extraction waterfall: providers are tried in
// priority order, each with bounded retries on transient failures, until
// one returns a response the grammar parser can read.
type Orchestrator struct {
	registry *provider.Registry
	cfg      Config
}

// NewOrchestrator builds an orchestrator over the given registry.
func NewOrchestrator(registry *provider.Registry, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	return &Orchestrator{registry: registry, cfg: cfg}
}

// Extract runs the waterfall for one document. Auth and malformed-request
// errors fail over to the next provider immediately; rate-limit and
// timeout errors retry the same provider up to the configured bound
// before failing over. The error is a *FailedError only when every
// provider has been exhausted.
func (o *Orchestrator) Extract(ctx context.Context, doc string, priority []string) (*model.ExtractionResult, error) {
	adapters, err := o.registry.Resolve(priority)
	if err != nil {
		return nil, eris.Wrap(err, "extract: resolve providers")
	}

	req := BuildRequest(doc, model.Schema())

	var causes []error
	for _, a := range adapters {
		raw, err := o.callWithRetry(ctx, a, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "extract: canceled")
			}
			zap.L().Warn("provider failed, trying next",
				zap.String("provider", a.Name()),
				zap.String("kind", string(provider.KindOf(err))),
				zap.Error(err))
			causes = append(causes, err)
			continue
		}

		// Raw response text stays out of Info-level logs.
		zap.L().Debug("provider response received",
			zap.String("provider", a.Name()),
			zap.String("raw", raw))

		parsed := ParseResponse(raw)
		if parsed.FieldCount == 0 {
			zap.L().Warn("provider response had no parseable fields",
				zap.String("provider", a.Name()))
			causes = append(causes, eris.Errorf("extract: %s: no parseable fields in response", a.Name()))
			continue
		}

		zap.L().Info("extraction complete",
			zap.String("provider", a.Name()),
			zap.Int("fields", parsed.FieldCount),
			zap.String("company", parsed.Company))
		return &model.ExtractionResult{
			Company:     parsed.Company,
			Facts:       parsed.Facts,
			Sources:     parsed.Sources,
			Provider:    a.Name(),
			RawResponse: raw,
		}, nil
	}
	return nil, &FailedError{Causes: causes}
}

func (o *Orchestrator) callWithRetry(ctx context.Context, a provider.Adapter, req provider.Request) (string, error) {
	cfg := resilience.RetryConfig{
		MaxAttempts:    o.cfg.MaxAttempts,
		InitialBackoff: o.cfg.InitialBackoff,
		ShouldRetry: func(err error) bool {
			return provider.Retryable(provider.KindOf(err))
		},
		OnRetry: resilience.RetryLogger(a.Name(), "extract"),
	}
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
		defer cancel()
		return a.Extract(callCtx, req)
	})
}
