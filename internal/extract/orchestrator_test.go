package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mscore-cli/internal/provider"
)

type scriptedAdapter struct {
	name  string
	calls int
	fn    func(call int) (string, error)
}

func (s *scriptedAdapter) Name() string { return s.name }

func (s *scriptedAdapter) Extract(_ context.Context, _ provider.Request) (string, error) {
	s.calls++
	return s.fn(s.calls)
}

func always(raw string, err error) func(int) (string, error) {
	return func(int) (string, error) { return raw, err }
}

func testConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		CallTimeout:    time.Second,
	}
}

func newTestOrchestrator(t *testing.T, adapters ...*scriptedAdapter) (*Orchestrator, []string) {
	t.Helper()
	r := provider.NewRegistry()
	priority := make([]string, 0, len(adapters))
	for _, a := range adapters {
		r.Register(a)
		priority = append(priority, a.Name())
	}
	return NewOrchestrator(r, testConfig()), priority
}

func TestExtract_AuthErrorsFailOverWithoutRetry(t *testing.T) {
	first := &scriptedAdapter{name: "anthropic", fn: always("", provider.NewError("anthropic", provider.KindAuth, errors.New("401")))}
	second := &scriptedAdapter{name: "gemini", fn: always("", provider.NewError("gemini", provider.KindMalformedRequest, errors.New("400")))}
	third := &scriptedAdapter{name: "deepseek", fn: always("net_sales=120,100", nil)}

	o, priority := newTestOrchestrator(t, first, second, third)
	res, err := o.Extract(context.Background(), "doc", priority)
	require.NoError(t, err)

	assert.Equal(t, "deepseek", res.Provider)
	assert.Equal(t, 1, first.calls, "auth error must not be retried")
	assert.Equal(t, 1, second.calls, "malformed request must not be retried")
	assert.Equal(t, 1, third.calls)
}

func TestExtract_TimeoutRetriesThenFailsOver(t *testing.T) {
	slow := &scriptedAdapter{name: "anthropic", fn: always("", provider.NewError("anthropic", provider.KindTimeout, context.DeadlineExceeded))}
	backup := &scriptedAdapter{name: "gemini", fn: always("cogs=70,60", nil)}

	o, priority := newTestOrchestrator(t, slow, backup)
	res, err := o.Extract(context.Background(), "doc", priority)
	require.NoError(t, err)

	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, 3, slow.calls, "timeout retries up to MaxAttempts before failover")
}

func TestExtract_AllProvidersExhausted(t *testing.T) {
	a := &scriptedAdapter{name: "anthropic", fn: always("", provider.NewError("anthropic", provider.KindRateLimit, errors.New("429")))}
	b := &scriptedAdapter{name: "gemini", fn: always("", provider.NewError("gemini", provider.KindTimeout, context.DeadlineExceeded))}

	o, priority := newTestOrchestrator(t, a, b)
	_, err := o.Extract(context.Background(), "doc", priority)

	var failed *FailedError
	require.ErrorAs(t, err, &failed)
	assert.Len(t, failed.Causes, 2)
	assert.Equal(t, 3, a.calls)
	assert.Equal(t, 3, b.calls)
}

func TestExtract_RecoversAfterTransientFailure(t *testing.T) {
	flaky := &scriptedAdapter{name: "anthropic", fn: func(call int) (string, error) {
		if call < 3 {
			return "", provider.NewError("anthropic", provider.KindRateLimit, errors.New("429"))
		}
		return "total_assets=200,180", nil
	}}

	o, priority := newTestOrchestrator(t, flaky)
	res, err := o.Extract(context.Background(), "doc", priority)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", res.Provider)
	assert.Equal(t, 3, flaky.calls)
}

func TestExtract_UnparseableResponseFailsOver(t *testing.T) {
	chatty := &scriptedAdapter{name: "anthropic", fn: always("Sure! Here is my analysis of the statement.", nil)}
	precise := &scriptedAdapter{name: "gemini", fn: always("net_income=18,14", nil)}

	o, priority := newTestOrchestrator(t, chatty, precise)
	res, err := o.Extract(context.Background(), "doc", priority)
	require.NoError(t, err)

	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, 1, chatty.calls, "unparseable responses are not retried on the same provider")
}

func TestExtract_UnknownProviderInPriority(t *testing.T) {
	a := &scriptedAdapter{name: "anthropic", fn: always("net_sales=1,1", nil)}
	o, _ := newTestOrchestrator(t, a)

	_, err := o.Extract(context.Background(), "doc", []string{"anthropic", "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral")
	assert.Zero(t, a.calls, "no calls are made when the priority list cannot be resolved")
}

func TestExtract_ContextCancelStopsWaterfall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &scriptedAdapter{name: "anthropic", fn: func(int) (string, error) {
		cancel()
		return "", provider.NewError("anthropic", provider.KindTimeout, context.DeadlineExceeded)
	}}
	b := &scriptedAdapter{name: "gemini", fn: always("net_sales=1,1", nil)}

	o, priority := newTestOrchestrator(t, a, b)
	_, err := o.Extract(ctx, "doc", priority)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, b.calls, "cancellation must not fail over to later providers")
}

func TestExtract_ResultCarriesRawResponseAndCompany(t *testing.T) {
	a := &scriptedAdapter{name: "anthropic", fn: always("company=Acme Corp\nnet_sales=120,100", nil)}
	o, priority := newTestOrchestrator(t, a)

	res, err := o.Extract(context.Background(), "doc", priority)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", res.Company)
	assert.Contains(t, res.RawResponse, "net_sales=120,100")
}
