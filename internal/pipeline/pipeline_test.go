package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mscore-cli/internal/model"
	"github.com/sells-group/mscore-cli/internal/validate"
)

type mockExtractor struct {
	res   *model.ExtractionResult
	err   error
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ string, _ []string) (*model.ExtractionResult, error) {
	m.calls++
	return m.res, m.err
}

func completeExtraction() *model.ExtractionResult {
	set := func(f model.FactSet, k model.FactKey, cur, prior float64) {
		f[k] = model.FactValue{Current: model.Float(cur), Prior: model.Float(prior)}
	}
	facts := model.NewFactSet()
	set(facts, model.KeyNetSales, 120, 100)
	set(facts, model.KeyCOGS, 70, 60)
	set(facts, model.KeyReceivables, 20, 15)
	set(facts, model.KeyTotalAssets, 200, 180)
	set(facts, model.KeyCurrentAssets, 80, 70)
	set(facts, model.KeyPPEGross, 60, 55)
	set(facts, model.KeySecurities, 0, 0)
	set(facts, model.KeyDepreciation, 10, 9)
	set(facts, model.KeySGAExpense, 15, 12)
	set(facts, model.KeyCurrentLiabilities, 40, 35)
	set(facts, model.KeyLongTermDebt, 30, 25)
	set(facts, model.KeyNetIncome, 18, 14)
	set(facts, model.KeyCashFlowOps, 10, 8)

	sources := make(map[model.FactKey]model.Source)
	for _, k := range model.Schema() {
		sources[k] = model.SourceExtracted
	}
	return &model.ExtractionResult{
		Company:  "Acme Corp",
		Facts:    facts,
		Sources:  sources,
		Provider: "anthropic",
	}
}

func fixedPipeline(ext Extractor) *Pipeline {
	return New(ext, validate.New(validate.DefaultPolicy()),
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
		WithRunIDSource(func() string { return "run-1" }),
	)
}

func TestRun_CompleteAnalysis(t *testing.T) {
	ext := &mockExtractor{res: completeExtraction()}
	report, err := fixedPipeline(ext).Run(context.Background(), "doc", []string{"anthropic"})
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "Acme Corp", report.Company)
	assert.Equal(t, "anthropic", report.Provider)
	assert.Equal(t, model.ClassComplete, report.Validation.Classification)
	require.True(t, report.MScore.Defined)
	assert.InDelta(t, -2.065996774, report.MScore.Value, 1e-8)
	assert.Equal(t, model.RiskLow, report.Risk)
}

func TestRun_DeterministicWithFixedExtractor(t *testing.T) {
	p := fixedPipeline(&mockExtractor{res: completeExtraction()})

	a, err := p.Run(context.Background(), "doc", []string{"anthropic"})
	require.NoError(t, err)
	b, err := p.Run(context.Background(), "doc", []string{"anthropic"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_ExtractionFailureIsTerminal(t *testing.T) {
	ext := &mockExtractor{err: errors.New("all providers failed")}
	_, err := fixedPipeline(ext).Run(context.Background(), "doc", []string{"anthropic"})

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageExtraction, perr.Stage)
	assert.ErrorIs(t, err, ext.err)
}

func TestRun_InsufficientDegradesToPartialReport(t *testing.T) {
	res := completeExtraction()
	res.Facts[model.KeyCashFlowOps] = model.FactValue{}
	res.Sources[model.KeyCashFlowOps] = model.SourceMissing

	report, err := fixedPipeline(&mockExtractor{res: res}).Run(context.Background(), "doc", nil)
	require.NoError(t, err, "insufficient validation must not abort the run")

	assert.Equal(t, model.ClassInsufficient, report.Validation.Classification)
	assert.False(t, report.Ratios.TATA.Defined)
	assert.True(t, report.Ratios.SGI.Defined)
	assert.False(t, report.MScore.Defined)
	assert.Equal(t, model.RiskUndefined, report.Risk)
	assert.NotEmpty(t, report.Validation.Warnings)
}

func TestRun_FreshRunIDPerRun(t *testing.T) {
	ext := &mockExtractor{res: completeExtraction()}
	p := New(ext, validate.New(validate.DefaultPolicy()))

	a, err := p.Run(context.Background(), "doc", nil)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), "doc", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}
