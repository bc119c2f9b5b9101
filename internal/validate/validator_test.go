package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mscore-cli/internal/model"
)

func completeResult() *model.ExtractionResult {
	facts := model.NewFactSet()
	sources := make(map[model.FactKey]model.Source)
	for i, k := range model.Schema() {
		facts[k] = model.FactValue{
			Current: model.Float(float64(100 + i)),
			Prior:   model.Float(float64(90 + i)),
		}
		sources[k] = model.SourceExtracted
	}
	return &model.ExtractionResult{Facts: facts, Sources: sources}
}

func TestValidate_CompleteIsUnchanged(t *testing.T) {
	res := completeResult()
	report := New(DefaultPolicy()).Validate(res)

	assert.Equal(t, model.ClassComplete, report.Classification)
	assert.Empty(t, report.MissingKeys)
	assert.Empty(t, report.DefaultedKeys)
	assert.Equal(t, res.Facts, report.Facts)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	res := completeResult()
	res.Facts[model.KeySecurities] = model.FactValue{Current: model.Float(5)}

	report := New(DefaultPolicy()).Validate(res)

	assert.Nil(t, res.Facts[model.KeySecurities].Prior, "input fact set must stay untouched")
	require.NotNil(t, report.Facts[model.KeySecurities].Prior, "report fact set gets the carried value")
}

func TestValidate_CarryForwardEligibleKey(t *testing.T) {
	res := completeResult()
	res.Facts[model.KeySecurities] = model.FactValue{Prior: model.Float(7)}

	report := New(DefaultPolicy()).Validate(res)

	fv := report.Facts[model.KeySecurities]
	require.NotNil(t, fv.Current)
	assert.Equal(t, 7.0, *fv.Current)
	assert.Equal(t, model.SourceDefaulted, report.Sources[model.KeySecurities])
	assert.Equal(t, []model.FactKey{model.KeySecurities}, report.DefaultedKeys)
	assert.Equal(t, model.ClassComplete, report.Classification)
	assert.NotEmpty(t, report.Warnings)
}

func TestValidate_DenominatorKeyNeverCarried(t *testing.T) {
	res := completeResult()
	res.Facts[model.KeyTotalAssets] = model.FactValue{Current: model.Float(200)}

	p := Policy{CarryForward: []model.FactKey{model.KeyTotalAssets}}
	report := New(p).Validate(res)

	assert.Nil(t, report.Facts[model.KeyTotalAssets].Prior)
	assert.Contains(t, report.MissingKeys, model.KeyTotalAssets)
	assert.Equal(t, model.ClassInsufficient, report.Classification)
}

func TestValidate_BothPeriodsMissingNotCarried(t *testing.T) {
	res := completeResult()
	res.Facts[model.KeySecurities] = model.FactValue{}

	report := New(DefaultPolicy()).Validate(res)

	assert.Empty(t, report.DefaultedKeys)
	assert.Contains(t, report.MissingKeys, model.KeySecurities)
	assert.Equal(t, model.ClassInsufficient, report.Classification,
		"securities feeds AQI, so a full gap is unrecoverable")
}

func TestValidate_DegradedWhenGapOutsideRatioInputs(t *testing.T) {
	res := completeResult()
	// Prior-period net income is read by no ratio formula.
	res.Facts[model.KeyNetIncome] = model.FactValue{Current: model.Float(18)}

	report := New(DefaultPolicy()).Validate(res)

	assert.Equal(t, model.ClassDegraded, report.Classification)
	assert.Contains(t, report.MissingKeys, model.KeyNetIncome)
}

func TestValidate_InsufficientNamesTheRatio(t *testing.T) {
	res := completeResult()
	res.Facts[model.KeyCashFlowOps] = model.FactValue{}

	report := New(DefaultPolicy()).Validate(res)

	require.Equal(t, model.ClassInsufficient, report.Classification)
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "TATA") && strings.Contains(w, string(model.KeyCashFlowOps)) {
			found = true
		}
	}
	assert.True(t, found, "warning should name the undefined ratio and its missing key")
}

func TestValidate_UnitScaleRepair(t *testing.T) {
	res := completeResult()
	for _, k := range model.Schema() {
		fv := res.Facts[k]
		fv.Current = model.Float(*fv.Current * 1000)
		res.Facts[k] = fv
	}

	report := New(DefaultPolicy()).Validate(res)

	fv := report.Facts[model.KeyNetSales]
	assert.InDelta(t, *res.Facts[model.KeyNetSales].Current/1000, *fv.Current, 1e-9)
	assert.NotEmpty(t, report.Warnings)
	assert.Equal(t, model.ClassComplete, report.Classification)
}

func TestValidate_NoRepairForOrganicGrowth(t *testing.T) {
	res := completeResult()
	for _, k := range model.Schema() {
		fv := res.Facts[k]
		fv.Current = model.Float(*fv.Current * 3)
		res.Facts[k] = fv
	}

	report := New(DefaultPolicy()).Validate(res)
	assert.Empty(t, report.Warnings, "a 3x spread is growth, not a unit mismatch")
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("carry_forward:\n  - securities\n  - long_term_debt\n"), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.True(t, p.Eligible(model.KeySecurities))
	assert.True(t, p.Eligible(model.KeyLongTermDebt))
	assert.False(t, p.Eligible(model.KeySGAExpense))
}

func TestLoadPolicy_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("carry_forward: [ebitda]\n"), 0o644))

	_, err := LoadPolicy(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebitda")
}

func TestLoadPolicy_EmptyPathUsesDefault(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}
