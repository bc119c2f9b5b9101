package mscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mscore-cli/internal/model"
)

// twoPeriodFixture is a complete fact set with hand-checked expected
// ratio values.
func twoPeriodFixture() model.FactSet {
	set := func(f model.FactSet, k model.FactKey, cur, prior float64) {
		f[k] = model.FactValue{Current: model.Float(cur), Prior: model.Float(prior)}
	}
	f := model.NewFactSet()
	set(f, model.KeyNetSales, 120, 100)
	set(f, model.KeyCOGS, 70, 60)
	set(f, model.KeyReceivables, 20, 15)
	set(f, model.KeyTotalAssets, 200, 180)
	set(f, model.KeyCurrentAssets, 80, 70)
	set(f, model.KeyPPEGross, 60, 55)
	set(f, model.KeySecurities, 0, 0)
	set(f, model.KeyDepreciation, 10, 9)
	set(f, model.KeySGAExpense, 15, 12)
	set(f, model.KeyCurrentLiabilities, 40, 35)
	set(f, model.KeyLongTermDebt, 30, 25)
	set(f, model.KeyNetIncome, 18, 14)
	set(f, model.KeyCashFlowOps, 10, 8)
	return f
}

func TestCompute_KnownVector(t *testing.T) {
	res := Compute(twoPeriodFixture())

	want := map[model.RatioName]float64{
		model.RatioDSRI: 1.1111111111,
		model.RatioGMI:  0.96,
		model.RatioAQI:  0.9818181818,
		model.RatioSGI:  1.2,
		model.RatioDEPI: 0.984375,
		model.RatioSGAI: 1.0416666667,
		model.RatioLVGI: 1.05,
		model.RatioTATA: 0.04,
	}
	for _, nr := range res.Ratios.Named() {
		require.True(t, nr.Ratio.Defined, string(nr.Name))
		assert.InDelta(t, want[nr.Name], nr.Ratio.Value, 1e-9, string(nr.Name))
	}

	require.True(t, res.MScore.Defined)
	assert.InDelta(t, -2.065996774, res.MScore.Value, 1e-8)
	assert.Equal(t, model.RiskLow, res.Risk)
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(twoPeriodFixture())
	b := Compute(twoPeriodFixture())
	assert.Equal(t, a, b)
}

func TestCompute_ZeroDenominatorPropagates(t *testing.T) {
	f := twoPeriodFixture()
	f[model.KeyNetSales] = model.FactValue{Current: model.Float(120), Prior: model.Float(0)}

	res := Compute(f)
	assert.False(t, res.Ratios.DSRI.Defined)
	assert.False(t, res.Ratios.SGI.Defined)
	assert.True(t, res.Ratios.LVGI.Defined, "ratios not touching sales stay defined")
	assert.False(t, res.MScore.Defined, "one undefined ratio makes the composite undefined")
	assert.Equal(t, model.RiskUndefined, res.Risk)
}

func TestCompute_MissingInputUndefinesOnlyItsRatios(t *testing.T) {
	f := twoPeriodFixture()
	f[model.KeyReceivables] = model.FactValue{}

	res := Compute(f)
	assert.False(t, res.Ratios.DSRI.Defined)
	assert.True(t, res.Ratios.GMI.Defined)
	assert.True(t, res.Ratios.SGI.Defined)
	assert.True(t, res.Ratios.TATA.Defined)
	assert.False(t, res.MScore.Defined)
}

func TestCompute_ZeroTotalAssets(t *testing.T) {
	f := twoPeriodFixture()
	f[model.KeyTotalAssets] = model.FactValue{Current: model.Float(0), Prior: model.Float(0)}

	res := Compute(f)
	assert.False(t, res.Ratios.AQI.Defined)
	assert.False(t, res.Ratios.LVGI.Defined)
	assert.False(t, res.Ratios.TATA.Defined)
	assert.False(t, res.MScore.Defined)
}

func TestClassifyRisk(t *testing.T) {
	assert.Equal(t, model.RiskHigh, ClassifyRisk(model.DefinedRatio(0)))
	assert.Equal(t, model.RiskHigh, ClassifyRisk(model.DefinedRatio(-1.77)))
	assert.Equal(t, model.RiskLow, ClassifyRisk(model.DefinedRatio(-1.78)))
	assert.Equal(t, model.RiskLow, ClassifyRisk(model.DefinedRatio(-3.2)))
	assert.Equal(t, model.RiskUndefined, ClassifyRisk(model.UndefinedRatio()))
}

func TestMissingInputs(t *testing.T) {
	f := twoPeriodFixture()
	assert.Empty(t, MissingInputs(f), "complete fact set has no missing inputs")

	f[model.KeySecurities] = model.FactValue{Current: model.Float(0)}
	f[model.KeyCashFlowOps] = model.FactValue{}

	missing := MissingInputs(f)
	assert.ElementsMatch(t, []model.FactKey{model.KeySecurities}, missing[model.RatioAQI])
	assert.ElementsMatch(t, []model.FactKey{model.KeyCashFlowOps}, missing[model.RatioTATA])
	assert.NotContains(t, missing, model.RatioSGI)
	assert.NotContains(t, missing, model.RatioDSRI)
}

func TestMissingInputs_PriorOnlyKeyDoesNotAffectTATA(t *testing.T) {
	f := twoPeriodFixture()
	f[model.KeyNetIncome] = model.FactValue{Current: model.Float(18)}

	missing := MissingInputs(f)
	assert.NotContains(t, missing, model.RatioTATA, "TATA reads only current-period values")
}
