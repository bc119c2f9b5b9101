// Package mscore implements the Beneish M-Score model: eight financial
// ratios over a two-period fact set, a weighted composite, and a risk
// classification against the published threshold. Everything here is pure
// and deterministic; missing inputs and zero denominators produce explicit
// undefined markers, never substituted values.
package mscore

import (
	"math"

	"github.com/sells-group/mscore-cli/internal/model"
)

// Published model constants. Fixed by the Beneish (1999) specification.
const (
	Intercept     = -4.84
	RiskThreshold = -1.78

	weightDSRI = 0.920
	weightGMI  = 0.528
	weightAQI  = 0.404
	weightSGI  = 0.892
	weightDEPI = 0.115
	weightSGAI = -0.172
	weightLVGI = -0.327
	weightTATA = 4.679
)

// Result carries the ratios, the composite score, and the risk level for
// one fact set.
type Result struct {
	Ratios model.RatioSet
	MScore model.Ratio
	Risk   model.RiskLevel
}

// Compute evaluates the full model over facts. The composite score is
// undefined when any constituent ratio is undefined.
func Compute(facts model.FactSet) Result {
	ratios := ComputeRatios(facts)
	score := CompositeScore(ratios)
	return Result{
		Ratios: ratios,
		MScore: score,
		Risk:   ClassifyRisk(score),
	}
}

// ComputeRatios evaluates the eight constituent ratios.
func ComputeRatios(f model.FactSet) model.RatioSet {
	return model.RatioSet{
		DSRI: dsri(f),
		GMI:  gmi(f),
		AQI:  aqi(f),
		SGI:  sgi(f),
		DEPI: depi(f),
		SGAI: sgai(f),
		LVGI: lvgi(f),
		TATA: tata(f),
	}
}

// CompositeScore applies the published weights. Undefined if any input
// ratio is undefined.
func CompositeScore(rs model.RatioSet) model.Ratio {
	if !rs.AllDefined() {
		return model.UndefinedRatio()
	}
	score := Intercept +
		weightDSRI*rs.DSRI.Value +
		weightGMI*rs.GMI.Value +
		weightAQI*rs.AQI.Value +
		weightSGI*rs.SGI.Value +
		weightDEPI*rs.DEPI.Value +
		weightSGAI*rs.SGAI.Value +
		weightLVGI*rs.LVGI.Value +
		weightTATA*rs.TATA.Value
	return finite(score)
}

// ClassifyRisk maps a composite score to a risk level.
func ClassifyRisk(score model.Ratio) model.RiskLevel {
	switch {
	case !score.Defined:
		return model.RiskUndefined
	case score.Value > RiskThreshold:
		return model.RiskHigh
	default:
		return model.RiskLow
	}
}

// DSRI: (Receivables_c / Sales_c) / (Receivables_p / Sales_p)
func dsri(f model.FactSet) model.Ratio {
	recC, recP, ok := both(f, model.KeyReceivables)
	if !ok {
		return model.UndefinedRatio()
	}
	salesC, salesP, ok := both(f, model.KeyNetSales)
	if !ok {
		return model.UndefinedRatio()
	}
	return div2(recC, salesC, recP, salesP)
}

// GMI: GrossMargin_p / GrossMargin_c, GrossMargin = (Sales - COGS) / Sales
func gmi(f model.FactSet) model.Ratio {
	salesC, salesP, ok := both(f, model.KeyNetSales)
	if !ok {
		return model.UndefinedRatio()
	}
	cogsC, cogsP, ok := both(f, model.KeyCOGS)
	if !ok {
		return model.UndefinedRatio()
	}
	return div2(salesP-cogsP, salesP, salesC-cogsC, salesC)
}

// AQI: (1 - (CA_c + PPE_c + Sec_c) / TA_c) / (1 - (CA_p + PPE_p + Sec_p) / TA_p)
func aqi(f model.FactSet) model.Ratio {
	caC, caP, ok := both(f, model.KeyCurrentAssets)
	if !ok {
		return model.UndefinedRatio()
	}
	ppeC, ppeP, ok := both(f, model.KeyPPEGross)
	if !ok {
		return model.UndefinedRatio()
	}
	secC, secP, ok := both(f, model.KeySecurities)
	if !ok {
		return model.UndefinedRatio()
	}
	taC, taP, ok := both(f, model.KeyTotalAssets)
	if !ok {
		return model.UndefinedRatio()
	}
	if taC == 0 || taP == 0 {
		return model.UndefinedRatio()
	}
	softC := 1 - (caC+ppeC+secC)/taC
	softP := 1 - (caP+ppeP+secP)/taP
	return div(softC, softP)
}

// SGI: Sales_c / Sales_p
func sgi(f model.FactSet) model.Ratio {
	salesC, salesP, ok := both(f, model.KeyNetSales)
	if !ok {
		return model.UndefinedRatio()
	}
	return div(salesC, salesP)
}

// DEPI: (Dep_p / (Dep_p + PPE_p)) / (Dep_c / (Dep_c + PPE_c))
func depi(f model.FactSet) model.Ratio {
	depC, depP, ok := both(f, model.KeyDepreciation)
	if !ok {
		return model.UndefinedRatio()
	}
	ppeC, ppeP, ok := both(f, model.KeyPPEGross)
	if !ok {
		return model.UndefinedRatio()
	}
	return div2(depP, depP+ppeP, depC, depC+ppeC)
}

// SGAI: (SGA_c / Sales_c) / (SGA_p / Sales_p)
func sgai(f model.FactSet) model.Ratio {
	sgaC, sgaP, ok := both(f, model.KeySGAExpense)
	if !ok {
		return model.UndefinedRatio()
	}
	salesC, salesP, ok := both(f, model.KeyNetSales)
	if !ok {
		return model.UndefinedRatio()
	}
	return div2(sgaC, salesC, sgaP, salesP)
}

// LVGI: ((CL_c + LTD_c) / TA_c) / ((CL_p + LTD_p) / TA_p)
func lvgi(f model.FactSet) model.Ratio {
	clC, clP, ok := both(f, model.KeyCurrentLiabilities)
	if !ok {
		return model.UndefinedRatio()
	}
	ltdC, ltdP, ok := both(f, model.KeyLongTermDebt)
	if !ok {
		return model.UndefinedRatio()
	}
	taC, taP, ok := both(f, model.KeyTotalAssets)
	if !ok {
		return model.UndefinedRatio()
	}
	return div2(clC+ltdC, taC, clP+ltdP, taP)
}

// TATA: (NetIncome_c - CashFlowOps_c) / TotalAssets_c
func tata(f model.FactSet) model.Ratio {
	ni := f[model.KeyNetIncome].Current
	cfo := f[model.KeyCashFlowOps].Current
	ta := f[model.KeyTotalAssets].Current
	if ni == nil || cfo == nil || ta == nil {
		return model.UndefinedRatio()
	}
	return div(*ni-*cfo, *ta)
}

// both returns the two period values for a key, or ok=false when either
// is missing.
func both(f model.FactSet, k model.FactKey) (cur, prior float64, ok bool) {
	v := f[k]
	if !v.Complete() {
		return 0, 0, false
	}
	return *v.Current, *v.Prior, true
}

// div is a/b with explicit undefined on a zero denominator.
func div(a, b float64) model.Ratio {
	if b == 0 {
		return model.UndefinedRatio()
	}
	return finite(a / b)
}

// div2 is (a/b) / (c/d), undefined when any denominator along the way is
// zero. Note c/d == 0 makes the outer quotient undefined even with d != 0.
func div2(a, b, c, d float64) model.Ratio {
	if b == 0 || d == 0 {
		return model.UndefinedRatio()
	}
	inner := c / d
	if inner == 0 {
		return model.UndefinedRatio()
	}
	return finite((a / b) / inner)
}

func finite(v float64) model.Ratio {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.UndefinedRatio()
	}
	return model.DefinedRatio(v)
}
