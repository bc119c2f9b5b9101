package mscore

import "github.com/sells-group/mscore-cli/internal/model"

// Period selects one side of a two-period fact.
type Period int

const (
	PeriodCurrent Period = iota
	PeriodPrior
)

// Input names one period of one fact key that a ratio formula reads.
type Input struct {
	Key    model.FactKey
	Period Period
}

func cur(k model.FactKey) Input   { return Input{Key: k, Period: PeriodCurrent} }
func prior(k model.FactKey) Input { return Input{Key: k, Period: PeriodPrior} }

func twoPeriod(keys ...model.FactKey) []Input {
	out := make([]Input, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, cur(k), prior(k))
	}
	return out
}

// ratioInputs lists the fact inputs each ratio formula requires. The
// validator uses this to tell a recoverable gap from an unrecoverable one.
var ratioInputs = map[model.RatioName][]Input{
	model.RatioDSRI: twoPeriod(model.KeyReceivables, model.KeyNetSales),
	model.RatioGMI:  twoPeriod(model.KeyNetSales, model.KeyCOGS),
	model.RatioAQI: twoPeriod(model.KeyCurrentAssets, model.KeyPPEGross,
		model.KeySecurities, model.KeyTotalAssets),
	model.RatioSGI:  twoPeriod(model.KeyNetSales),
	model.RatioDEPI: twoPeriod(model.KeyDepreciation, model.KeyPPEGross),
	model.RatioSGAI: twoPeriod(model.KeySGAExpense, model.KeyNetSales),
	model.RatioLVGI: twoPeriod(model.KeyCurrentLiabilities, model.KeyLongTermDebt,
		model.KeyTotalAssets),
	model.RatioTATA: {
		cur(model.KeyNetIncome),
		cur(model.KeyCashFlowOps),
		cur(model.KeyTotalAssets),
	},
}

// Inputs returns the fact inputs required by one ratio.
func Inputs(name model.RatioName) []Input {
	return ratioInputs[name]
}

// MissingInputs reports, per ratio, the fact keys whose required period
// values are absent from facts. Ratios with an empty (absent) entry have
// all inputs available.
func MissingInputs(facts model.FactSet) map[model.RatioName][]model.FactKey {
	out := make(map[model.RatioName][]model.FactKey)
	for name, inputs := range ratioInputs {
		seen := make(map[model.FactKey]bool)
		for _, in := range inputs {
			v := facts[in.Key]
			p := v.Current
			if in.Period == PeriodPrior {
				p = v.Prior
			}
			if p == nil && !seen[in.Key] {
				seen[in.Key] = true
				out[name] = append(out[name], in.Key)
			}
		}
	}
	return out
}
