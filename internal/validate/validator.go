// Package validate checks an extraction result for completeness against
// the fact schema, applies the missing-value policy, and classifies the
// outcome as complete, degraded, or insufficient.
package validate

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/mscore-cli/internal/model"
	"github.com/sells-group/mscore-cli/internal/mscore"
)

// Validator applies the carry-forward policy and classifies fact sets.
type Validator struct {
	policy Policy
}

// New builds a Validator with the given policy.
func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate produces the report the calculator consumes. The input result
// is not mutated; the report carries its own fact set.
func (v *Validator) Validate(res *model.ExtractionResult) model.ValidationReport {
	facts := res.Facts.Clone()
	sources := make(map[model.FactKey]model.Source, len(res.Sources))
	for k, s := range res.Sources {
		sources[k] = s
	}

	report := model.ValidationReport{
		Facts:   facts,
		Sources: sources,
	}

	if warn := repairUnitScale(facts); warn != "" {
		report.Warnings = append(report.Warnings, warn)
	}

	v.carryForward(&report)

	report.MissingKeys = facts.MissingKeys()
	report.Classification = v.classify(facts, &report)

	zap.L().Debug("validation finished",
		zap.String("classification", string(report.Classification)),
		zap.Int("missing", len(report.MissingKeys)),
		zap.Int("defaulted", len(report.DefaultedKeys)))
	return report
}

// carryForward fills single-period gaps for policy-eligible keys from the
// other period's value.
func (v *Validator) carryForward(report *model.ValidationReport) {
	for _, k := range model.Schema() {
		fv := report.Facts[k]
		if fv.Complete() || (fv.Current == nil && fv.Prior == nil) {
			continue
		}
		if !v.policy.Eligible(k) {
			continue
		}
		if fv.Current == nil {
			fv.Current = model.Float(*fv.Prior)
		} else {
			fv.Prior = model.Float(*fv.Current)
		}
		report.Facts[k] = fv
		report.Sources[k] = model.SourceDefaulted
		report.DefaultedKeys = append(report.DefaultedKeys, k)
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s: one period missing, carried forward from the other period", k))
	}
}

func (v *Validator) classify(facts model.FactSet, report *model.ValidationReport) model.Classification {
	if len(facts.MissingKeys()) == 0 {
		return model.ClassComplete
	}

	missing := mscore.MissingInputs(facts)
	if len(missing) == 0 {
		return model.ClassDegraded
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s cannot be computed: missing %v", name, missing[model.RatioName(name)]))
	}
	return model.ClassInsufficient
}

// repairUnitScale detects the one mechanical unit error the prompt cannot
// always prevent: one period reported in thousands while the other is in
// millions. When the magnitude medians of the two periods sit about
// three orders apart, the larger period is divided by 1000. Anything less
// clear-cut is left alone.
func repairUnitScale(facts model.FactSet) string {
	var curs, priors []float64
	for _, k := range model.Schema() {
		fv := facts[k]
		if !fv.Complete() || *fv.Current == 0 || *fv.Prior == 0 {
			continue
		}
		curs = append(curs, math.Abs(*fv.Current))
		priors = append(priors, math.Abs(*fv.Prior))
	}
	// Too few complete pairs to call a scale mismatch.
	if len(curs) < 4 {
		return ""
	}

	// Compare magnitudes on a log scale so ordinary year-over-year growth
	// does not look like a unit error.
	orders := math.Log10(median(curs) / median(priors))
	switch {
	case orders > 2.5 && orders < 3.5:
		scalePeriod(facts, true)
		return "current period appears to be in thousands, rescaled to match prior period"
	case orders < -2.5 && orders > -3.5:
		scalePeriod(facts, false)
		return "prior period appears to be in thousands, rescaled to match current period"
	}
	return ""
}

func scalePeriod(facts model.FactSet, current bool) {
	for _, k := range model.Schema() {
		fv := facts[k]
		if current && fv.Current != nil {
			fv.Current = model.Float(*fv.Current / 1000)
		}
		if !current && fv.Prior != nil {
			fv.Prior = model.Float(*fv.Prior / 1000)
		}
		facts[k] = fv
	}
}

func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
