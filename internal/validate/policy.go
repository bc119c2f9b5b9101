package validate

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/mscore-cli/internal/model"
)

// denominatorKeys are facts that appear in a ratio denominator. A carried
// value in a denominator silently reshapes every ratio built on it, so
// these keys are never carry-forward eligible regardless of policy.
var denominatorKeys = map[model.FactKey]bool{
	model.KeyNetSales:    true,
	model.KeyTotalAssets: true,
	model.KeyPPEGross:    true,
	model.KeyReceivables: true,
}

// Policy is the configurable missing-value substitution table. A key
// listed under carry_forward may have a single missing period filled from
// the other period's value.
type Policy struct {
	CarryForward []model.FactKey `yaml:"carry_forward"`
}

// DefaultPolicy permits carry-forward for slow-moving items only.
func DefaultPolicy() Policy {
	return Policy{
		CarryForward: []model.FactKey{
			model.KeySecurities,
			model.KeyDepreciation,
			model.KeySGAExpense,
		},
	}
}

// LoadPolicy reads a policy table from a YAML file. An empty path returns
// the default policy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrap(err, "validate: read policy file")
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, eris.Wrap(err, "validate: parse policy file")
	}
	for _, k := range p.CarryForward {
		if !model.ValidKey(k) {
			return Policy{}, eris.Errorf("validate: policy lists unknown key %q", k)
		}
	}
	return p, nil
}

// Eligible reports whether a key may be carry-forward filled. Denominator
// keys are excluded even when the table lists them.
func (p Policy) Eligible(k model.FactKey) bool {
	if denominatorKeys[k] {
		return false
	}
	for _, c := range p.CarryForward {
		if c == k {
			return true
		}
	}
	return false
}
