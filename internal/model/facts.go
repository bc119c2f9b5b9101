package model

// FactKey identifies a financial line item in the extraction schema.
type FactKey string

const (
	KeyNetSales           FactKey = "net_sales"
	KeyCOGS               FactKey = "cogs"
	KeySGAExpense         FactKey = "sga_expense"
	KeyDepreciation       FactKey = "depreciation"
	KeyNetIncome          FactKey = "net_income"
	KeyReceivables        FactKey = "receivables"
	KeyCurrentAssets      FactKey = "current_assets"
	KeyPPEGross           FactKey = "ppe_gross"
	KeySecurities         FactKey = "securities"
	KeyTotalAssets        FactKey = "total_assets"
	KeyCurrentLiabilities FactKey = "current_liabilities"
	KeyLongTermDebt       FactKey = "long_term_debt"
	KeyCashFlowOps        FactKey = "cash_flow_from_operations"
)

// Schema returns the ordered list of line-item keys required for a full
// M-Score calculation. The order is part of the prompt contract and the
// TSV export layout, so it must stay stable.
func Schema() []FactKey {
	return []FactKey{
		KeyNetSales,
		KeyCOGS,
		KeySGAExpense,
		KeyDepreciation,
		KeyNetIncome,
		KeyReceivables,
		KeyCurrentAssets,
		KeyPPEGross,
		KeySecurities,
		KeyTotalAssets,
		KeyCurrentLiabilities,
		KeyLongTermDebt,
		KeyCashFlowOps,
	}
}

// ValidKey reports whether k is part of the extraction schema.
func ValidKey(k FactKey) bool {
	for _, s := range Schema() {
		if s == k {
			return true
		}
	}
	return false
}

// FactValue holds the two-period value pair for a single line item.
// A nil period means the value is explicitly missing.
type FactValue struct {
	Current *float64 `json:"current"`
	Prior   *float64 `json:"prior"`
}

// Complete reports whether both periods are present.
func (v FactValue) Complete() bool {
	return v.Current != nil && v.Prior != nil
}

// FactSet maps every schema key to its two-period value pair. Missing
// entries are explicit (key present, period nil), so completeness checks
// are total over the schema.
type FactSet map[FactKey]FactValue

// NewFactSet returns a FactSet with every schema key present and both
// periods missing.
func NewFactSet() FactSet {
	fs := make(FactSet, len(Schema()))
	for _, k := range Schema() {
		fs[k] = FactValue{}
	}
	return fs
}

// Clone returns a deep copy. Pointer values are copied so mutating the
// clone never aliases the original.
func (fs FactSet) Clone() FactSet {
	out := make(FactSet, len(fs))
	for k, v := range fs {
		cv := FactValue{}
		if v.Current != nil {
			c := *v.Current
			cv.Current = &c
		}
		if v.Prior != nil {
			p := *v.Prior
			cv.Prior = &p
		}
		out[k] = cv
	}
	return out
}

// MissingKeys returns schema keys with at least one missing period, in
// schema order.
func (fs FactSet) MissingKeys() []FactKey {
	var missing []FactKey
	for _, k := range Schema() {
		if !fs[k].Complete() {
			missing = append(missing, k)
		}
	}
	return missing
}

// Float returns a pointer to v, for building FactValues in literals.
func Float(v float64) *float64 {
	return &v
}
