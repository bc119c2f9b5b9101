package model

// Classification is the three-state outcome of fact validation.
type Classification string

const (
	// ClassComplete means every schema key has both periods.
	ClassComplete Classification = "complete"
	// ClassDegraded means keys are missing or defaulted but every ratio can
	// still be computed.
	ClassDegraded Classification = "degraded"
	// ClassInsufficient means at least one ratio has an unrecoverable
	// missing input. Calculation still proceeds with undefined markers.
	ClassInsufficient Classification = "insufficient"
)

// ValidationReport is the validator's verdict on an ExtractionResult,
// carrying the (possibly policy-filled) FactSet the calculator consumes.
type ValidationReport struct {
	Classification Classification     `json:"classification"`
	MissingKeys    []FactKey          `json:"missing_keys,omitempty"`
	DefaultedKeys  []FactKey          `json:"defaulted_keys,omitempty"`
	Facts          FactSet            `json:"facts"`
	Sources        map[FactKey]Source `json:"sources"`
	Warnings       []string           `json:"warnings,omitempty"`
}
