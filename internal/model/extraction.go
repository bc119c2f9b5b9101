package model

// Source describes where a field value came from.
type Source string

const (
	// SourceExtracted means both periods were parsed from the provider response.
	SourceExtracted Source = "extracted"
	// SourceDefaulted means the validator filled a missing period via the
	// carry-forward policy.
	SourceDefaulted Source = "defaulted"
	// SourceMissing means at least one period could not be recovered.
	SourceMissing Source = "missing"
)

// ExtractionResult is the structured outcome of one extraction call.
// It is immutable once produced by the orchestrator; the validator works
// on a clone of Facts.
type ExtractionResult struct {
	// Company is the company name reported by the model, if any.
	Company string `json:"company,omitempty"`
	// Facts holds the parsed two-period values, total over the schema.
	Facts FactSet `json:"facts"`
	// Sources records per-field provenance.
	Sources map[FactKey]Source `json:"sources"`
	// Provider is the id of the provider that produced the accepted response.
	Provider string `json:"provider"`
	// RawResponse is the unmodified provider response text, kept for
	// diagnostics only.
	RawResponse string `json:"-"`
}
