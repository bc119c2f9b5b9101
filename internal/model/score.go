package model

import "time"

// Ratio is a finite real number or an explicit undefined marker. Undefined
// ratios arise from division by zero or missing inputs and are never
// silently substituted with a numeric default.
type Ratio struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedRatio builds a defined Ratio.
func DefinedRatio(v float64) Ratio {
	return Ratio{Value: v, Defined: true}
}

// UndefinedRatio is the explicit undefined marker.
func UndefinedRatio() Ratio {
	return Ratio{}
}

// RatioName identifies one of the eight Beneish ratios.
type RatioName string

const (
	RatioDSRI RatioName = "DSRI"
	RatioGMI  RatioName = "GMI"
	RatioAQI  RatioName = "AQI"
	RatioSGI  RatioName = "SGI"
	RatioDEPI RatioName = "DEPI"
	RatioSGAI RatioName = "SGAI"
	RatioLVGI RatioName = "LVGI"
	RatioTATA RatioName = "TATA"
)

// RatioSet holds the eight Beneish ratios.
type RatioSet struct {
	DSRI Ratio `json:"dsri"`
	GMI  Ratio `json:"gmi"`
	AQI  Ratio `json:"aqi"`
	SGI  Ratio `json:"sgi"`
	DEPI Ratio `json:"depi"`
	SGAI Ratio `json:"sgai"`
	LVGI Ratio `json:"lvgi"`
	TATA Ratio `json:"tata"`
}

// NamedRatio pairs a ratio with its name for ordered iteration.
type NamedRatio struct {
	Name  RatioName
	Ratio Ratio
}

// Named returns the ratios in canonical order.
func (rs RatioSet) Named() []NamedRatio {
	return []NamedRatio{
		{RatioDSRI, rs.DSRI},
		{RatioGMI, rs.GMI},
		{RatioAQI, rs.AQI},
		{RatioSGI, rs.SGI},
		{RatioDEPI, rs.DEPI},
		{RatioSGAI, rs.SGAI},
		{RatioLVGI, rs.LVGI},
		{RatioTATA, rs.TATA},
	}
}

// AllDefined reports whether every ratio carries a finite value.
func (rs RatioSet) AllDefined() bool {
	for _, nr := range rs.Named() {
		if !nr.Ratio.Defined {
			return false
		}
	}
	return true
}

// RiskLevel classifies the M-Score against the published -1.78 threshold.
type RiskLevel string

const (
	RiskLow       RiskLevel = "low"
	RiskHigh      RiskLevel = "high"
	RiskUndefined RiskLevel = "undefined"
)

// Interpretation returns the plain-language reading of the risk level.
func (r RiskLevel) Interpretation() string {
	switch r {
	case RiskHigh:
		return "Company is likely to have manipulated their earnings"
	case RiskLow:
		return "Company is not likely to have manipulated their earnings"
	default:
		return "Score could not be computed from the available data"
	}
}

// ScoreReport is the final, immutable outcome of one analysis run. A rerun
// produces a new report with a fresh RunID.
type ScoreReport struct {
	RunID      string           `json:"run_id"`
	Company    string           `json:"company,omitempty"`
	MScore     Ratio            `json:"m_score"`
	Risk       RiskLevel        `json:"risk"`
	Ratios     RatioSet         `json:"ratios"`
	Validation ValidationReport `json:"validation"`
	Provider   string           `json:"provider"`
	CreatedAt  time.Time        `json:"created_at"`
}
