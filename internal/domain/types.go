// Package domain contains core business entities and types for multi-algorithm
// chronic disease risk assessment (cardiovascular disease, type 2 diabetes,
// breast cancer).
//
// References: D'Agostino et al. (2008) General cardiovascular risk profile for
// use in primary care (Framingham). Circulation 117(6):743-53.
// Goff et al. (2013) ACC/AHA Guideline on the Assessment of Cardiovascular Risk
// (Pooled Cohort Equations). Circulation 129(25 Suppl 2):S49-73.
// Gail et al. (1989) Projecting individualized probabilities of developing
// breast cancer. J Natl Cancer Inst 81(24):1879-86.
package domain

import "errors"

// Condition identifies a chronic condition supported by the risk engine.
type Condition string

const (
	CARDIOVASCULAR Condition = "cardiovascular"
	DIABETES       Condition = "diabetes"
	BREAST_CANCER  Condition = "breast_cancer"
)

// FormulaID identifies a named scoring formula implementation.
type FormulaID string

const (
	FRAMINGHAM   FormulaID = "framingham"
	ASCVD        FormulaID = "ascvd"
	ADA_RISK     FormulaID = "ada_risk_test"
	GAIL         FormulaID = "gail"
	FINDRISC     FormulaID = "findrisc"
	TYRER_CUZICK FormulaID = "tyrer_cuzick"
)

// RiskBand represents the discrete risk category derived from a numeric score.
// UNKNOWN_RISK is a distinct outcome from LOW_RISK: it means no formula
// produced a usable score, never that the patient is at low risk.
type RiskBand string

const (
	LOW_RISK      RiskBand = "low"
	MODERATE_RISK RiskBand = "moderate"
	HIGH_RISK     RiskBand = "high"
	UNKNOWN_RISK  RiskBand = "unknown"
)

// UrgencyLevel represents the intervention timeframe derived from a risk band.
type UrgencyLevel string

const (
	IMMEDIATE UrgencyLevel = "immediate"
	SOON      UrgencyLevel = "soon"
	ROUTINE   UrgencyLevel = "routine"
)

// Sex is the biological sex used by the scoring formulas.
type Sex string

const (
	MALE   Sex = "male"
	FEMALE Sex = "female"
)

// SmokingStatus represents self-reported smoking history.
type SmokingStatus string

const (
	CURRENT_SMOKER SmokingStatus = "current"
	FORMER_SMOKER  SmokingStatus = "former"
	NEVER_SMOKER   SmokingStatus = "never"
)

// ImpactLevel is the qualitative impact of a modifiable risk factor.
type ImpactLevel string

const (
	HIGH_IMPACT   ImpactLevel = "high"
	MEDIUM_IMPACT ImpactLevel = "medium"
)

// FormulaStatus describes the outcome of a single formula invocation.
type FormulaStatus string

const (
	FORMULA_OK             FormulaStatus = "OK"
	FORMULA_NOT_APPLICABLE FormulaStatus = "NOT_APPLICABLE"
	FORMULA_FAILED         FormulaStatus = "FAILED"
)

// Validation errors for clinical data integrity
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrInvalidRiskBand  = errors.New("invalid risk band")
	ErrInvalidSex       = errors.New("invalid biological sex")
	ErrInvalidUrgency   = errors.New("invalid urgency level")
)

// IsValid reports whether the condition is one the engine knows about.
func (c Condition) IsValid() bool {
	switch c {
	case CARDIOVASCULAR, DIABETES, BREAST_CANCER:
		return true
	default:
		return false
	}
}

// String returns the string representation of the condition.
func (c Condition) String() string {
	return string(c)
}

// IsValid reports whether the band is a recognised risk category.
func (rb RiskBand) IsValid() bool {
	switch rb {
	case LOW_RISK, MODERATE_RISK, HIGH_RISK, UNKNOWN_RISK:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk band.
func (rb RiskBand) String() string {
	return string(rb)
}

// LogFields returns structured logging fields for audit trails.
// Risk bands drive clinical follow-up, so band assignments are logged with
// enough context to reconstruct the decision.
func (rb RiskBand) LogFields() map[string]any {
	return map[string]any{
		"risk_band":       string(rb),
		"is_valid":        rb.IsValid(),
		"is_scored":       rb != UNKNOWN_RISK,
		"requires_action": rb.RequiresClinicalAction(),
		"urgency":         string(rb.Urgency()),
	}
}

// RequiresClinicalAction determines whether the band warrants active clinical
// follow-up rather than routine preventive care.
func (rb RiskBand) RequiresClinicalAction() bool {
	switch rb {
	case HIGH_RISK, MODERATE_RISK:
		return true
	case LOW_RISK:
		return false
	default:
		return true // conservative for unknown bands
	}
}

// Urgency maps a risk band to its intervention urgency. The mapping is a pure
// function of the band: high risk escalates to immediate evaluation, moderate
// risk to a near-term visit, and low or unknown risk stays on the routine
// preventive schedule.
func (rb RiskBand) Urgency() UrgencyLevel {
	switch rb {
	case HIGH_RISK:
		return IMMEDIATE
	case MODERATE_RISK:
		return SOON
	default:
		return ROUTINE
	}
}

// IsValid reports whether the urgency level is recognised.
func (u UrgencyLevel) IsValid() bool {
	switch u {
	case IMMEDIATE, SOON, ROUTINE:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency level.
func (u UrgencyLevel) String() string {
	return string(u)
}

// IsValid validates the biological sex value used by the formulas.
func (s Sex) IsValid() bool {
	switch s {
	case MALE, FEMALE:
		return true
	default:
		return false
	}
}

// IsValid validates the smoking status.
func (ss SmokingStatus) IsValid() bool {
	switch ss {
	case CURRENT_SMOKER, FORMER_SMOKER, NEVER_SMOKER:
		return true
	default:
		return false
	}
}

// IsValid validates the formula invocation status.
func (fs FormulaStatus) IsValid() bool {
	switch fs {
	case FORMULA_OK, FORMULA_NOT_APPLICABLE, FORMULA_FAILED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the formula identifier.
func (f FormulaID) String() string {
	return string(f)
}
