package service

import (
	"github.com/chronic-risk-engine/internal/domain"
)

// RiskClassifier maps numeric combined scores to discrete risk bands through
// per-condition ordered threshold tables. The tables are configuration data:
// guideline updates adjust them without touching formula code.
type RiskClassifier struct {
	thresholds map[domain.Condition]domain.BandThresholds
}

// Default per-condition thresholds, used when configuration supplies none.
// Cardiovascular thresholds are on the 10-year percentage scale, diabetes on
// the ADA point scale, breast cancer on the 5-year percentage scale.
var defaultThresholds = map[domain.Condition]domain.BandThresholds{
	domain.CARDIOVASCULAR: {Low: 7.5, Moderate: 20},
	domain.DIABETES:       {Low: 3, Moderate: 5},
	domain.BREAST_CANCER:  {Low: 1.0, Moderate: 1.7},
}

// NewRiskClassifier builds a classifier from the configured threshold tables,
// falling back to the built-in defaults per condition.
func NewRiskClassifier(clinical *domain.ClinicalConfig) *RiskClassifier {
	thresholds := make(map[domain.Condition]domain.BandThresholds, len(defaultThresholds))
	for c, t := range defaultThresholds {
		thresholds[c] = t
	}
	for name, t := range clinical.Thresholds {
		c := domain.Condition(name)
		if c.IsValid() && t.Low > 0 && t.Moderate > t.Low {
			thresholds[c] = t
		}
	}
	return &RiskClassifier{thresholds: thresholds}
}

// Classify is a pure function of (condition, score). A nil score classifies
// as unknown, which callers must treat as "no data", not "no risk".
func (rc *RiskClassifier) Classify(c domain.Condition, score *float64) domain.RiskBand {
	if score == nil {
		return domain.UNKNOWN_RISK
	}

	t, ok := rc.thresholds[c]
	if !ok {
		t = domain.BandThresholds{Low: 7.5, Moderate: 20}
	}

	switch {
	case *score < t.Low:
		return domain.LOW_RISK
	case *score < t.Moderate:
		return domain.MODERATE_RISK
	default:
		return domain.HIGH_RISK
	}
}

// Thresholds exposes the active threshold pair for a condition.
func (rc *RiskClassifier) Thresholds(c domain.Condition) (domain.BandThresholds, bool) {
	t, ok := rc.thresholds[c]
	return t, ok
}
