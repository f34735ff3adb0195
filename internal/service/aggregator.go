package service

import (
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// ConditionAggregator combines the formula results for one condition into a
// single confidence-weighted estimate. All successful formulas contribute
// equally to the mean: the uniform weighting across estimators of differing
// pedigree is a deliberate policy, kept so that results stay comparable
// across releases unless the policy itself is revisited.
type ConditionAggregator struct {
	logger *logrus.Logger
}

// NewConditionAggregator creates a condition aggregator.
func NewConditionAggregator(logger *logrus.Logger) *ConditionAggregator {
	return &ConditionAggregator{logger: logger}
}

// Combine computes the combined score and confidence for one condition's
// formula results. combinedScore is the mean of successful scores, nil when
// none succeeded; confidence is exactly successCount/totalCount. A nil score
// with confidence 0 is a distinct "no data" outcome, never zero risk.
func (a *ConditionAggregator) Combine(c domain.Condition, results []domain.FormulaResult) (combined *float64, confidence float64) {
	total := len(results)
	if total == 0 {
		return nil, 0
	}

	var sum float64
	var successes int
	for i := range results {
		if results[i].Succeeded() {
			sum += results[i].Score
			successes++
		}
	}

	confidence = float64(successes) / float64(total)
	if confidence > 1.0 {
		confidence = 1.0
	}

	if successes == 0 {
		a.logger.WithFields(logrus.Fields{
			"condition": c.String(),
			"formulas":  total,
		}).Warn("No formula produced a score; condition will be reported as unknown")
		return nil, 0
	}

	mean := sum / float64(successes)
	return &mean, confidence
}
