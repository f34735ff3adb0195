package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronic-risk-engine/internal/domain"
)

func okResult(f domain.FormulaID, score float64) domain.FormulaResult {
	return domain.FormulaResult{Formula: f, Status: domain.FORMULA_OK, Score: score}
}

func naResult(f domain.FormulaID) domain.FormulaResult {
	return domain.FormulaResult{Formula: f, Status: domain.FORMULA_NOT_APPLICABLE, Reason: "n/a"}
}

func TestAggregatorMeanAndConfidence(t *testing.T) {
	a := NewConditionAggregator(testLogger())
	results := []domain.FormulaResult{
		okResult(domain.FRAMINGHAM, 10),
		okResult(domain.ASCVD, 20),
	}

	combined, confidence := a.Combine(domain.CARDIOVASCULAR, results)

	require.NotNil(t, combined)
	assert.Equal(t, 15.0, *combined)
	assert.Equal(t, 1.0, confidence)
}

func TestAggregatorConfidenceIsExactFraction(t *testing.T) {
	a := NewConditionAggregator(testLogger())
	results := []domain.FormulaResult{
		okResult(domain.ADA_RISK, 6),
		naResult(domain.FINDRISC),
	}

	combined, confidence := a.Combine(domain.DIABETES, results)

	require.NotNil(t, combined)
	assert.Equal(t, 6.0, *combined)
	assert.Equal(t, 0.5, confidence)
}

// Confidence is zero if and only if the combined score is nil.
func TestAggregatorZeroSuccessesYieldsNilScore(t *testing.T) {
	a := NewConditionAggregator(testLogger())
	results := []domain.FormulaResult{
		naResult(domain.GAIL),
		naResult(domain.TYRER_CUZICK),
	}

	combined, confidence := a.Combine(domain.BREAST_CANCER, results)

	assert.Nil(t, combined)
	assert.Equal(t, 0.0, confidence)
}

func TestAggregatorFailedResultsExcluded(t *testing.T) {
	a := NewConditionAggregator(testLogger())
	results := []domain.FormulaResult{
		okResult(domain.FRAMINGHAM, 30),
		{Formula: domain.ASCVD, Status: domain.FORMULA_FAILED, Reason: "boom", Score: 999},
	}

	combined, confidence := a.Combine(domain.CARDIOVASCULAR, results)

	require.NotNil(t, combined)
	assert.Equal(t, 30.0, *combined, "failed scores must not contribute to the mean")
	assert.Equal(t, 0.5, confidence)
}

func TestAggregatorEmptyResults(t *testing.T) {
	a := NewConditionAggregator(testLogger())

	combined, confidence := a.Combine(domain.CARDIOVASCULAR, nil)

	assert.Nil(t, combined)
	assert.Equal(t, 0.0, confidence)
}
