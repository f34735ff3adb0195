package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronic-risk-engine/internal/domain"
)

func assessmentWithScore(v float64) domain.ConditionAssessment {
	return domain.ConditionAssessment{CombinedScore: &v}
}

func TestOverallScoreMeanInRequestOrder(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	requested := []domain.Condition{domain.CARDIOVASCULAR, domain.DIABETES, domain.BREAST_CANCER}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(21),
		domain.DIABETES:       assessmentWithScore(3),
		domain.BREAST_CANCER:  {}, // unscored, excluded
	}

	overall := p.OverallScore(requested, assessments)
	require.NotNil(t, overall)
	assert.InDelta(t, 12.0, *overall, 1e-9)
}

func TestOverallScoreCountsRepeatedConditionOnce(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	requested := []domain.Condition{domain.CARDIOVASCULAR, domain.CARDIOVASCULAR, domain.DIABETES}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(20),
		domain.DIABETES:       assessmentWithScore(4),
	}

	// Mean of {20, 4}, not {20, 20, 4}.
	overall := p.OverallScore(requested, assessments)
	require.NotNil(t, overall)
	assert.InDelta(t, 12.0, *overall, 1e-9)
}

func TestOverallScoreNilWhenNothingScored(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	requested := []domain.Condition{domain.BREAST_CANCER}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.BREAST_CANCER: {},
	}

	assert.Nil(t, p.OverallScore(requested, assessments))
}

func TestOverallBand(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	tests := []struct {
		name        string
		overall     *float64
		assessments map[domain.Condition]domain.ConditionAssessment
		expected    domain.RiskBand
	}{
		{
			name:     "nil overall is unknown",
			overall:  nil,
			expected: domain.UNKNOWN_RISK,
		},
		{
			name:    "any condition at high cutoff dominates a low mean",
			overall: score(11.5),
			assessments: map[domain.Condition]domain.ConditionAssessment{
				domain.CARDIOVASCULAR: assessmentWithScore(20),
				domain.DIABETES:       assessmentWithScore(3),
			},
			expected: domain.HIGH_RISK,
		},
		{
			name:    "mean at moderate cutoff",
			overall: score(10),
			assessments: map[domain.Condition]domain.ConditionAssessment{
				domain.CARDIOVASCULAR: assessmentWithScore(15),
				domain.DIABETES:       assessmentWithScore(5),
			},
			expected: domain.MODERATE_RISK,
		},
		{
			name:    "everything below both cutoffs",
			overall: score(4),
			assessments: map[domain.Condition]domain.ConditionAssessment{
				domain.CARDIOVASCULAR: assessmentWithScore(5),
				domain.DIABETES:       assessmentWithScore(3),
			},
			expected: domain.LOW_RISK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.OverallBand(tt.overall, tt.assessments))
		})
	}
}

func TestPrioritizeOrdersByScoreThenRequestOrder(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	// Breast cancer and cardiovascular tie at 25; the tie resolves to the
	// order the conditions were requested in.
	requested := []domain.Condition{domain.DIABETES, domain.BREAST_CANCER, domain.CARDIOVASCULAR}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.DIABETES:       assessmentWithScore(10),
		domain.BREAST_CANCER:  assessmentWithScore(25),
		domain.CARDIOVASCULAR: assessmentWithScore(25),
	}

	top := p.Prioritize(requested, assessments)
	assert.Equal(t, []domain.Condition{domain.BREAST_CANCER, domain.CARDIOVASCULAR, domain.DIABETES}, top)
}

func TestPrioritizeSkipsUnscoredAndCapsAtThree(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	requested := []domain.Condition{domain.CARDIOVASCULAR, domain.DIABETES, domain.BREAST_CANCER}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(8),
		domain.DIABETES:       {}, // unscored never ranks
		domain.BREAST_CANCER:  assessmentWithScore(1.2),
	}

	top := p.Prioritize(requested, assessments)
	assert.Equal(t, []domain.Condition{domain.CARDIOVASCULAR, domain.BREAST_CANCER}, top)
}

func TestPrioritizeRanksRepeatedConditionOnce(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	requested := []domain.Condition{domain.CARDIOVASCULAR, domain.CARDIOVASCULAR, domain.DIABETES, domain.BREAST_CANCER}
	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(25),
		domain.DIABETES:       assessmentWithScore(10),
		domain.BREAST_CANCER:  assessmentWithScore(5),
	}

	top := p.Prioritize(requested, assessments)
	assert.Equal(t, []domain.Condition{domain.CARDIOVASCULAR, domain.DIABETES, domain.BREAST_CANCER}, top)
}

func TestCompare(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{})

	cmp := p.Compare(47, score(22), domain.HIGH_RISK)
	require.NotNil(t, cmp)
	assert.Equal(t, "40-49", cmp.AgeBand)
	assert.Contains(t, cmp.Description, "substantially above")

	cmp = p.Compare(47, score(4), domain.LOW_RISK)
	require.NotNil(t, cmp)
	assert.Contains(t, cmp.Description, "typical range")

	assert.Nil(t, p.Compare(0, score(22), domain.HIGH_RISK))
	assert.Nil(t, p.Compare(47, nil, domain.UNKNOWN_RISK))
}

func TestConfiguredOverallThresholds(t *testing.T) {
	p := NewPortfolioAggregator(&domain.ClinicalConfig{
		Overall: domain.OverallThresholds{AnyHigh: 50, MeanModerate: 30},
	})

	assessments := map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(40),
	}
	assert.Equal(t, domain.MODERATE_RISK, p.OverallBand(score(40), assessments))
	assert.Equal(t, domain.HIGH_RISK, p.OverallBand(score(50), map[domain.Condition]domain.ConditionAssessment{
		domain.CARDIOVASCULAR: assessmentWithScore(55),
	}))
}
