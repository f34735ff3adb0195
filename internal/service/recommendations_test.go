package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronic-risk-engine/internal/domain"
)

func TestUrgencyFollowsBand(t *testing.T) {
	e := NewRecommendationEngine(&domain.ClinicalConfig{})

	tests := []struct {
		band      domain.RiskBand
		level     domain.UrgencyLevel
		timeframe string
	}{
		{domain.HIGH_RISK, domain.IMMEDIATE, "1-2 weeks"},
		{domain.MODERATE_RISK, domain.SOON, "1-3 months"},
		{domain.LOW_RISK, domain.ROUTINE, "6-12 months"},
		{domain.UNKNOWN_RISK, domain.ROUTINE, "6-12 months"},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			u := e.Urgency(tt.band)
			assert.Equal(t, tt.level, u.Level)
			assert.Equal(t, tt.timeframe, u.Timeframe)
			assert.NotEmpty(t, u.Priority)
		})
	}
}

func TestRecommendBuckets(t *testing.T) {
	e := NewRecommendationEngine(&domain.ClinicalConfig{})

	factors := []domain.ModifiableFactor{
		{Name: "smoking", Intervention: "smoking cessation program"},
		{Name: "body_mass_index", Intervention: "dietary counseling and weight management"},
	}

	set := e.Recommend(domain.CARDIOVASCULAR, domain.HIGH_RISK, factors)

	assert.NotEmpty(t, set.Immediate)
	assert.Equal(t, []string{
		"smoking cessation program",
		"dietary counseling and weight management",
	}, set.ShortTerm)
	assert.NotEmpty(t, set.LongTerm)
	assert.Contains(t, set.Monitoring, "Periodic lipid panel screening")
}

func TestRecommendImmediateOnlyForHighRisk(t *testing.T) {
	e := NewRecommendationEngine(&domain.ClinicalConfig{})

	for _, band := range []domain.RiskBand{domain.LOW_RISK, domain.MODERATE_RISK, domain.UNKNOWN_RISK} {
		set := e.Recommend(domain.DIABETES, band, nil)
		assert.Empty(t, set.Immediate, "band %s must not fill the immediate bucket", band)
		assert.Contains(t, set.Monitoring, "Periodic fasting glucose or HbA1c screening")
	}
}

func TestRecommendConfiguredSources(t *testing.T) {
	e := NewRecommendationEngine(&domain.ClinicalConfig{
		Recommendations: map[string]domain.RecommendationSources{
			"diabetes": {
				Urgent:     []string{"expedited endocrinology referral"},
				Monitoring: []string{"quarterly HbA1c"},
			},
		},
	})

	set := e.Recommend(domain.DIABETES, domain.HIGH_RISK, nil)
	assert.Equal(t, []string{"expedited endocrinology referral"}, set.Immediate)
	assert.Equal(t, []string{"quarterly HbA1c"}, set.Monitoring)
}

func TestAnalyzeSharedCatalogue(t *testing.T) {
	m := NewModifiableFactorAnalyzer(&domain.ClinicalConfig{})

	rec := &domain.NormalizedPatientRecord{
		Smoking:          domain.CURRENT_SMOKER,
		BMI:              31.2,
		PhysicallyActive: false,
		SystolicBP:       120,
		TotalCholesterol: 190,
		HDLCholesterol:   55,
	}

	factors := m.Analyze(domain.DIABETES, rec)

	names := make([]string, 0, len(factors))
	for _, f := range factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"smoking", "body_mass_index", "physical_inactivity"}, names)

	assert.Equal(t, domain.HIGH_IMPACT, factors[0].Impact)
	assert.Contains(t, factors[1].Current, "31.2")
}

func TestAnalyzeCardiovascularExtensions(t *testing.T) {
	m := NewModifiableFactorAnalyzer(&domain.ClinicalConfig{})

	rec := &domain.NormalizedPatientRecord{
		Smoking:          domain.NEVER_SMOKER,
		BMI:              23,
		PhysicallyActive: true,
		SystolicBP:       148,
		TotalCholesterol: 250,
		HDLCholesterol:   34,
	}

	// Lipid and blood pressure contributors only apply to cardiovascular.
	assert.Empty(t, m.Analyze(domain.DIABETES, rec))

	factors := m.Analyze(domain.CARDIOVASCULAR, rec)
	names := make([]string, 0, len(factors))
	for _, f := range factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"blood_pressure", "total_cholesterol", "hdl_cholesterol"}, names)
}

func TestAnalyzeNothingTriggered(t *testing.T) {
	m := NewModifiableFactorAnalyzer(&domain.ClinicalConfig{})

	rec := &domain.NormalizedPatientRecord{
		Smoking:          domain.FORMER_SMOKER,
		BMI:              22,
		PhysicallyActive: true,
		SystolicBP:       118,
		TotalCholesterol: 180,
		HDLCholesterol:   60,
	}

	assert.Empty(t, m.Analyze(domain.CARDIOVASCULAR, rec))
}
