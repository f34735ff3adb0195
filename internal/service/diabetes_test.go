package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronic-risk-engine/internal/domain"
)

func TestADAPointAccumulation(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{
		Age: 52, Sex: domain.MALE, Race: "hispanic",
		BMI: 32, SystolicBP: 145,
		TotalCholesterol: 200, HDLCholesterol: 50,
		Smoking:          domain.NEVER_SMOKER,
		PhysicallyActive: false,
		FamilyHistory:    map[domain.Condition]int{domain.DIABETES: 1},
	}

	result, err := evaluateADADiabetes(rec)
	require.NoError(t, err)

	// age 52 -> 2, male -> 1, BMI 32 -> 2, family history -> 1,
	// SBP 145 -> 1, inactive -> 1, hispanic -> 1 = 9 points.
	assert.Equal(t, 9.0, result.Score)
	assert.Equal(t, "points", result.ScoreUnit)
	assert.Equal(t, "high", result.Category)
	assert.NotEmpty(t, result.Note)
	assert.Equal(t, 33.0, result.FactorsUsed["prevalence_estimate_pct"])
}

func TestADALowRiskProfile(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{
		Age: 30, Sex: domain.FEMALE,
		BMI: 22, SystolicBP: 110,
		PhysicallyActive: true,
	}

	result, err := evaluateADADiabetes(rec)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, "low", result.Category)
}

func TestADABandBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		rec      *domain.NormalizedPatientRecord
		points   float64
		category string
	}{
		{
			name: "moderate at exactly three points",
			rec: &domain.NormalizedPatientRecord{
				// age 45 -> 1, male -> 1, BMI 27 -> 1
				Age: 45, Sex: domain.MALE, BMI: 27,
				SystolicBP: 120, PhysicallyActive: true,
			},
			points:   3,
			category: "moderate",
		},
		{
			name: "high at exactly five points",
			rec: &domain.NormalizedPatientRecord{
				// age 62 -> 3, male -> 1, BMI 27 -> 1
				Age: 62, Sex: domain.MALE, BMI: 27,
				SystolicBP: 120, PhysicallyActive: true,
			},
			points:   5,
			category: "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluateADADiabetes(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.points, result.Score)
			assert.Equal(t, tt.category, result.Category)
		})
	}
}

func TestADAGestationalDiabetesFemaleOnly(t *testing.T) {
	female := &domain.NormalizedPatientRecord{
		Age: 30, Sex: domain.FEMALE, BMI: 22,
		SystolicBP: 110, PhysicallyActive: true,
		GestationalDiabetes: true,
	}
	result, err := evaluateADADiabetes(female)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)

	male := &domain.NormalizedPatientRecord{
		Age: 30, Sex: domain.MALE, BMI: 22,
		SystolicBP: 110, PhysicallyActive: true,
		GestationalDiabetes: true,
	}
	result, err = evaluateADADiabetes(male)
	require.NoError(t, err)
	// Male point only; the gestational flag must not contribute.
	assert.Equal(t, 1.0, result.Score)
	assert.NotContains(t, result.FactorsUsed, "gestational_points")
}

func TestADANotApplicableWhenAlreadyDiagnosed(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{
		Age: 50, Sex: domain.MALE, BMI: 30,
		SystolicBP: 130, HasDiabetes: true, PhysicallyActive: true,
	}

	_, err := evaluateADADiabetes(rec)

	var na *domain.NotApplicableError
	require.ErrorAs(t, err, &na)
	assert.Equal(t, domain.ADA_RISK, na.Formula)
}

func TestHighRiskEthnicityMatching(t *testing.T) {
	assert.True(t, isHighRiskEthnicity("Hispanic or Latino"))
	assert.True(t, isHighRiskEthnicity("Black"))
	assert.True(t, isHighRiskEthnicity("asian american"))
	assert.True(t, isHighRiskEthnicity("Native American"))
	assert.True(t, isHighRiskEthnicity("Pacific Islander"))
	assert.False(t, isHighRiskEthnicity("white"))
	// "Caucasian" contains "asian" as a substring; whole-word matching must
	// not treat it as a high-risk ethnicity.
	assert.False(t, isHighRiskEthnicity("Caucasian"))
	assert.False(t, isHighRiskEthnicity(""))
}

func TestADACaucasianGetsNoEthnicityPoint(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{
		Age: 30, Sex: domain.FEMALE, Race: "Caucasian",
		BMI: 22, SystolicBP: 110,
		PhysicallyActive: true,
	}

	result, err := evaluateADADiabetes(rec)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.NotContains(t, result.FactorsUsed, "ethnicity_points")
}
