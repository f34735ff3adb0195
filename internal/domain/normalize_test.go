package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeAppliesClinicalDefaults(t *testing.T) {
	rec := &PatientRecord{
		BirthDate: time.Date(1970, 3, 15, 0, 0, 0, 0, time.UTC),
		Sex:       MALE,
	}

	n := Normalize(rec, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 55, n.Age)
	assert.Equal(t, DefaultTotalCholesterol, n.TotalCholesterol)
	assert.Equal(t, DefaultHDLCholesterol, n.HDLCholesterol)
	assert.Equal(t, DefaultSystolicBP, n.SystolicBP)
	assert.Equal(t, DefaultBMI, n.BMI)
	assert.Equal(t, NEVER_SMOKER, n.Smoking)
	assert.True(t, n.PhysicallyActive)
	assert.Equal(t, DefaultAgeAtMenarche, n.AgeAtMenarche)
}

func TestNormalizePrefersSuppliedValues(t *testing.T) {
	active := false
	menarche := 11
	rec := &PatientRecord{
		Age:              62,
		Sex:              FEMALE,
		TotalCholesterol: f64(240),
		HDLCholesterol:   f64(38),
		SystolicBP:       f64(152),
		BMI:              f64(31.2),
		Smoking:          CURRENT_SMOKER,
		PhysicallyActive: &active,
		AgeAtMenarche:    &menarche,
		Medications:      []string{"statin", "antihypertensive"},
	}

	n := Normalize(rec, time.Now())

	assert.Equal(t, 62, n.Age)
	assert.Equal(t, 240.0, n.TotalCholesterol)
	assert.Equal(t, 38.0, n.HDLCholesterol)
	assert.Equal(t, 152.0, n.SystolicBP)
	assert.Equal(t, 31.2, n.BMI)
	assert.Equal(t, CURRENT_SMOKER, n.Smoking)
	assert.False(t, n.PhysicallyActive)
	assert.Equal(t, 11, n.AgeAtMenarche)
	assert.True(t, n.TreatedBP)
}

func TestNormalizeDerivesBMIFromHeightWeight(t *testing.T) {
	rec := &PatientRecord{
		Age:      40,
		Sex:      MALE,
		HeightCM: f64(180),
		WeightKG: f64(81),
	}

	n := Normalize(rec, time.Now())

	require.InDelta(t, 25.0, n.BMI, 0.01)
}

func TestNormalizeBirthdayNotYetReached(t *testing.T) {
	rec := &PatientRecord{
		BirthDate: time.Date(1980, 12, 31, 0, 0, 0, 0, time.UTC),
		Sex:       FEMALE,
	}

	n := Normalize(rec, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 44, n.Age)
}

func TestNormalizeFamilyHistoryLookup(t *testing.T) {
	rec := &PatientRecord{
		Age: 50,
		Sex: FEMALE,
		FamilyHistory: map[Condition]int{
			DIABETES: 2,
		},
	}

	n := Normalize(rec, time.Now())

	assert.Equal(t, 2, n.FirstDegreeRelatives(DIABETES))
	assert.Equal(t, 0, n.FirstDegreeRelatives(BREAST_CANCER))
}
