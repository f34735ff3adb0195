package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronic-risk-engine/internal/domain"
)

var evaluateGail = newGailEvaluator(0.017)

func TestGailNotApplicableForMales(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{Age: 50, Sex: domain.MALE}

	_, err := evaluateGail(rec)

	var na *domain.NotApplicableError
	require.ErrorAs(t, err, &na)
	assert.Equal(t, domain.GAIL, na.Formula)
	assert.Contains(t, na.Reason, "female")
}

func TestGailNotApplicableUnderThirtyFive(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{Age: 30, Sex: domain.FEMALE, AgeAtMenarche: 13}

	_, err := evaluateGail(rec)

	var na *domain.NotApplicableError
	require.ErrorAs(t, err, &na)
	assert.Contains(t, na.Reason, "35")
}

func TestGailBaselineProfile(t *testing.T) {
	// 40-year-old with default menarche (13), nulliparous, no biopsies,
	// no family history: composite RR = 1.10 * 1.55 = 1.705 against the
	// 0.6% age-band baseline.
	rec := &domain.NormalizedPatientRecord{
		Age: 40, Sex: domain.FEMALE,
		AgeAtMenarche: 13,
	}

	result, err := evaluateGail(rec)
	require.NoError(t, err)

	assert.InDelta(t, 1.023, result.Score, 0.001)
	assert.Equal(t, "percent_5yr", result.ScoreUnit)
	assert.Equal(t, "average", result.Category)
	assert.Empty(t, result.Flags)
	assert.InDelta(t, 1.705, result.FactorsUsed["composite_rr"], 0.001)
}

func TestGailChemopreventionFlag(t *testing.T) {
	rec := &domain.NormalizedPatientRecord{
		Age: 62, Sex: domain.FEMALE,
		AgeAtMenarche:       11,
		AgeAtFirstBirth:     32,
		BreastBiopsies:      1,
		AtypicalHyperplasia: true,
		FamilyHistory:       map[domain.Condition]int{domain.BREAST_CANCER: 1},
	}

	result, err := evaluateGail(rec)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Score, 1.7)
	assert.Equal(t, "elevated", result.Category)
	assert.Contains(t, result.Flags, "chemoprevention_consideration")
	assert.Greater(t, result.FactorsUsed["lifetime_risk_pct"], result.Score)
}

func TestGailRelativeRiskFactors(t *testing.T) {
	assert.Equal(t, 1.21, gailMenarcheRR(11))
	assert.Equal(t, 1.10, gailMenarcheRR(12))
	assert.Equal(t, 1.00, gailMenarcheRR(14))
	assert.Equal(t, 1.00, gailMenarcheRR(0)) // unknown

	assert.Equal(t, 1.00, gailFirstBirthRR(19))
	assert.Equal(t, 1.24, gailFirstBirthRR(22))
	assert.Equal(t, 1.55, gailFirstBirthRR(27))
	assert.Equal(t, 1.55, gailFirstBirthRR(0)) // nulliparous
	assert.Equal(t, 1.93, gailFirstBirthRR(33))

	assert.Equal(t, 1.00, gailBiopsyRR(0, false))
	assert.Equal(t, 1.70, gailBiopsyRR(1, false))
	assert.Equal(t, 2.88, gailBiopsyRR(2, false))
	assert.InDelta(t, 1.70*1.82, gailBiopsyRR(1, true), 0.0001)
	// Hyperplasia without a biopsy contributes nothing.
	assert.Equal(t, 1.00, gailBiopsyRR(0, true))

	assert.Equal(t, 1.00, gailRelativesRR(0))
	assert.Equal(t, 2.61, gailRelativesRR(1))
	assert.Equal(t, 6.80, gailRelativesRR(3))
}

func TestGailRaceAdjustment(t *testing.T) {
	assert.Equal(t, 1.00, gailRaceAdjustment("white"))
	assert.Equal(t, 1.00, gailRaceAdjustment(""))
	assert.Equal(t, 0.75, gailRaceAdjustment("Black or African American"))
	assert.Equal(t, 0.76, gailRaceAdjustment("hispanic"))
	assert.Equal(t, 0.73, gailRaceAdjustment("asian"))
	assert.Equal(t, 0.73, gailRaceAdjustment("South Asian"))
	// "Caucasian" must not pick up the Asian adjustment through the "asian"
	// substring.
	assert.Equal(t, 1.00, gailRaceAdjustment("Caucasian"))
}

func TestGailConfigurableThreshold(t *testing.T) {
	strict := newGailEvaluator(0.005)
	rec := &domain.NormalizedPatientRecord{
		Age: 40, Sex: domain.FEMALE,
		AgeAtMenarche: 13,
	}

	result, err := strict(rec)
	require.NoError(t, err)

	// 1.02% exceeds the tightened 0.5% threshold.
	assert.Equal(t, "elevated", result.Category)
	assert.Contains(t, result.Flags, "chemoprevention_consideration")
}
