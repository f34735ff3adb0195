package service

import (
	"math"

	"github.com/chronic-risk-engine/internal/domain"
)

// ASCVD 10-year risk, Pooled Cohort Equations (Goff et al. 2013, Appendix 7).
// One closed-form log-linear equation per (sex, race category); the weighted
// sum of log-transformed factors is converted to absolute risk through the
// cohort baseline survival: risk = 100 * (1 - S0^exp(sum - mean)).

// ascvdCoefficients holds every term used across the four cohort equations.
// Terms absent from a given equation carry a zero coefficient.
type ascvdCoefficients struct {
	LnAge        float64
	LnAgeSquared float64
	LnTC         float64
	LnAgeLnTC    float64
	LnHDL        float64
	LnAgeLnHDL   float64

	LnSBPTreated        float64
	LnAgeLnSBPTreated   float64
	LnSBPUntreated      float64
	LnAgeLnSBPUntreated float64

	Smoker      float64
	LnAgeSmoker float64
	Diabetes    float64

	MeanSum          float64
	BaselineSurvival float64
}

var ascvdWhiteMale = ascvdCoefficients{
	LnAge:            12.344,
	LnTC:             11.853,
	LnAgeLnTC:        -2.664,
	LnHDL:            -7.990,
	LnAgeLnHDL:       1.769,
	LnSBPTreated:     1.797,
	LnSBPUntreated:   1.764,
	Smoker:           7.837,
	LnAgeSmoker:      -1.795,
	Diabetes:         0.658,
	MeanSum:          61.18,
	BaselineSurvival: 0.9144,
}

var ascvdBlackMale = ascvdCoefficients{
	LnAge:            2.469,
	LnTC:             0.302,
	LnHDL:            -0.307,
	LnSBPTreated:     1.916,
	LnSBPUntreated:   1.809,
	Smoker:           0.549,
	Diabetes:         0.645,
	MeanSum:          19.54,
	BaselineSurvival: 0.8954,
}

var ascvdWhiteFemale = ascvdCoefficients{
	LnAge:            -29.799,
	LnAgeSquared:     4.884,
	LnTC:             13.540,
	LnAgeLnTC:        -3.114,
	LnHDL:            -13.578,
	LnAgeLnHDL:       3.149,
	LnSBPTreated:     2.019,
	LnSBPUntreated:   1.957,
	Smoker:           7.574,
	LnAgeSmoker:      -1.665,
	Diabetes:         0.661,
	MeanSum:          -29.18,
	BaselineSurvival: 0.9665,
}

var ascvdBlackFemale = ascvdCoefficients{
	LnAge:               17.114,
	LnTC:                0.940,
	LnHDL:               -18.920,
	LnAgeLnHDL:          4.475,
	LnSBPTreated:        29.291,
	LnAgeLnSBPTreated:   -6.432,
	LnSBPUntreated:      27.820,
	LnAgeLnSBPUntreated: -6.087,
	Smoker:              0.691,
	Diabetes:            0.874,
	MeanSum:             86.61,
	BaselineSurvival:    0.9533,
}

// isBlackRaceCategory buckets self-reported race/ethnicity into the two race
// categories the pooled cohorts distinguish.
func isBlackRaceCategory(race string) bool {
	return raceHasTerm(race, "black") || raceHasTerm(race, "african")
}

func selectASCVDCoefficients(sex domain.Sex, race string) ascvdCoefficients {
	black := isBlackRaceCategory(race)
	if sex == domain.FEMALE {
		if black {
			return ascvdBlackFemale
		}
		return ascvdWhiteFemale
	}
	if black {
		return ascvdBlackMale
	}
	return ascvdWhiteMale
}

// evaluateASCVD computes 10-year ASCVD risk. Output is a percentage clamped
// to [0, 100] even for extreme inputs; categories are low (<5%), borderline
// (<7.5%), intermediate (<20%) and high (>=20%). A statin-consideration flag
// is set at 7.5% and above, per the treatment threshold in the guideline.
func evaluateASCVD(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
	if rec.Age < 20 {
		return nil, domain.NewNotApplicableError(domain.ASCVD, "validated for adults aged 20 and over")
	}
	if rec.TotalCholesterol <= 0 || rec.HDLCholesterol <= 0 || rec.SystolicBP <= 0 {
		return nil, domain.NewNotApplicableError(domain.ASCVD, "requires positive cholesterol and blood pressure values")
	}

	c := selectASCVDCoefficients(rec.Sex, rec.Race)

	lnAge := math.Log(float64(rec.Age))
	lnTC := math.Log(rec.TotalCholesterol)
	lnHDL := math.Log(rec.HDLCholesterol)
	lnSBP := math.Log(rec.SystolicBP)

	sum := c.LnAge*lnAge +
		c.LnAgeSquared*lnAge*lnAge +
		c.LnTC*lnTC +
		c.LnAgeLnTC*lnAge*lnTC +
		c.LnHDL*lnHDL +
		c.LnAgeLnHDL*lnAge*lnHDL

	if rec.TreatedBP {
		sum += c.LnSBPTreated*lnSBP + c.LnAgeLnSBPTreated*lnAge*lnSBP
	} else {
		sum += c.LnSBPUntreated*lnSBP + c.LnAgeLnSBPUntreated*lnAge*lnSBP
	}

	if rec.Smoking == domain.CURRENT_SMOKER {
		sum += c.Smoker + c.LnAgeSmoker*lnAge
	}
	if rec.HasDiabetes {
		sum += c.Diabetes
	}

	risk := 100 * (1 - math.Pow(c.BaselineSurvival, math.Exp(sum-c.MeanSum)))
	if math.IsNaN(risk) || risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	category := "low"
	switch {
	case risk >= 20:
		category = "high"
	case risk >= 7.5:
		category = "intermediate"
	case risk >= 5:
		category = "borderline"
	}

	result := &domain.FormulaResult{
		Formula:   domain.ASCVD,
		Condition: domain.CARDIOVASCULAR,
		Status:    domain.FORMULA_OK,
		Score:     risk,
		ScoreUnit: "percent_10yr",
		Category:  category,
		FactorsUsed: map[string]float64{
			"age":               float64(rec.Age),
			"total_cholesterol": rec.TotalCholesterol,
			"hdl_cholesterol":   rec.HDLCholesterol,
			"systolic_bp":       rec.SystolicBP,
			"treated_bp":        boolFactor(rec.TreatedBP),
			"smoker":            boolFactor(rec.Smoking == domain.CURRENT_SMOKER),
			"diabetes":          boolFactor(rec.HasDiabetes),
		},
	}
	if risk >= 7.5 {
		result.Flags = append(result.Flags, "statin_consideration")
	}
	return result, nil
}

func boolFactor(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
