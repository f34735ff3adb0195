package service

import (
	"github.com/chronic-risk-engine/internal/domain"
)

// ADA type 2 diabetes risk test, integer point accumulation. The score stays
// on the published point scale; each band also carries a fixed prevalence
// estimate and recommendation text reported alongside the score.

var adaAgePoints = []pointBracket{
	{40, 0}, {50, 1}, {60, 2}, {openBracket, 3},
}

var adaBMIPoints = []pointBracket{
	{25, 0}, {30, 1}, {40, 2}, {openBracket, 3},
}

// Populations with elevated type 2 diabetes prevalence per the ADA screening
// guidance. Matched as whole words of the self-reported race/ethnicity.
var adaHighRiskEthnicities = []string{
	"african", "black", "hispanic", "latino", "native american",
	"alaska native", "asian", "pacific islander",
}

type adaBand struct {
	Name           string
	Estimate       float64 // prevalence estimate, percent
	Recommendation string
}

var adaBands = struct {
	Low, Moderate, High adaBand
}{
	Low:      adaBand{"low", 3, "Maintain a healthy lifestyle and recheck risk periodically"},
	Moderate: adaBand{"moderate", 10, "Discuss screening for prediabetes with your clinician"},
	High:     adaBand{"high", 33, "Blood glucose or HbA1c screening is recommended"},
}

const (
	adaLowUpper      = 3 // points below this are low
	adaModerateUpper = 5
)

func isHighRiskEthnicity(race string) bool {
	for _, e := range adaHighRiskEthnicities {
		if raceHasTerm(race, e) {
			return true
		}
	}
	return false
}

// evaluateADADiabetes scores type 2 diabetes risk on the ADA point scale.
// Bands: low (<3 points), moderate (<5), high (>=5).
func evaluateADADiabetes(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
	if rec.HasDiabetes {
		return nil, domain.NewNotApplicableError(domain.ADA_RISK, "patient already diagnosed with diabetes")
	}
	if rec.Age < 18 {
		return nil, domain.NewNotApplicableError(domain.ADA_RISK, "validated for adults aged 18 and over")
	}

	points := 0
	factors := map[string]float64{}

	agePts := bracketPoints(adaAgePoints, float64(rec.Age))
	points += agePts
	factors["age_points"] = float64(agePts)

	if rec.Sex == domain.MALE {
		points++
		factors["male_points"] = 1
	}

	bmiPts := bracketPoints(adaBMIPoints, rec.BMI)
	points += bmiPts
	factors["bmi_points"] = float64(bmiPts)

	if rec.FirstDegreeRelatives(domain.DIABETES) > 0 {
		points++
		factors["family_history_points"] = 1
	}

	if rec.SystolicBP >= 140 || rec.TreatedBP {
		points++
		factors["hypertension_points"] = 1
	}

	if !rec.PhysicallyActive {
		points++
		factors["inactivity_points"] = 1
	}

	if rec.Sex == domain.FEMALE && rec.GestationalDiabetes {
		points++
		factors["gestational_points"] = 1
	}

	if isHighRiskEthnicity(rec.Race) {
		points++
		factors["ethnicity_points"] = 1
	}

	factors["total_points"] = float64(points)

	band := adaBands.Low
	switch {
	case points >= adaModerateUpper:
		band = adaBands.High
	case points >= adaLowUpper:
		band = adaBands.Moderate
	}
	factors["prevalence_estimate_pct"] = band.Estimate

	return &domain.FormulaResult{
		Formula:     domain.ADA_RISK,
		Condition:   domain.DIABETES,
		Status:      domain.FORMULA_OK,
		Score:       float64(points),
		ScoreUnit:   "points",
		Category:    band.Name,
		Note:        band.Recommendation,
		FactorsUsed: factors,
	}, nil
}
