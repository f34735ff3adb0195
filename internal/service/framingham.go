package service

import (
	"github.com/chronic-risk-engine/internal/domain"
)

// Framingham 10-year cardiovascular risk, point-based system.
// Points from sex-specific brackets for age, total cholesterol, HDL and
// systolic blood pressure, plus flat additions for treated hypertension,
// current smoking and diabetes. The clamped point total indexes a
// sex-specific percentage table.

// pointBracket assigns points when the value is strictly below Upper.
// Tables end with an open bracket (Upper = maxFloat sentinel below).
type pointBracket struct {
	Upper  float64
	Points int
}

const openBracket = 1e18

var framinghamAgePointsMale = []pointBracket{
	{35, -1}, {40, 0}, {45, 1}, {50, 2}, {55, 3}, {60, 4}, {65, 5}, {70, 6}, {openBracket, 7},
}

var framinghamAgePointsFemale = []pointBracket{
	{35, -2}, {40, -1}, {45, 0}, {50, 1}, {55, 2}, {60, 3}, {65, 4}, {70, 5}, {openBracket, 6},
}

var framinghamCholesterolPoints = []pointBracket{
	{160, 0}, {200, 1}, {240, 2}, {280, 3}, {openBracket, 4},
}

// HDL is protective: high HDL subtracts a point.
var framinghamHDLPoints = []pointBracket{
	{40, 2}, {50, 1}, {60, 0}, {openBracket, -1},
}

var framinghamSBPPointsMale = []pointBracket{
	{120, 0}, {130, 1}, {140, 2}, {160, 3}, {openBracket, 4},
}

var framinghamSBPPointsFemale = []pointBracket{
	{120, 0}, {130, 2}, {140, 3}, {160, 4}, {openBracket, 5},
}

const (
	framinghamSmokerPoints   = 2
	framinghamDiabetesPoints = 2
	framinghamTreatedBPBonus = 1
	framinghamMinPoints      = -2
	framinghamMaxPoints      = 14
)

// Point total -> 10-year risk percentage, indexed by total-framinghamMinPoints.
var framinghamRiskPctMale = []float64{
	1, 2, 2, 3, 4, 5, 7, 8, 10, 13, 16, 20, 25, 31, 37, 45, 53,
}

var framinghamRiskPctFemale = []float64{
	1, 1, 2, 2, 3, 3, 4, 5, 6, 7, 8, 9, 11, 13, 15, 17, 20,
}

func bracketPoints(table []pointBracket, value float64) int {
	for _, b := range table {
		if value < b.Upper {
			return b.Points
		}
	}
	return table[len(table)-1].Points
}

// evaluateFramingham scores 10-year cardiovascular risk with the Framingham
// point system. Output is a percentage in [1, 53] for males and [1, 20] for
// females; categories are low (<6%), intermediate (<20%) and high (>=20%).
func evaluateFramingham(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
	if rec.Age < 20 {
		return nil, domain.NewNotApplicableError(domain.FRAMINGHAM, "validated for adults aged 20 and over")
	}

	var agePoints, sbpPoints int
	if rec.Sex == domain.FEMALE {
		agePoints = bracketPoints(framinghamAgePointsFemale, float64(rec.Age))
		sbpPoints = bracketPoints(framinghamSBPPointsFemale, rec.SystolicBP)
	} else {
		agePoints = bracketPoints(framinghamAgePointsMale, float64(rec.Age))
		sbpPoints = bracketPoints(framinghamSBPPointsMale, rec.SystolicBP)
	}
	if rec.TreatedBP {
		sbpPoints += framinghamTreatedBPBonus
	}

	cholPoints := bracketPoints(framinghamCholesterolPoints, rec.TotalCholesterol)
	hdlPoints := bracketPoints(framinghamHDLPoints, rec.HDLCholesterol)

	smokerPoints := 0
	if rec.Smoking == domain.CURRENT_SMOKER {
		smokerPoints = framinghamSmokerPoints
	}
	diabetesPoints := 0
	if rec.HasDiabetes {
		diabetesPoints = framinghamDiabetesPoints
	}

	total := agePoints + cholPoints + hdlPoints + sbpPoints + smokerPoints + diabetesPoints
	if total < framinghamMinPoints {
		total = framinghamMinPoints
	}
	if total > framinghamMaxPoints {
		total = framinghamMaxPoints
	}

	var pct float64
	if rec.Sex == domain.FEMALE {
		pct = framinghamRiskPctFemale[total-framinghamMinPoints]
	} else {
		pct = framinghamRiskPctMale[total-framinghamMinPoints]
	}

	category := "low"
	switch {
	case pct >= 20:
		category = "high"
	case pct >= 6:
		category = "intermediate"
	}

	return &domain.FormulaResult{
		Formula:   domain.FRAMINGHAM,
		Condition: domain.CARDIOVASCULAR,
		Status:    domain.FORMULA_OK,
		Score:     pct,
		ScoreUnit: "percent_10yr",
		Category:  category,
		FactorsUsed: map[string]float64{
			"age_points":         float64(agePoints),
			"cholesterol_points": float64(cholPoints),
			"hdl_points":         float64(hdlPoints),
			"sbp_points":         float64(sbpPoints),
			"smoker_points":      float64(smokerPoints),
			"diabetes_points":    float64(diabetesPoints),
			"total_points":       float64(total),
		},
	}, nil
}
