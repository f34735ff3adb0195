package service

import (
	"github.com/chronic-risk-engine/internal/domain"
)

// Gail model for 5-year and lifetime breast cancer risk (Gail et al. 1989).
// A relative-risk multiplier built from reproductive history and family
// history, adjusted by race, is applied to age-band baseline incidence.
// Applies to female patients aged 35 and over only.

const gailMinAge = 35

// Relative-risk factors per the published model tables.

func gailMenarcheRR(ageAtMenarche int) float64 {
	switch {
	case ageAtMenarche > 0 && ageAtMenarche < 12:
		return 1.21
	case ageAtMenarche >= 12 && ageAtMenarche <= 13:
		return 1.10
	default:
		return 1.00
	}
}

// gailFirstBirthRR covers age at first live birth; nulliparous (0) carries
// the same relative risk as first birth at 25-29.
func gailFirstBirthRR(ageAtFirstBirth int) float64 {
	switch {
	case ageAtFirstBirth > 0 && ageAtFirstBirth < 20:
		return 1.00
	case ageAtFirstBirth >= 20 && ageAtFirstBirth < 25:
		return 1.24
	case ageAtFirstBirth >= 30:
		return 1.93
	default: // 25-29 or nulliparous
		return 1.55
	}
}

func gailBiopsyRR(biopsies int, atypicalHyperplasia bool) float64 {
	var rr float64
	switch {
	case biopsies <= 0:
		rr = 1.00
	case biopsies == 1:
		rr = 1.70
	default:
		rr = 2.88
	}
	if biopsies > 0 && atypicalHyperplasia {
		rr *= 1.82
	}
	return rr
}

func gailRelativesRR(relatives int) float64 {
	switch {
	case relatives <= 0:
		return 1.00
	case relatives == 1:
		return 2.61
	default:
		return 6.80
	}
}

// gailRaceAdjustment scales composite risk by race-specific incidence ratios.
func gailRaceAdjustment(race string) float64 {
	switch {
	case raceHasTerm(race, "black") || raceHasTerm(race, "african"):
		return 0.75
	case raceHasTerm(race, "hispanic") || raceHasTerm(race, "latino"):
		return 0.76
	case raceHasTerm(race, "asian") || raceHasTerm(race, "pacific"):
		return 0.73
	default:
		return 1.00
	}
}

// Baseline 5-year incidence by age band, as a fraction.
var gailBaselineFiveYear = []pointBracketF{
	{40, 0.004}, {45, 0.006}, {50, 0.009}, {55, 0.011},
	{60, 0.013}, {65, 0.015}, {70, 0.017}, {openBracket, 0.019},
}

// Baseline lifetime incidence (to age 90), as a fraction.
const gailBaselineLifetime = 0.124

// pointBracketF is the float-valued analogue of pointBracket.
type pointBracketF struct {
	Upper float64
	Value float64
}

func bracketValue(table []pointBracketF, value float64) float64 {
	for _, b := range table {
		if value < b.Upper {
			return b.Value
		}
	}
	return table[len(table)-1].Value
}

// newGailEvaluator builds the Gail evaluator with the configured 5-year
// chemoprevention threshold (fraction, default 0.017).
func newGailEvaluator(fiveYearThreshold float64) func(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
	return func(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
		if rec.Sex != domain.FEMALE {
			return nil, domain.NewNotApplicableError(domain.GAIL, "Gail model applies to female patients only")
		}
		if rec.Age < gailMinAge {
			return nil, domain.NewNotApplicableError(domain.GAIL, "Gail model applies to patients aged 35 and over")
		}

		menarcheRR := gailMenarcheRR(rec.AgeAtMenarche)
		firstBirthRR := gailFirstBirthRR(rec.AgeAtFirstBirth)
		biopsyRR := gailBiopsyRR(rec.BreastBiopsies, rec.AtypicalHyperplasia)
		relativesRR := gailRelativesRR(rec.FirstDegreeRelatives(domain.BREAST_CANCER))
		raceAdj := gailRaceAdjustment(rec.Race)

		composite := menarcheRR * firstBirthRR * biopsyRR * relativesRR * raceAdj

		fiveYear := bracketValue(gailBaselineFiveYear, float64(rec.Age)) * composite
		if fiveYear > 1 {
			fiveYear = 1
		}
		lifetime := gailBaselineLifetime * composite
		if lifetime > 1 {
			lifetime = 1
		}

		category := "average"
		if fiveYear >= fiveYearThreshold {
			category = "elevated"
		}

		result := &domain.FormulaResult{
			Formula:   domain.GAIL,
			Condition: domain.BREAST_CANCER,
			Status:    domain.FORMULA_OK,
			Score:     fiveYear * 100,
			ScoreUnit: "percent_5yr",
			Category:  category,
			FactorsUsed: map[string]float64{
				"menarche_rr":       menarcheRR,
				"first_birth_rr":    firstBirthRR,
				"biopsy_rr":         biopsyRR,
				"relatives_rr":      relativesRR,
				"race_adjustment":   raceAdj,
				"composite_rr":      composite,
				"lifetime_risk_pct": lifetime * 100,
			},
		}
		if fiveYear >= fiveYearThreshold {
			result.Flags = append(result.Flags, "chemoprevention_consideration")
		}
		return result, nil
	}
}
