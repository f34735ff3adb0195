package service

import (
	"fmt"

	"github.com/chronic-risk-engine/internal/domain"
)

// ModifiableFactorAnalyzer scans clinical and lifestyle inputs for a fixed
// catalogue of risk contributors that can plausibly be changed through
// intervention. It enumerates and classifies; it performs no scoring.
type ModifiableFactorAnalyzer struct {
	catalogue domain.FactorCatalogue
}

// Default trigger cutoffs, used where configuration supplies none.
var defaultFactorCatalogue = domain.FactorCatalogue{
	BMIOverweight: 25,
	ElevatedSBP:   140,
	ElevatedTotal: 240,
	LowHDL:        40,
}

// NewModifiableFactorAnalyzer builds an analyzer from the configured factor
// catalogue, falling back to the defaults for unset cutoffs.
func NewModifiableFactorAnalyzer(clinical *domain.ClinicalConfig) *ModifiableFactorAnalyzer {
	cat := clinical.Factors
	if cat.BMIOverweight <= 0 {
		cat.BMIOverweight = defaultFactorCatalogue.BMIOverweight
	}
	if cat.ElevatedSBP <= 0 {
		cat.ElevatedSBP = defaultFactorCatalogue.ElevatedSBP
	}
	if cat.ElevatedTotal <= 0 {
		cat.ElevatedTotal = defaultFactorCatalogue.ElevatedTotal
	}
	if cat.LowHDL <= 0 {
		cat.LowHDL = defaultFactorCatalogue.LowHDL
	}
	return &ModifiableFactorAnalyzer{catalogue: cat}
}

// Analyze returns the modifiable factors triggered by the record for the
// given condition: the shared catalogue (smoking, overweight, inactivity)
// plus condition-specific extensions.
func (m *ModifiableFactorAnalyzer) Analyze(c domain.Condition, rec *domain.NormalizedPatientRecord) []domain.ModifiableFactor {
	factors := make([]domain.ModifiableFactor, 0, 4)

	if rec.Smoking == domain.CURRENT_SMOKER {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "smoking",
			Current:      "current smoker",
			Target:       "complete cessation",
			Impact:       domain.HIGH_IMPACT,
			Intervention: "smoking cessation program",
		})
	}

	if rec.BMI >= m.catalogue.BMIOverweight {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "body_mass_index",
			Current:      fmt.Sprintf("BMI %.1f", rec.BMI),
			Target:       fmt.Sprintf("BMI below %.0f", m.catalogue.BMIOverweight),
			Impact:       domain.HIGH_IMPACT,
			Intervention: "dietary counseling and weight management",
		})
	}

	if !rec.PhysicallyActive {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "physical_inactivity",
			Current:      "insufficient regular activity",
			Target:       "150 minutes of moderate activity per week",
			Impact:       domain.MEDIUM_IMPACT,
			Intervention: "structured exercise program",
		})
	}

	if c == domain.CARDIOVASCULAR {
		factors = append(factors, m.cardiovascularExtensions(rec)...)
	}

	return factors
}

// cardiovascularExtensions covers the blood pressure and lipid contributors
// specific to cardiovascular risk.
func (m *ModifiableFactorAnalyzer) cardiovascularExtensions(rec *domain.NormalizedPatientRecord) []domain.ModifiableFactor {
	var factors []domain.ModifiableFactor

	if rec.SystolicBP >= m.catalogue.ElevatedSBP {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "blood_pressure",
			Current:      fmt.Sprintf("systolic %.0f mmHg", rec.SystolicBP),
			Target:       fmt.Sprintf("systolic below %.0f mmHg", m.catalogue.ElevatedSBP),
			Impact:       domain.HIGH_IMPACT,
			Intervention: "blood pressure management and medication review",
		})
	}

	if rec.TotalCholesterol >= m.catalogue.ElevatedTotal {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "total_cholesterol",
			Current:      fmt.Sprintf("%.0f mg/dL", rec.TotalCholesterol),
			Target:       fmt.Sprintf("below %.0f mg/dL", m.catalogue.ElevatedTotal),
			Impact:       domain.MEDIUM_IMPACT,
			Intervention: "lipid management and dietary changes",
		})
	}

	if rec.HDLCholesterol < m.catalogue.LowHDL {
		factors = append(factors, domain.ModifiableFactor{
			Name:         "hdl_cholesterol",
			Current:      fmt.Sprintf("%.0f mg/dL", rec.HDLCholesterol),
			Target:       fmt.Sprintf("%.0f mg/dL or above", m.catalogue.LowHDL),
			Impact:       domain.MEDIUM_IMPACT,
			Intervention: "aerobic exercise and dietary changes",
		})
	}

	return factors
}
