package service

import (
	"github.com/chronic-risk-engine/internal/domain"
)

// RecommendationEngine derives the urgency classification and tiered
// recommendation buckets for a condition from its risk band and modifiable
// factors. It is a deterministic template fill: urgency is a pure function
// of band, the immediate bucket carries urgent-care instructions for high
// bands, the short-term bucket carries one intervention per modifiable
// factor, and the long-term and monitoring buckets carry per-condition
// guidance from configuration.
type RecommendationEngine struct {
	urgency         map[domain.UrgencyLevel]domain.UrgencyTemplate
	recommendations map[domain.Condition]domain.RecommendationSources
}

var defaultUrgencyTemplates = map[domain.UrgencyLevel]domain.UrgencyTemplate{
	domain.IMMEDIATE: {Timeframe: "1-2 weeks", Priority: "urgent evaluation"},
	domain.SOON:      {Timeframe: "1-3 months", Priority: "lifestyle modification"},
	domain.ROUTINE:   {Timeframe: "6-12 months", Priority: "preventive care"},
}

var defaultRecommendationSources = map[domain.Condition]domain.RecommendationSources{
	domain.CARDIOVASCULAR: {
		Urgent: []string{
			"Schedule a cardiovascular evaluation within two weeks",
			"Review blood pressure and lipid-lowering therapy with your clinician",
		},
		LongTerm: []string{
			"Adopt a heart-healthy diet low in saturated fat and sodium",
			"Maintain regular aerobic exercise",
		},
		Monitoring: []string{
			"Periodic lipid panel screening",
			"Regular blood pressure checks",
		},
	},
	domain.DIABETES: {
		Urgent: []string{
			"Schedule blood glucose and HbA1c testing within two weeks",
		},
		LongTerm: []string{
			"Maintain a balanced diet with controlled carbohydrate intake",
			"Target gradual weight reduction if overweight",
		},
		Monitoring: []string{
			"Periodic fasting glucose or HbA1c screening",
		},
	},
	domain.BREAST_CANCER: {
		Urgent: []string{
			"Discuss elevated breast cancer risk with your clinician within two weeks",
			"Consider referral for risk-reduction counseling",
		},
		LongTerm: []string{
			"Limit alcohol consumption",
			"Maintain a healthy body weight",
		},
		Monitoring: []string{
			"Screening mammography per age-appropriate guidelines",
			"Clinical breast examination at routine visits",
		},
	},
}

// NewRecommendationEngine builds the engine from configured urgency and
// recommendation templates, falling back to the built-in guidance.
func NewRecommendationEngine(clinical *domain.ClinicalConfig) *RecommendationEngine {
	e := &RecommendationEngine{
		urgency:         make(map[domain.UrgencyLevel]domain.UrgencyTemplate, len(defaultUrgencyTemplates)),
		recommendations: make(map[domain.Condition]domain.RecommendationSources, len(defaultRecommendationSources)),
	}
	for level, t := range defaultUrgencyTemplates {
		e.urgency[level] = t
	}
	for c, s := range defaultRecommendationSources {
		e.recommendations[c] = s
	}

	for name, t := range clinical.Urgency {
		level := domain.UrgencyLevel(name)
		if level.IsValid() && t.Timeframe != "" && t.Priority != "" {
			e.urgency[level] = t
		}
	}
	for name, s := range clinical.Recommendations {
		c := domain.Condition(name)
		if c.IsValid() {
			e.recommendations[c] = s
		}
	}
	return e
}

// Urgency returns the intervention urgency for a risk band.
func (e *RecommendationEngine) Urgency(band domain.RiskBand) domain.Urgency {
	level := band.Urgency()
	t := e.urgency[level]
	return domain.Urgency{
		Level:     level,
		Timeframe: t.Timeframe,
		Priority:  t.Priority,
	}
}

// Recommend fills the recommendation buckets for one condition.
func (e *RecommendationEngine) Recommend(c domain.Condition, band domain.RiskBand, factors []domain.ModifiableFactor) domain.RecommendationSet {
	sources := e.recommendations[c]
	set := domain.RecommendationSet{}

	if band == domain.HIGH_RISK {
		set.Immediate = append(set.Immediate, sources.Urgent...)
	}

	for _, f := range factors {
		set.ShortTerm = append(set.ShortTerm, f.Intervention)
	}

	set.LongTerm = append(set.LongTerm, sources.LongTerm...)
	set.Monitoring = append(set.Monitoring, sources.Monitoring...)

	return set
}
