package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// AssessorService runs the complete risk assessment workflow: normalize the
// patient record, dispatch every formula per requested condition, aggregate,
// classify, annotate with modifiable factors and recommendations, and build
// the cross-condition portfolio summary. The service is stateless per call:
// identical inputs always produce an identical profile (modulo ID and
// timestamps).
type AssessorService struct {
	logger      *logrus.Logger
	registry    *CalculatorRegistry
	aggregator  *ConditionAggregator
	classifier  *RiskClassifier
	analyzer    *ModifiableFactorAnalyzer
	recommender *RecommendationEngine
	portfolio   *PortfolioAggregator
}

// NewAssessorService creates an assessor wired from the clinical
// configuration.
func NewAssessorService(logger *logrus.Logger, clinical *domain.ClinicalConfig) *AssessorService {
	return &AssessorService{
		logger:      logger,
		registry:    NewCalculatorRegistry(logger, clinical),
		aggregator:  NewConditionAggregator(logger),
		classifier:  NewRiskClassifier(clinical),
		analyzer:    NewModifiableFactorAnalyzer(clinical),
		recommender: NewRecommendationEngine(clinical),
		portfolio:   NewPortfolioAggregator(clinical),
	}
}

// Assess produces a RiskProfile for the requested conditions. Failures are
// contained at the smallest scope: an unsupported condition is reported in
// the profile's error list without touching its siblings, and a partial
// profile is a valid, complete response.
func (s *AssessorService) Assess(ctx context.Context, patientID string, record *domain.PatientRecord, conditions []domain.Condition) *domain.RiskProfile {
	start := time.Now()
	rec := domain.Normalize(record, start)
	conditions = dedupeConditions(conditions)

	s.logger.WithFields(logrus.Fields{
		"patient_id": patientID,
		"conditions": len(conditions),
		"age":        rec.Age,
	}).Info("Starting risk assessment")

	assessments := make(map[domain.Condition]domain.ConditionAssessment, len(conditions))
	var errs []domain.ConditionError

	// Conditions are independent pure computations over the same immutable
	// record; evaluate them concurrently.
	type outcome struct {
		condition  domain.Condition
		assessment *domain.ConditionAssessment
		err        error
	}
	outcomes := make([]outcome, len(conditions))

	var wg sync.WaitGroup
	for i, c := range conditions {
		wg.Add(1)
		go func(i int, c domain.Condition) {
			defer wg.Done()
			a, err := s.assessCondition(ctx, c, rec)
			outcomes[i] = outcome{condition: c, assessment: a, err: err}
		}(i, c)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			errs = append(errs, domain.ConditionError{
				Condition: o.condition.String(),
				Code:      domain.ErrCodeUnsupportedCondition,
				Message:   o.err.Error(),
			})
			continue
		}
		assessments[o.condition] = *o.assessment
	}

	overall := s.portfolio.OverallScore(conditions, assessments)
	band := s.portfolio.OverallBand(overall, assessments)

	profile := &domain.RiskProfile{
		ID:                 uuid.New().String(),
		PatientID:          patientID,
		Assessments:        assessments,
		Errors:             errs,
		OverallScore:       overall,
		OverallBand:        band,
		PriorityConditions: s.portfolio.Prioritize(conditions, assessments),
		Population:         s.portfolio.Compare(rec.Age, overall, band),
		GeneratedAt:        start.UTC(),
		ProcessingTime:     time.Since(start),
	}

	s.logger.WithFields(logrus.Fields{
		"patient_id":      patientID,
		"profile_id":      profile.ID,
		"overall_band":    band.String(),
		"scored":          len(assessments),
		"rejected":        len(errs),
		"processing_time": profile.ProcessingTime,
	}).Info("Risk assessment completed")

	return profile
}

// FormulaCount reports the total number of registered formulas.
func (s *AssessorService) FormulaCount() int {
	total := 0
	for _, c := range []domain.Condition{domain.CARDIOVASCULAR, domain.DIABETES, domain.BREAST_CANCER} {
		total += s.registry.FormulaCount(c)
	}
	return total
}

// AssessCondition runs the pipeline for a single condition; the narrower
// entry point for callers that do not need a portfolio.
func (s *AssessorService) AssessCondition(ctx context.Context, c domain.Condition, record *domain.PatientRecord) (*domain.ConditionAssessment, error) {
	rec := domain.Normalize(record, time.Now())
	return s.assessCondition(ctx, c, rec)
}

// assessCondition runs dispatch, aggregation, classification and annotation
// for one condition against an already normalized record.
func (s *AssessorService) assessCondition(ctx context.Context, c domain.Condition, rec *domain.NormalizedPatientRecord) (*domain.ConditionAssessment, error) {
	results, err := s.registry.Dispatch(ctx, c, rec)
	if err != nil {
		return nil, err
	}

	combined, confidence := s.aggregator.Combine(c, results)
	band := s.classifier.Classify(c, combined)
	factors := s.analyzer.Analyze(c, rec)

	assessment := &domain.ConditionAssessment{
		Condition:         c,
		CombinedScore:     combined,
		Confidence:        confidence,
		Band:              band,
		PrimaryFormula:    s.registry.Primary(c),
		FormulaResults:    results,
		ModifiableFactors: factors,
		Recommendations:   s.recommender.Recommend(c, band, factors),
		Urgency:           s.recommender.Urgency(band),
	}

	s.logger.WithFields(logrus.Fields{
		"condition":  c.String(),
		"band":       band.String(),
		"confidence": confidence,
		"scored":     combined != nil,
	}).Debug("Condition assessment completed")

	return assessment, nil
}
