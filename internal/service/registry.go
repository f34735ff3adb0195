package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// EvaluateFunc is a pure scoring function over a normalized patient record.
type EvaluateFunc func(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error)

// Formula binds a formula identifier to its evaluator for one condition.
type Formula struct {
	ID        domain.FormulaID
	Condition domain.Condition
	Evaluate  EvaluateFunc
}

// CalculatorRegistry maps each supported condition to its ordered formula
// set and designated primary formula. Formulas are static pure functions:
// the registry holds no per-request state.
type CalculatorRegistry struct {
	logger   *logrus.Logger
	formulas map[domain.Condition][]*Formula
	primary  map[domain.Condition]domain.FormulaID
}

// NewCalculatorRegistry creates a registry with all supported conditions and
// formulas registered. The Gail chemoprevention threshold comes from the
// clinical configuration.
func NewCalculatorRegistry(logger *logrus.Logger, clinical *domain.ClinicalConfig) *CalculatorRegistry {
	r := &CalculatorRegistry{
		logger:   logger,
		formulas: make(map[domain.Condition][]*Formula),
		primary: map[domain.Condition]domain.FormulaID{
			domain.CARDIOVASCULAR: domain.ASCVD,
			domain.DIABETES:       domain.ADA_RISK,
			domain.BREAST_CANCER:  domain.GAIL,
		},
	}

	gailThreshold := clinical.GailFiveYear
	if gailThreshold <= 0 {
		gailThreshold = 0.017
	}

	r.register(domain.CARDIOVASCULAR, domain.FRAMINGHAM, evaluateFramingham)
	r.register(domain.CARDIOVASCULAR, domain.ASCVD, evaluateASCVD)
	r.register(domain.DIABETES, domain.ADA_RISK, evaluateADADiabetes)
	r.register(domain.DIABETES, domain.FINDRISC, notImplemented(domain.FINDRISC, domain.DIABETES))
	r.register(domain.BREAST_CANCER, domain.GAIL, newGailEvaluator(gailThreshold))
	r.register(domain.BREAST_CANCER, domain.TYRER_CUZICK, notImplemented(domain.TYRER_CUZICK, domain.BREAST_CANCER))

	logger.WithField("conditions", len(r.formulas)).Info("Initialized calculator registry")
	return r
}

func (r *CalculatorRegistry) register(c domain.Condition, id domain.FormulaID, fn EvaluateFunc) {
	r.formulas[c] = append(r.formulas[c], &Formula{ID: id, Condition: c, Evaluate: fn})
}

// notImplemented returns an evaluator for a formula that is registered but
// not yet built. It yields an explicit not-applicable result, which the
// aggregator already handles without special-casing.
func notImplemented(id domain.FormulaID, c domain.Condition) EvaluateFunc {
	return func(rec *domain.NormalizedPatientRecord) (*domain.FormulaResult, error) {
		return nil, domain.NewNotApplicableError(id, "risk model not yet implemented")
	}
}

// Supports reports whether the condition has registered formulas.
func (r *CalculatorRegistry) Supports(c domain.Condition) bool {
	_, ok := r.formulas[c]
	return ok
}

// Primary returns the formula designated for display emphasis for a
// condition. It carries no aggregation weight.
func (r *CalculatorRegistry) Primary(c domain.Condition) domain.FormulaID {
	return r.primary[c]
}

// FormulaCount returns the number of registered formulas for a condition.
func (r *CalculatorRegistry) FormulaCount(c domain.Condition) int {
	return len(r.formulas[c])
}

// Dispatch invokes every formula registered for the condition independently
// and concurrently, returning one FormulaResult per formula in registration
// order. A formula that panics or errors produces a FAILED or NOT_APPLICABLE
// result; it never aborts its siblings. An unknown condition is rejected
// before any computation starts.
func (r *CalculatorRegistry) Dispatch(ctx context.Context, c domain.Condition, rec *domain.NormalizedPatientRecord) ([]domain.FormulaResult, error) {
	formulas, ok := r.formulas[c]
	if !ok {
		return nil, domain.NewUnsupportedConditionError(string(c))
	}

	results := make([]domain.FormulaResult, len(formulas))
	var wg sync.WaitGroup
	for i, f := range formulas {
		wg.Add(1)
		go func(i int, f *Formula) {
			defer wg.Done()
			results[i] = r.invoke(f, rec)
		}(i, f)
	}
	wg.Wait()

	r.logger.WithFields(logrus.Fields{
		"condition":  c.String(),
		"formulas":   len(results),
		"successful": countSuccessful(results),
	}).Debug("Completed formula dispatch")

	return results, nil
}

// invoke runs one formula with panic containment at the formula boundary.
func (r *CalculatorRegistry) invoke(f *Formula, rec *domain.NormalizedPatientRecord) (out domain.FormulaResult) {
	defer func() {
		if p := recover(); p != nil {
			err := domain.NewComputationError(f.ID, fmt.Errorf("panic: %v", p))
			r.logger.WithError(err).WithField("formula", f.ID.String()).Error("Formula panicked")
			out = failedResult(f, err.Error())
		}
	}()

	result, err := f.Evaluate(rec)
	if err == nil {
		return *result
	}

	if na, ok := err.(*domain.NotApplicableError); ok {
		return domain.FormulaResult{
			Formula:   f.ID,
			Condition: f.Condition,
			Status:    domain.FORMULA_NOT_APPLICABLE,
			Reason:    na.Reason,
		}
	}

	r.logger.WithError(err).WithField("formula", f.ID.String()).Warn("Formula computation failed")
	return failedResult(f, err.Error())
}

func failedResult(f *Formula, reason string) domain.FormulaResult {
	return domain.FormulaResult{
		Formula:   f.ID,
		Condition: f.Condition,
		Status:    domain.FORMULA_FAILED,
		Reason:    reason,
	}
}

func countSuccessful(results []domain.FormulaResult) int {
	n := 0
	for i := range results {
		if results[i].Succeeded() {
			n++
		}
	}
	return n
}
