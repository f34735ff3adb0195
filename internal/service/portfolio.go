package service

import (
	"fmt"
	"sort"

	"github.com/chronic-risk-engine/internal/domain"
)

// PortfolioAggregator combines per-condition assessments into the overall
// risk summary: cross-condition score and band, priority ranking, and a
// best-effort population comparison.
type PortfolioAggregator struct {
	overall domain.OverallThresholds
}

var defaultOverallThresholds = domain.OverallThresholds{
	AnyHigh:      20,
	MeanModerate: 10,
}

// NewPortfolioAggregator builds the aggregator with configured cross-
// condition thresholds, falling back to the defaults.
func NewPortfolioAggregator(clinical *domain.ClinicalConfig) *PortfolioAggregator {
	overall := clinical.Overall
	if overall.AnyHigh <= 0 {
		overall.AnyHigh = defaultOverallThresholds.AnyHigh
	}
	if overall.MeanModerate <= 0 {
		overall.MeanModerate = defaultOverallThresholds.MeanModerate
	}
	return &PortfolioAggregator{overall: overall}
}

// dedupeConditions drops repeated conditions, keeping the first occurrence
// so request order is preserved.
func dedupeConditions(requested []domain.Condition) []domain.Condition {
	seen := make(map[domain.Condition]struct{}, len(requested))
	out := make([]domain.Condition, 0, len(requested))
	for _, c := range requested {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// OverallScore computes the mean of all non-nil combined scores in request
// order, nil when nothing scored. A condition repeated in the request counts
// once.
func (p *PortfolioAggregator) OverallScore(requested []domain.Condition, assessments map[domain.Condition]domain.ConditionAssessment) *float64 {
	var sum float64
	var n int
	for _, c := range dedupeConditions(requested) {
		a, ok := assessments[c]
		if ok && a.CombinedScore != nil {
			sum += *a.CombinedScore
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// OverallBand applies the fixed cross-condition banding: high when any
// condition scored at or above the high cutoff, moderate when the mean is at
// or above the moderate cutoff, low otherwise, unknown when nothing scored.
func (p *PortfolioAggregator) OverallBand(overall *float64, assessments map[domain.Condition]domain.ConditionAssessment) domain.RiskBand {
	if overall == nil {
		return domain.UNKNOWN_RISK
	}
	for _, a := range assessments {
		if a.CombinedScore != nil && *a.CombinedScore >= p.overall.AnyHigh {
			return domain.HIGH_RISK
		}
	}
	if *overall >= p.overall.MeanModerate {
		return domain.MODERATE_RISK
	}
	return domain.LOW_RISK
}

// Prioritize ranks scored conditions by descending combined score and
// returns the top three. Ties keep the original request order: the ordering
// is an explicit contract with downstream consumers, not incidental.
func (p *PortfolioAggregator) Prioritize(requested []domain.Condition, assessments map[domain.Condition]domain.ConditionAssessment) []domain.Condition {
	type ranked struct {
		condition domain.Condition
		score     float64
		order     int
	}

	entries := make([]ranked, 0, len(requested))
	for i, c := range dedupeConditions(requested) {
		a, ok := assessments[c]
		if ok && a.CombinedScore != nil {
			entries = append(entries, ranked{condition: c, score: *a.CombinedScore, order: i})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].order < entries[j].order
	})

	limit := 3
	if len(entries) < limit {
		limit = len(entries)
	}
	top := make([]domain.Condition, 0, limit)
	for _, e := range entries[:limit] {
		top = append(top, e.condition)
	}
	return top
}

// Compare produces the age-band population comparison annotation. It is
// best-effort and low precision; it returns nil rather than failing when the
// inputs do not support a comparison.
func (p *PortfolioAggregator) Compare(age int, overall *float64, band domain.RiskBand) *domain.PopulationComparison {
	if age <= 0 || overall == nil {
		return nil
	}

	low := (age / 10) * 10
	ageBand := fmt.Sprintf("%d-%d", low, low+9)

	var description string
	switch band {
	case domain.HIGH_RISK:
		description = fmt.Sprintf("Overall risk is substantially above what is typical for the %s age group", ageBand)
	case domain.MODERATE_RISK:
		description = fmt.Sprintf("Overall risk is somewhat above what is typical for the %s age group", ageBand)
	default:
		description = fmt.Sprintf("Overall risk is in the typical range for the %s age group", ageBand)
	}

	return &domain.PopulationComparison{
		AgeBand:     ageBand,
		Description: description,
	}
}
