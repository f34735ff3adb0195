package domain

import (
	"time"
)

// Request/Response Models

// AssessmentRequest represents an incoming risk assessment request.
type AssessmentRequest struct {
	PatientID  string        `json:"patient_id"`
	Patient    PatientRecord `json:"patient"`
	Conditions []Condition   `json:"conditions"`
}

// Core Data Models

// PatientRecord holds the demographic, clinical, lifestyle and family-history
// inputs for one assessment run. All fields except BirthDate and Sex are
// optional: missing values resolve to the documented clinical defaults during
// normalization (see Defaults), never to an error. Pointer fields distinguish
// "not supplied" from a legitimate zero value.
type PatientRecord struct {
	// Demographics
	BirthDate time.Time `json:"birth_date"`
	Age       int       `json:"age,omitempty"` // derived from BirthDate when zero
	Sex       Sex       `json:"sex"`
	Race      string    `json:"race,omitempty"` // self-reported race/ethnicity

	// Clinical
	TotalCholesterol *float64 `json:"total_cholesterol,omitempty"` // mg/dL
	HDLCholesterol   *float64 `json:"hdl_cholesterol,omitempty"`   // mg/dL
	SystolicBP       *float64 `json:"systolic_bp,omitempty"`       // mmHg
	DiastolicBP      *float64 `json:"diastolic_bp,omitempty"`      // mmHg
	HasDiabetes      bool     `json:"has_diabetes"`
	Medications      []string `json:"medications,omitempty"` // tags, e.g. "antihypertensive"
	BMI              *float64 `json:"bmi,omitempty"`
	HeightCM         *float64 `json:"height_cm,omitempty"` // used to derive BMI when BMI absent
	WeightKG         *float64 `json:"weight_kg,omitempty"`

	// Reproductive history (breast cancer formulas only)
	AgeAtMenarche       *int `json:"age_at_menarche,omitempty"`
	AgeAtFirstBirth     *int `json:"age_at_first_birth,omitempty"` // nil means nulliparous or unknown
	BreastBiopsies      *int `json:"breast_biopsies,omitempty"`
	AtypicalHyperplasia bool `json:"atypical_hyperplasia"`

	// Lifestyle
	Smoking            SmokingStatus `json:"smoking,omitempty"`
	PhysicallyActive   *bool         `json:"physically_active,omitempty"`
	GestationalHistory bool          `json:"gestational_diabetes"` // prior gestational diabetes

	// Family history: condition -> affected first-degree relative count
	FamilyHistory map[Condition]int `json:"family_history,omitempty"`
}

// TakesMedication reports whether the record carries a medication with the
// given tag (case-sensitive match on the tag as supplied by the data provider).
func (p *PatientRecord) TakesMedication(tag string) bool {
	for _, m := range p.Medications {
		if m == tag {
			return true
		}
	}
	return false
}

// FirstDegreeRelatives returns the affected first-degree relative count for
// a condition, zero when no family history was supplied.
func (p *PatientRecord) FirstDegreeRelatives(c Condition) int {
	if p.FamilyHistory == nil {
		return 0
	}
	return p.FamilyHistory[c]
}

// FormulaResult is the output of one named formula for one condition.
// Score units are formula-specific: 10-year percentage for the cardiovascular
// formulas, absolute 5-year percentage for Gail, and raw points for the ADA
// diabetes risk test. Created per invocation and never mutated.
type FormulaResult struct {
	Formula     FormulaID          `json:"formula"`
	Condition   Condition          `json:"condition"`
	Status      FormulaStatus      `json:"status"`
	Score       float64            `json:"score"`
	ScoreUnit   string             `json:"score_unit"`
	Category    string             `json:"category,omitempty"`
	Reason      string             `json:"reason,omitempty"` // populated for NOT_APPLICABLE and FAILED
	Note        string             `json:"note,omitempty"`   // formula-specific guidance text
	FactorsUsed map[string]float64 `json:"factors_used,omitempty"`
	Flags       []string           `json:"flags,omitempty"` // e.g. "statin_consideration", "chemoprevention_consideration"
}

// Succeeded reports whether the formula produced a usable score.
func (r *FormulaResult) Succeeded() bool {
	return r.Status == FORMULA_OK
}

// ModifiableFactor describes one risk contributor that can plausibly be
// changed through intervention, with the target value and the intervention
// that addresses it.
type ModifiableFactor struct {
	Name         string      `json:"name"`
	Current      string      `json:"current"`
	Target       string      `json:"target"`
	Impact       ImpactLevel `json:"impact"`
	Intervention string      `json:"intervention"`
}

// RecommendationSet groups recommendations by timeframe bucket.
type RecommendationSet struct {
	Immediate  []string `json:"immediate,omitempty"`
	ShortTerm  []string `json:"short_term,omitempty"`
	LongTerm   []string `json:"long_term,omitempty"`
	Monitoring []string `json:"monitoring,omitempty"`
}

// Urgency is the intervention urgency classification for one condition,
// derived solely from its risk band.
type Urgency struct {
	Level     UrgencyLevel `json:"level"`
	Timeframe string       `json:"timeframe"`
	Priority  string       `json:"priority"`
}

// ConditionAssessment aggregates all formula results for one condition.
// CombinedScore is nil when no formula succeeded; Confidence is the exact
// fraction of registered formulas that produced a score. Immutable once built.
type ConditionAssessment struct {
	Condition         Condition          `json:"condition"`
	CombinedScore     *float64           `json:"combined_score"` // nil when no formula succeeded
	Confidence        float64            `json:"confidence"`
	Band              RiskBand           `json:"band"`
	PrimaryFormula    FormulaID          `json:"primary_formula"`
	FormulaResults    []FormulaResult    `json:"formula_results"`
	ModifiableFactors []ModifiableFactor `json:"modifiable_factors"`
	Recommendations   RecommendationSet  `json:"recommendations"`
	Urgency           Urgency            `json:"urgency"`
}

// Scored reports whether at least one formula produced a usable score.
func (a *ConditionAssessment) Scored() bool {
	return a.CombinedScore != nil
}

// PopulationComparison is a best-effort, low-precision annotation comparing
// the patient's overall risk against their age band. Absence never blocks
// an assessment.
type PopulationComparison struct {
	AgeBand     string `json:"age_band"`
	Description string `json:"description"`
}

// ConditionError records a per-condition boundary failure (e.g. an
// unsupported condition name) without aborting sibling conditions.
type ConditionError struct {
	Condition string `json:"condition"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// RiskProfile is the top-level aggregate for one assessment call.
// A partial profile (some conditions scored, others unknown or rejected)
// is a valid, complete response.
type RiskProfile struct {
	ID                 string                            `json:"id"`
	PatientID          string                            `json:"patient_id"`
	Assessments        map[Condition]ConditionAssessment `json:"assessments"`
	Errors             []ConditionError                  `json:"errors,omitempty"`
	OverallScore       *float64                          `json:"overall_score"` // nil when nothing scored
	OverallBand        RiskBand                          `json:"overall_band"`
	PriorityConditions []Condition                       `json:"priority_conditions"` // top 3 by combined score
	Population         *PopulationComparison             `json:"population_comparison,omitempty"`
	GeneratedAt        time.Time                         `json:"generated_at"`
	ProcessingTime     time.Duration                     `json:"processing_time"`
}

// Configuration Models

// Config represents the main application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Clinical ClinicalConfig `mapstructure:"clinical"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig represents profile store configuration. Driver selects
// between the embedded SQLite store and PostgreSQL.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // "sqlite" or "postgres"
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// CacheConfig represents profile cache configuration.
type CacheConfig struct {
	MemorySize int           `mapstructure:"memory_size"` // LRU entry count
	RedisURL   string        `mapstructure:"redis_url"`   // empty disables the Redis tier
	TTL        time.Duration `mapstructure:"ttl"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClinicalConfig carries the externally adjustable clinical-guideline data:
// classification thresholds, the modifiable-factor catalogue, urgency
// templates and per-condition recommendation templates. Guideline updates
// change this data, not formula code.
type ClinicalConfig struct {
	Thresholds      map[string]BandThresholds        `mapstructure:"thresholds"`
	Overall         OverallThresholds                `mapstructure:"overall"`
	Factors         FactorCatalogue                  `mapstructure:"factors"`
	Urgency         map[string]UrgencyTemplate       `mapstructure:"urgency"`
	Recommendations map[string]RecommendationSources `mapstructure:"recommendations"`
	GailFiveYear    float64                          `mapstructure:"gail_five_year_threshold"`
}

// BandThresholds is the ordered threshold pair for one condition:
// score < Low => low band, score < Moderate => moderate band, else high.
type BandThresholds struct {
	Low      float64 `mapstructure:"low" json:"low"`
	Moderate float64 `mapstructure:"moderate" json:"moderate"`
}

// OverallThresholds drives the cross-condition band: any condition at or
// above AnyHigh is high, a mean at or above MeanModerate is moderate.
type OverallThresholds struct {
	AnyHigh      float64 `mapstructure:"any_high"`
	MeanModerate float64 `mapstructure:"mean_moderate"`
}

// FactorCatalogue holds the trigger cutoffs for the modifiable-factor scan.
type FactorCatalogue struct {
	BMIOverweight float64 `mapstructure:"bmi_overweight"`
	ElevatedSBP   float64 `mapstructure:"elevated_sbp"`
	ElevatedTotal float64 `mapstructure:"elevated_total_cholesterol"`
	LowHDL        float64 `mapstructure:"low_hdl"`
}

// UrgencyTemplate is the configured timeframe/priority pair for one band.
type UrgencyTemplate struct {
	Timeframe string `mapstructure:"timeframe"`
	Priority  string `mapstructure:"priority"`
}

// RecommendationSources holds the static per-condition guidance used to fill
// the long-term and monitoring buckets, plus the urgent-care instructions
// used when the band is high.
type RecommendationSources struct {
	Urgent     []string `mapstructure:"urgent"`
	LongTerm   []string `mapstructure:"long_term"`
	Monitoring []string `mapstructure:"monitoring"`
}
