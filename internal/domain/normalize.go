package domain

import "time"

// Clinical defaults for fields absent from the supplied record. Every formula
// runs against a fully populated record produced by Normalize, so default
// literals live here and nowhere else.
//
//	total cholesterol   200 mg/dL  (population median, desirable/borderline cut)
//	HDL cholesterol      50 mg/dL
//	systolic BP         120 mmHg   (normotensive)
//	diastolic BP         80 mmHg
//	BMI                  25        (upper bound of normal range)
//	smoking             never
//	physical activity   active
//	age at menarche      13
//	breast biopsies       0
const (
	DefaultTotalCholesterol = 200.0
	DefaultHDLCholesterol   = 50.0
	DefaultSystolicBP       = 120.0
	DefaultDiastolicBP      = 80.0
	DefaultBMI              = 25.0
	DefaultAgeAtMenarche    = 13
)

// NormalizedPatientRecord is a PatientRecord with every optional field
// resolved, either from the supplied value or from the defaults table.
// Formulas consume only this type.
type NormalizedPatientRecord struct {
	Age              int
	Sex              Sex
	Race             string
	TotalCholesterol float64
	HDLCholesterol   float64
	SystolicBP       float64
	DiastolicBP      float64
	HasDiabetes      bool
	TreatedBP        bool // taking a medication tagged "antihypertensive"
	BMI              float64
	Smoking          SmokingStatus
	PhysicallyActive bool

	AgeAtMenarche       int
	AgeAtFirstBirth     int // 0 means nulliparous or unknown
	BreastBiopsies      int
	AtypicalHyperplasia bool
	GestationalDiabetes bool

	FamilyHistory map[Condition]int
}

// Normalize resolves a raw patient record against the clinical defaults
// table as of the given assessment time. It never fails: partial data is the
// expected case, and every formula must stay computable.
func Normalize(p *PatientRecord, at time.Time) *NormalizedPatientRecord {
	n := &NormalizedPatientRecord{
		Age:                 p.Age,
		Sex:                 p.Sex,
		Race:                p.Race,
		TotalCholesterol:    valueOr(p.TotalCholesterol, DefaultTotalCholesterol),
		HDLCholesterol:      valueOr(p.HDLCholesterol, DefaultHDLCholesterol),
		SystolicBP:          valueOr(p.SystolicBP, DefaultSystolicBP),
		DiastolicBP:         valueOr(p.DiastolicBP, DefaultDiastolicBP),
		HasDiabetes:         p.HasDiabetes,
		TreatedBP:           p.TakesMedication("antihypertensive"),
		Smoking:             p.Smoking,
		PhysicallyActive:    true,
		AgeAtMenarche:       DefaultAgeAtMenarche,
		AtypicalHyperplasia: p.AtypicalHyperplasia,
		GestationalDiabetes: p.GestationalHistory,
		FamilyHistory:       p.FamilyHistory,
	}

	if n.Age == 0 && !p.BirthDate.IsZero() {
		n.Age = yearsBetween(p.BirthDate, at)
	}

	n.BMI = resolveBMI(p)

	if !n.Smoking.IsValid() {
		n.Smoking = NEVER_SMOKER
	}
	if p.PhysicallyActive != nil {
		n.PhysicallyActive = *p.PhysicallyActive
	}
	if p.AgeAtMenarche != nil {
		n.AgeAtMenarche = *p.AgeAtMenarche
	}
	if p.AgeAtFirstBirth != nil {
		n.AgeAtFirstBirth = *p.AgeAtFirstBirth
	}
	if p.BreastBiopsies != nil {
		n.BreastBiopsies = *p.BreastBiopsies
	}

	return n
}

// resolveBMI prefers a supplied BMI, then derives from height and weight,
// then falls back to the default.
func resolveBMI(p *PatientRecord) float64 {
	if p.BMI != nil {
		return *p.BMI
	}
	if p.HeightCM != nil && p.WeightKG != nil && *p.HeightCM > 0 {
		heightM := *p.HeightCM / 100.0
		return *p.WeightKG / (heightM * heightM)
	}
	return DefaultBMI
}

// FirstDegreeRelatives returns the affected first-degree relative count for
// a condition, zero when no family history was supplied.
func (n *NormalizedPatientRecord) FirstDegreeRelatives(c Condition) int {
	if n.FamilyHistory == nil {
		return 0
	}
	return n.FamilyHistory[c]
}

func valueOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// yearsBetween computes whole years from birth to the reference time.
func yearsBetween(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() ||
		(at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
