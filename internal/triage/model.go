package triage

import (
	"strings"
	"time"
)

// RiskLevel is the ordinal severity assigned by the classifier.
type RiskLevel string

const (
	RiskNone     RiskLevel = "None"
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// riskPriority orders queue placement. Levels missing from the table
// (including RiskNone) carry priority 0.
var riskPriority = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Priority returns the queue priority for the level. Unknown levels are 0.
func (r RiskLevel) Priority() int {
	return riskPriority[r]
}

// ParseRisk normalizes free-form classifier output to a RiskLevel.
// Unrecognized values map to RiskNone rather than failing.
func ParseRisk(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	case "critical":
		return RiskCritical
	default:
		return RiskNone
	}
}

// Vitals is the latest vitals snapshot for a patient. Every field is
// optional; missing values stay nil/empty.
type Vitals struct {
	HeartRate   *int     `json:"heart_rate,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	BPSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BPDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	OxygenLevel *float64 `json:"oxygen_level,omitempty"`
	BMI         *float64 `json:"bmi,omitempty"`
	BloodGroup  string   `json:"blood_group,omitempty"`
}

// SymptomEvent is one immutable assessment record in a patient's history.
// Log order is insertion order.
type SymptomEvent struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
	Risk        RiskLevel `json:"risk"`
	Department  string    `json:"department,omitempty"`
}

// Patient is the durable intake record. Risk and Department always reflect
// the most recent SymptomEvent; a patient with no events has RiskNone.
type Patient struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Age        int            `json:"age,omitempty"`
	Gender     string         `json:"gender,omitempty"`
	Conditions string         `json:"pre_existing_conditions,omitempty"`
	Vitals     Vitals         `json:"vitals"`
	Events     []SymptomEvent `json:"events,omitempty"`
	Risk       RiskLevel      `json:"risk"`
	Department string         `json:"department,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// QueueEntry is a patient reference in a doctor's queue: the id plus the
// risk it was last placed with. No patient data is embedded, so stale
// vitals never leak into the queue.
type QueueEntry struct {
	PatientID string    `json:"patient_id"`
	Risk      RiskLevel `json:"risk"`
}

// Doctor holds a department's ordered patient queue. A patient id appears
// at most once.
type Doctor struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Department string       `json:"department"`
	Queue      []QueueEntry `json:"queue,omitempty"`
}

// QueueIDs returns the queue as a plain id sequence, highest priority first.
func (d *Doctor) QueueIDs() []string {
	ids := make([]string, len(d.Queue))
	for i, e := range d.Queue {
		ids[i] = e.PatientID
	}
	return ids
}

// Verdict is the normalized classifier outcome.
type Verdict struct {
	Risk                  RiskLevel `json:"risk"`
	Department            string    `json:"department"`
	RiskExplanation       string    `json:"risk_explanation,omitempty"`
	DepartmentExplanation string    `json:"department_explanation,omitempty"`
}

// Assessment is the outcome of one assignment workflow, returned to the
// caller after persist + enqueue.
type Assessment struct {
	ID                    string    `json:"id"`
	PatientID             string    `json:"patient_id"`
	Risk                  RiskLevel `json:"risk"`
	Department            string    `json:"department,omitempty"`
	RiskExplanation       string    `json:"risk_explanation,omitempty"`
	DepartmentExplanation string    `json:"department_explanation,omitempty"`
	Narrative             string    `json:"narrative,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}
