package triage

import "context"

// PatientStore is the persistence contract for patient records. Update is
// all-or-nothing: the event append and the risk/department change land
// together or not at all.
type PatientStore interface {
	FindByName(ctx context.Context, name string) (*Patient, bool, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
}

// DoctorStore is the persistence contract for doctor records. When several
// doctors share a department, FindByDepartment resolves the one with the
// lexically smallest ID so placement is deterministic.
type DoctorStore interface {
	FindByDepartment(ctx context.Context, department string) (*Doctor, bool, error)
	Save(ctx context.Context, d *Doctor) error
}

// Classifier is the external predictive service that turns vitals plus
// symptom text into a risk/department verdict.
type Classifier interface {
	Classify(ctx context.Context, v ClassifyVitals, symptoms []string) (*Verdict, error)
}

// ClassifyVitals is the vitals payload the classifier expects. Missing
// values are defaulted by the caller before the call, never inside the
// client.
type ClassifyVitals struct {
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	HeartRate   int     `json:"heart_rate"`
	Temperature float64 `json:"temperature"`
	BPSystolic  int     `json:"blood_pressure_systolic"`
	Conditions  string  `json:"pre_existing_conditions"`
}

// Narrator turns a verdict into a short patient-facing narrative.
// Narration is best-effort; failures never fail an assessment.
type Narrator interface {
	Narrate(ctx context.Context, p *Patient, v *Verdict) (string, error)
}

// Event describes a queue occurrence worth notifying about.
type Event struct {
	Kind       string // "critical_arrival" or "no_doctor"
	PatientID  string
	Department string
	Risk       RiskLevel
}

// Notifier delivers queue events to an external channel.
type Notifier interface {
	Send(ctx context.Context, ev *Event) error
}
