package extract

import (
	"reflect"
	"strings"
	"testing"
)

const sampleReport = `
Patient ID: PT1042
Name: Asha Verma
Age: 45  Gender: Female

Chief Complaints: chest pain radiating to the left arm, shortness of breath

Vitals:
Blood Pressure: 150 / 95
Pulse: 112
Temperature: 99.1

Past History: hypertension, type 2 diabetes

Risk Level: High
`

func TestExtract_FullReport(t *testing.T) {
	t.Parallel()

	r := Extract(sampleReport)

	if r.PatientID != "PT1042" {
		t.Errorf("patient id = %q, want PT1042", r.PatientID)
	}
	if r.Age == nil || *r.Age != 45 {
		t.Errorf("age = %v, want 45", r.Age)
	}
	if r.Gender != "Female" {
		t.Errorf("gender = %q, want Female", r.Gender)
	}
	if !strings.Contains(r.Symptoms, "chest pain") {
		t.Errorf("symptoms = %q, want chest pain mention", r.Symptoms)
	}
	if r.BloodPressure != "150/95" {
		t.Errorf("blood pressure = %q, want 150/95", r.BloodPressure)
	}
	if r.HeartRate == nil || *r.HeartRate != 112 {
		t.Errorf("heart rate = %v, want 112", r.HeartRate)
	}
	if r.Temperature == nil || *r.Temperature != 99.1 {
		t.Errorf("temperature = %v, want 99.1", r.Temperature)
	}
	if !strings.Contains(r.Conditions, "hypertension") {
		t.Errorf("conditions = %q", r.Conditions)
	}
	if r.Risk != "High" {
		t.Errorf("risk = %q, want High", r.Risk)
	}
}

func TestExtract_MissingFieldsStayAbsent(t *testing.T) {
	t.Parallel()

	r := Extract("Age: 45. No other structured data here.")

	if r.Age == nil || *r.Age != 45 {
		t.Errorf("age = %v, want 45", r.Age)
	}
	if r.Gender != "" {
		t.Errorf("gender = %q, want empty", r.Gender)
	}
	if r.HeartRate != nil || r.Temperature != nil {
		t.Error("expected nil vitals when patterns do not match")
	}
	if r.PatientID != "" || r.Risk != "" {
		t.Errorf("unexpected matches: %+v", r)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	t.Parallel()

	r := Extract("")
	if !reflect.DeepEqual(r, Report{}) {
		t.Errorf("Extract(\"\") = %+v, want zero report", r)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	a := Extract(sampleReport)
	b := Extract(sampleReport)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical input produced different reports:\n%+v\n%+v", a, b)
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	t.Parallel()

	r := Extract("Age: 30 ... later amended to Age: 31")
	if r.Age == nil || *r.Age != 30 {
		t.Errorf("age = %v, want first match 30", r.Age)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := Extract("PATIENT ID: abc123\nGENDER: MALE\nRISK LEVEL: low")
	if r.PatientID != "abc123" {
		t.Errorf("patient id = %q", r.PatientID)
	}
	if r.Gender != "Male" {
		t.Errorf("gender = %q, want Male", r.Gender)
	}
	if r.Risk != "Low" {
		t.Errorf("risk = %q, want Low", r.Risk)
	}
}

func TestExtract_HeartRateAlias(t *testing.T) {
	t.Parallel()

	r := Extract("Heart Rate: 88")
	if r.HeartRate == nil || *r.HeartRate != 88 {
		t.Errorf("heart rate = %v, want 88", r.HeartRate)
	}
}

func TestExtractWith_CustomRules(t *testing.T) {
	t.Parallel()

	r := ExtractWith(nil, sampleReport)
	if !reflect.DeepEqual(r, Report{}) {
		t.Errorf("empty rule table produced %+v, want zero report", r)
	}
}
