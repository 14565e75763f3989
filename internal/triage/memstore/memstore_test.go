package memstore

import (
	"context"
	"testing"

	"github.com/linnemanlabs/intake/internal/triage"
)

func TestPatientRoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, &triage.Patient{ID: "p-1", Name: "Asha", Risk: triage.RiskNone}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p, ok, err := s.FindByName(ctx, "Asha")
	if err != nil || !ok {
		t.Fatalf("FindByName: ok=%v err=%v", ok, err)
	}
	if p.ID != "p-1" {
		t.Errorf("id = %q, want p-1", p.ID)
	}

	p.Risk = triage.RiskHigh
	p.Events = append(p.Events, triage.SymptomEvent{ID: "e-1", Description: "chest pain"})
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, ok, err := s.FindByName(ctx, "Asha")
	if err != nil || !ok {
		t.Fatalf("FindByName after update: ok=%v err=%v", ok, err)
	}
	if got.Risk != triage.RiskHigh || len(got.Events) != 1 {
		t.Errorf("updated patient = %+v", got)
	}
}

func TestFindByName_Missing(t *testing.T) {
	t.Parallel()

	_, ok, err := New().FindByName(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unknown patient")
	}
}

func TestFindByName_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, &triage.Patient{
		ID:     "p-1",
		Name:   "Asha",
		Events: []triage.SymptomEvent{{ID: "e-1"}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p1, _, _ := s.FindByName(ctx, "Asha")
	p1.Events[0].ID = "mutated"
	p1.Risk = triage.RiskCritical

	p2, _, _ := s.FindByName(ctx, "Asha")
	if p2.Events[0].ID != "e-1" || p2.Risk == triage.RiskCritical {
		t.Error("caller mutation leaked into the store")
	}
}

func TestFindByDepartment_SmallestIDWins(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	for _, d := range []*triage.Doctor{
		{ID: "doc-b", Department: "Cardiology"},
		{ID: "doc-a", Department: "Cardiology"},
		{ID: "doc-c", Department: "Neurology"},
	} {
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	d, ok, err := s.FindByDepartment(ctx, "Cardiology")
	if err != nil || !ok {
		t.Fatalf("FindByDepartment: ok=%v err=%v", ok, err)
	}
	if d.ID != "doc-a" {
		t.Errorf("resolved doctor = %q, want doc-a", d.ID)
	}
}

func TestFindByDepartment_Missing(t *testing.T) {
	t.Parallel()

	_, ok, err := New().FindByDepartment(context.Background(), "Dermatology")
	if err != nil {
		t.Fatalf("FindByDepartment: %v", err)
	}
	if ok {
		t.Error("expected ok=false for department with no doctor")
	}
}

func TestSave_ReplacesQueue(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	d := &triage.Doctor{ID: "doc-1", Department: "Cardiology"}
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d.Queue = []triage.QueueEntry{{PatientID: "p-1", Risk: triage.RiskHigh}}
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, _ := s.FindByDepartment(ctx, "Cardiology")
	if len(got.Queue) != 1 || got.Queue[0].PatientID != "p-1" {
		t.Errorf("queue = %v, want [p-1]", got.Queue)
	}

	// Mutating the saved doctor afterwards must not reach the store.
	d.Queue[0].PatientID = "mutated"
	got2, _, _ := s.FindByDepartment(ctx, "Cardiology")
	if got2.Queue[0].PatientID != "p-1" {
		t.Error("caller mutation leaked into the store")
	}
}
