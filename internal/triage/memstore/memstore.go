// Package memstore provides in-memory implementations of
// triage.PatientStore and triage.DoctorStore. Suitable for dev/testing.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/intake/internal/triage"
)

// Store holds patients and doctors in memory. All methods copy records in
// and out so callers never share slices with the store.
type Store struct {
	mu       sync.RWMutex
	patients map[string]*triage.Patient // name -> patient
	doctors  map[string]*triage.Doctor  // doctor ID -> doctor
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		patients: make(map[string]*triage.Patient),
		doctors:  make(map[string]*triage.Doctor),
	}
}

func copyPatient(p *triage.Patient) *triage.Patient {
	cp := *p
	cp.Events = append([]triage.SymptomEvent(nil), p.Events...)
	return &cp
}

func copyDoctor(d *triage.Doctor) *triage.Doctor {
	cp := *d
	cp.Queue = append([]triage.QueueEntry(nil), d.Queue...)
	return &cp
}

// FindByName retrieves a patient record by name. Returns a copy.
func (s *Store) FindByName(_ context.Context, name string) (*triage.Patient, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[name]
	if !ok {
		return nil, false, nil
	}
	return copyPatient(p), true, nil
}

// Create stores a copy of a new patient record.
func (s *Store) Create(_ context.Context, p *triage.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.Name] = copyPatient(p)
	return nil
}

// Update replaces the stored patient record in one step.
func (s *Store) Update(_ context.Context, p *triage.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.Name] = copyPatient(p)
	return nil
}

// FindByDepartment resolves the department's doctor. With several doctors
// in a department the lexically smallest ID wins, keeping placement
// deterministic.
func (s *Store) FindByDepartment(_ context.Context, department string) (*triage.Doctor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.doctors))
	for id, d := range s.doctors {
		if d.Department == department {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false, nil
	}
	sort.Strings(ids)
	return copyDoctor(s.doctors[ids[0]]), true, nil
}

// Save stores a copy of the doctor record.
func (s *Store) Save(_ context.Context, d *triage.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[d.ID] = copyDoctor(d)
	return nil
}
