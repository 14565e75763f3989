package triage

import (
	"context"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

const narrateTimeout = 20 * time.Second

// AssessRequest is one assignment workflow input.
type AssessRequest struct {
	PatientName string
	SymptomText string
}

// RegisterRequest creates a new patient record.
type RegisterRequest struct {
	Name       string
	Age        int
	Gender     string
	Conditions string
	Vitals     Vitals
}

// Service is the business boundary for intake operations. It composes the
// patient store, the classifier, and the queue manager into the
// request-scoped assignment workflow.
type Service struct {
	patients   PatientStore
	classifier Classifier
	queue      *QueueManager
	narrator   Narrator // optional
	notifier   Notifier // optional
	logger     log.Logger
	metrics    *Metrics // optional
}

// NewService creates a new intake service. narrator, notifier, and metrics
// may be nil.
func NewService(patients PatientStore, classifier Classifier, queue *QueueManager, logger log.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Service{
		patients:   patients,
		classifier: classifier,
		queue:      queue,
		logger:     logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ServiceOption customizes optional Service collaborators.
type ServiceOption func(*Service)

// WithNarrator attaches an LLM narrator for patient-facing summaries.
func WithNarrator(n Narrator) ServiceOption { return func(s *Service) { s.narrator = n } }

// WithNotifier attaches a queue event notifier.
func WithNotifier(n Notifier) ServiceOption { return func(s *Service) { s.notifier = n } }

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *Metrics) ServiceOption { return func(s *Service) { s.metrics = m } }

// Register creates a patient record. Names are the lookup key, so a second
// registration under an existing name is rejected.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Patient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.countRegistration("validation")
		return nil, E(KindValidation, "patient name is required")
	}

	if _, ok, err := s.patients.FindByName(ctx, name); err != nil {
		s.countRegistration("error")
		return nil, Wrap(KindPersistence, "patient lookup", err)
	} else if ok {
		s.countRegistration("duplicate")
		return nil, Ef(KindValidation, "patient %q is already registered", name)
	}

	now := time.Now().UTC()
	p := &Patient{
		ID:         ulid.Make().String(),
		Name:       name,
		Age:        req.Age,
		Gender:     req.Gender,
		Conditions: req.Conditions,
		Vitals:     req.Vitals,
		Risk:       RiskNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		s.countRegistration("error")
		return nil, Wrap(KindPersistence, "patient create", err)
	}

	s.countRegistration("ok")
	s.logger.Info(ctx, "patient registered", "patient_id", p.ID, "name", p.Name)
	return p, nil
}

// Patient retrieves a patient record by name.
func (s *Service) Patient(ctx context.Context, name string) (*Patient, error) {
	p, ok, err := s.patients.FindByName(ctx, name)
	if err != nil {
		return nil, Wrap(KindPersistence, "patient lookup", err)
	}
	if !ok {
		return nil, Ef(KindNotFound, "patient %q not found", name)
	}
	return p, nil
}

// Queue returns the current id sequence for a department's doctor queue.
func (s *Service) Queue(ctx context.Context, department string) ([]string, error) {
	return s.queue.Queue(ctx, department)
}

// Assess runs one assignment workflow: validate, classify, persist,
// enqueue. Classifier and store failures leave the patient record
// untouched; a missing doctor for the classified department does not roll
// back persistence.
func (s *Service) Assess(ctx context.Context, req *AssessRequest) (*Assessment, error) {
	start := time.Now()
	a, err := s.assess(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	if s.metrics != nil {
		s.metrics.AssessmentsTotal.WithLabelValues(outcome).Inc()
		s.metrics.AssessmentDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
	return a, err
}

func (s *Service) assess(ctx context.Context, req *AssessRequest) (*Assessment, error) {
	name := strings.TrimSpace(req.PatientName)
	symptoms := strings.TrimSpace(req.SymptomText)
	if name == "" {
		return nil, E(KindValidation, "patient name is required")
	}
	if symptoms == "" {
		return nil, E(KindValidation, "symptom text is required")
	}

	patient, ok, err := s.patients.FindByName(ctx, name)
	if err != nil {
		return nil, Wrap(KindPersistence, "patient lookup", err)
	}
	if !ok {
		return nil, Ef(KindNotFound, "patient %q not found", name)
	}

	L := s.logger.With("patient_id", patient.ID, "name", patient.Name)

	verdict, err := s.classify(ctx, patient, symptoms)
	if err != nil {
		// Patient record is untouched on classifier failure.
		L.Error(ctx, err, "classification failed")
		return nil, err
	}

	L.Info(ctx, "classified",
		"risk", string(verdict.Risk),
		"department", verdict.Department,
	)

	event := SymptomEvent{
		ID:          ulid.Make().String(),
		Description: symptoms,
		At:          time.Now().UTC(),
		Risk:        verdict.Risk,
		Department:  verdict.Department,
	}

	// Mutate a copy so a failed update leaves no partial state behind.
	updated := *patient
	updated.Events = append(append([]SymptomEvent(nil), patient.Events...), event)
	updated.Risk = verdict.Risk
	updated.Department = verdict.Department
	updated.UpdatedAt = event.At

	if err := s.patients.Update(ctx, &updated); err != nil {
		return nil, Wrap(KindPersistence, "patient update", err)
	}

	if verdict.Department != "" {
		s.enqueue(ctx, L, &updated, verdict)
	}

	a := &Assessment{
		ID:                    ulid.Make().String(),
		PatientID:             patient.ID,
		Risk:                  verdict.Risk,
		Department:            verdict.Department,
		RiskExplanation:       verdict.RiskExplanation,
		DepartmentExplanation: verdict.DepartmentExplanation,
		CreatedAt:             event.At,
	}

	if s.narrator != nil {
		a.Narrative = s.narrate(ctx, L, &updated, verdict)
	}

	return a, nil
}

func (s *Service) classify(ctx context.Context, p *Patient, symptoms string) (*Verdict, error) {
	v := ClassifyVitals{
		Age:        p.Age,
		Gender:     p.Gender,
		Conditions: p.Conditions,
	}
	// The classifier never defaults inputs; zero-fill missing vitals here.
	if p.Vitals.HeartRate != nil {
		v.HeartRate = *p.Vitals.HeartRate
	}
	if p.Vitals.Temperature != nil {
		v.Temperature = *p.Vitals.Temperature
	}
	if p.Vitals.BPSystolic != nil {
		v.BPSystolic = *p.Vitals.BPSystolic
	}

	start := time.Now()
	verdict, err := s.classifier.Classify(ctx, v, []string{symptoms})

	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
		}
		s.metrics.ClassifierCallsTotal.WithLabelValues(outcome).Inc()
		s.metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	}
	return verdict, err
}

// enqueue places the patient in the classified department's queue. Failures
// here are observed, never propagated: the risk/department are already
// recorded on the patient and placement is idempotent and re-runnable.
func (s *Service) enqueue(ctx context.Context, L log.Logger, p *Patient, verdict *Verdict) {
	ids, placed, err := s.queue.Place(ctx, verdict.Department, p.ID, verdict.Risk)
	switch {
	case err != nil:
		L.Error(ctx, err, "queue placement failed", "department", verdict.Department)
		s.countPlacement(verdict.Department, "error")
		return
	case !placed:
		L.Warn(ctx, "no doctor for department", "department", verdict.Department)
		s.countPlacement(verdict.Department, "no_doctor")
		s.notify(ctx, L, &Event{
			Kind:       "no_doctor",
			PatientID:  p.ID,
			Department: verdict.Department,
			Risk:       verdict.Risk,
		})
		return
	}

	s.countPlacement(verdict.Department, "placed")
	if s.metrics != nil {
		s.metrics.QueueDepth.WithLabelValues(verdict.Department).Set(float64(len(ids)))
	}

	if verdict.Risk == RiskCritical {
		s.notify(ctx, L, &Event{
			Kind:       "critical_arrival",
			PatientID:  p.ID,
			Department: verdict.Department,
			Risk:       verdict.Risk,
		})
	}
}

func (s *Service) narrate(ctx context.Context, L log.Logger, p *Patient, verdict *Verdict) string {
	nctx, cancel := context.WithTimeout(ctx, narrateTimeout)
	defer cancel()

	text, err := s.narrator.Narrate(nctx, p, verdict)
	if err != nil {
		L.Warn(ctx, "narration failed", "error", err)
		s.countNarration("error")
		return ""
	}
	s.countNarration("ok")
	return text
}

func (s *Service) notify(ctx context.Context, L log.Logger, ev *Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, ev); err != nil {
		L.Warn(ctx, "notification failed", "event", ev.Kind, "error", err)
	}
}

func (s *Service) countPlacement(department, result string) {
	if s.metrics != nil {
		s.metrics.PlacementsTotal.WithLabelValues(department, result).Inc()
	}
}

func (s *Service) countRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countNarration(outcome string) {
	if s.metrics != nil {
		s.metrics.NarrationsTotal.WithLabelValues(outcome).Inc()
	}
}
