package intakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/intake/internal/triage"
)

type registerPatientRequest struct {
	Name       string        `json:"name"`
	Age        int           `json:"age,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	Conditions string        `json:"pre_existing_conditions,omitempty"`
	Vitals     triage.Vitals `json:"vitals"`
}

func (a *API) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req registerPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	p, err := a.svc.Register(r.Context(), &triage.RegisterRequest{
		Name:       req.Name,
		Age:        req.Age,
		Gender:     req.Gender,
		Conditions: req.Conditions,
		Vitals:     req.Vitals,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("intake.patient.id", p.ID))

	writeJSON(w, http.StatusCreated, p)
}

func (a *API) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("intake.patient.name", name))

	p, err := a.svc.Patient(r.Context(), name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("intake.department", department))

	ids, err := a.svc.Queue(r.Context(), department)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"department": department,
		"queue":      ids,
	})
}
