package intakeapi

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/intake/internal/triage"
)

type assessRequest struct {
	PatientName string `json:"patient_name"`
	Symptoms    string `json:"symptoms"`
}

func (a *API) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("intake.patient.name", req.PatientName))

	result, err := a.svc.Assess(r.Context(), &triage.AssessRequest{
		PatientName: req.PatientName,
		SymptomText: req.Symptoms,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	span.SetAttributes(
		attribute.String("intake.assessment.risk", string(result.Risk)),
		attribute.String("intake.assessment.department", result.Department),
	)

	writeJSON(w, http.StatusOK, result)
}
