// Package intakeapi exposes the intake service over HTTP.
package intakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/intake/internal/triage"
)

// IntakeService defines the business operations intakeapi needs.
type IntakeService interface {
	Register(ctx context.Context, req *triage.RegisterRequest) (*triage.Patient, error)
	Patient(ctx context.Context, name string) (*triage.Patient, error)
	Assess(ctx context.Context, req *triage.AssessRequest) (*triage.Assessment, error)
	Queue(ctx context.Context, department string) ([]string, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	svc     IntakeService
	metrics *triage.Metrics // optional
}

// New creates a new API handler.
func New(logger log.Logger, svc IntakeService, metrics *triage.Metrics) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("intake service is required"))
	}
	return &API{
		logger:  logger,
		svc:     svc,
		metrics: metrics,
	}
}

// RegisterRoutes attaches API endpoints to the router. Any middlewares
// given (e.g. auth) apply to API routes only, not health endpoints.
func (a *API) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mws...)
		r.Post("/patients", a.handleRegisterPatient)
		r.Get("/patients/{name}", a.handleGetPatient)
		r.Post("/assessments", a.handleAssess)
		r.Get("/departments/{department}/queue", a.handleGetQueue)
		r.Post("/reports/extract", a.handleExtractReport)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a failure kind to an HTTP status and serves the detail.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch triage.KindOf(err) {
	case triage.KindValidation:
		status = http.StatusBadRequest
	case triage.KindNotFound:
		status = http.StatusNotFound
	case triage.KindServiceUnavailable:
		status = http.StatusServiceUnavailable
	case triage.KindClassificationFailed:
		status = http.StatusBadGateway
	case triage.KindPersistence:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		a.logger.Error(r.Context(), err, "request failed",
			"path", r.URL.Path,
			"status", status,
		)
		// internal detail stays out of the response body
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}

	msg := err.Error()
	var te *triage.Error
	if errors.As(err, &te) {
		msg = te.Msg
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
