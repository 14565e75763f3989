package intakeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/linnemanlabs/intake/internal/triage"
)

func TestHandlers_AnnotateSpans(t *testing.T) {
	// Not parallel: uses a dedicated in-memory trace provider.

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	svc := &mockService{
		assessFn: func(_ context.Context, _ *triage.AssessRequest) (*triage.Assessment, error) {
			return &triage.Assessment{
				ID:         "a-1",
				PatientID:  "p-1",
				Risk:       triage.RiskHigh,
				Department: "Cardiology",
			}, nil
		},
	}
	r := newTestRouter(svc)

	// Simulate the otelhttp middleware: the handler annotates whatever
	// span is already in the request context.
	ctx, span := tp.Tracer("test").Start(context.Background(), "http.server")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments",
		strings.NewReader(`{"patient_name":"Asha","symptoms":"chest pain"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	span.End()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}

	attrs := make(map[string]any)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	if v, ok := attrs["intake.patient.name"]; !ok || v != "Asha" {
		t.Errorf("intake.patient.name = %v, want Asha", v)
	}
	if v, ok := attrs["intake.assessment.risk"]; !ok || v != "High" {
		t.Errorf("intake.assessment.risk = %v, want High", v)
	}
	if v, ok := attrs["intake.assessment.department"]; !ok || v != "Cardiology" {
		t.Errorf("intake.assessment.department = %v, want Cardiology", v)
	}
}
