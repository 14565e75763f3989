package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linnemanlabs/intake/internal/triage"
)

func TestSend_NoWebhookConfigured(t *testing.T) {
	t.Parallel()

	n := New("")
	if err := n.Send(context.Background(), &triage.Event{Kind: "no_doctor"}); err != nil {
		t.Errorf("Send with empty webhook: %v", err)
	}
}

func TestSend_PostsBlocks(t *testing.T) {
	t.Parallel()

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Send(context.Background(), &triage.Event{
		Kind:       "critical_arrival",
		PatientID:  "p-1",
		Department: "Emergency",
		Risk:       triage.RiskCritical,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	var msg struct {
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(msg.Blocks) == 0 {
		t.Fatal("expected block kit payload")
	}
	payload := string(body)
	if !strings.Contains(payload, "Emergency") || !strings.Contains(payload, "p-1") {
		t.Errorf("payload missing event fields: %s", payload)
	}
	if !strings.Contains(payload, "Patient arrival") {
		t.Errorf("payload missing arrival header: %s", payload)
	}
}

func TestSend_NoDoctorHeader(t *testing.T) {
	t.Parallel()

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := New(srv.URL).Send(context.Background(), &triage.Event{
		Kind:       "no_doctor",
		PatientID:  "p-1",
		Department: "Dermatology",
		Risk:       triage.RiskMedium,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(string(body), "No doctor available") {
		t.Errorf("payload missing no-doctor header: %s", body)
	}
}

func TestSend_WebhookError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL).Send(context.Background(), &triage.Event{Kind: "no_doctor"})
	if err == nil {
		t.Fatal("expected error on non-2xx webhook response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want status in message", err)
	}
}
