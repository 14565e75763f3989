// Package classifier implements the HTTP client for the external
// predictive service that scores patient risk and routes departments.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/intake/internal/triage"
)

// DefaultTimeout bounds a classifier round trip. Past it the call is
// abandoned, never retried.
const DefaultTimeout = 30 * time.Second

// Client calls the predictive service. It performs no retries and never
// substitutes a default verdict; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a classifier client for the given base URL. A zero timeout
// falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	Vitals   triage.ClassifyVitals `json:"vitals"`
	Symptoms []string              `json:"symptoms"`
}

type predictResponse struct {
	Risk                  string `json:"risk"`
	Department            string `json:"department"`
	RiskExplanation       string `json:"risk_explanation"`
	DepartmentExplanation string `json:"department_explanation"`
}

// Classify posts vitals and symptom text to the predictive service and
// normalizes its verdict. Timeouts and connection failures surface as
// service_unavailable; error payloads from a reachable service surface as
// classification_failed.
func (c *Client) Classify(ctx context.Context, v triage.ClassifyVitals, symptoms []string) (*triage.Verdict, error) {
	body, err := json.Marshal(predictRequest{Vitals: v, Symptoms: symptoms})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, triage.Wrap(triage.KindServiceUnavailable, "classifier unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, triage.Wrap(triage.KindServiceUnavailable, "read classifier response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, triage.Ef(triage.KindClassificationFailed,
			"classifier returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out predictResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, triage.Wrap(triage.KindClassificationFailed, "unmarshal classifier response", err)
	}

	return &triage.Verdict{
		Risk:                  triage.ParseRisk(out.Risk),
		Department:            strings.TrimSpace(out.Department),
		RiskExplanation:       out.RiskExplanation,
		DepartmentExplanation: out.DepartmentExplanation,
	}, nil
}
