package intakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/linnemanlabs/intake/internal/extract"
)

type extractReportRequest struct {
	Text string `json:"text"`
}

// handleExtractReport pulls structured fields from raw report text. The
// text is expected to be already OCR'd/decoded upstream. Extraction never
// fails; unmatched fields are simply absent from the response.
func (a *API) handleExtractReport(w http.ResponseWriter, r *http.Request) {
	var req extractReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	report := extract.Extract(req.Text)

	if a.metrics != nil {
		a.metrics.ExtractionsTotal.Inc()
	}

	writeJSON(w, http.StatusOK, report)
}
