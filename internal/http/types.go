package http

import (
	"bytes"
	"encoding/json"

	"github.com/fyrsmithlabs/payplan/internal/extraction"
	"github.com/fyrsmithlabs/payplan/internal/telemetry"
)

// ExtractRequest is the request body for POST /api/v1/extract.
//
// Text is kept raw so a null or non-string value can be told apart from a
// malformed body; both yield an empty result.
type ExtractRequest struct {
	Text        json.RawMessage `json:"text"`
	Timezone    string          `json:"timezone"`
	DateLocale  string          `json:"dateLocale"`
	BypassCache bool            `json:"bypassCache"`
}

// text returns the request text, or nil when it is missing, null or not a
// JSON string.
func (r ExtractRequest) text() *string {
	raw := bytes.TrimSpace(r.Text)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// ExtractResponse is the response body for POST /api/v1/extract.
type ExtractResponse = extraction.Result

// ReparseRequest is the request body for POST /api/v1/dates/reparse.
// Either Item or RawDate must be set.
type ReparseRequest struct {
	Item       *extraction.Item `json:"item,omitempty"`
	RawDate    string           `json:"rawDate,omitempty"`
	Timezone   string           `json:"timezone"`
	DateLocale string           `json:"dateLocale"`
}

// ReparseResponse is the response body for POST /api/v1/dates/reparse.
type ReparseResponse struct {
	Item      *extraction.Item `json:"item,omitempty"`
	DueDate   string           `json:"dueDate"`
	RawText   string           `json:"rawText"`
	Ambiguous bool             `json:"ambiguous"`
	Instant   string           `json:"instant,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string                  `json:"status"`
	Version   string                  `json:"version,omitempty"`
	Telemetry *telemetry.HealthStatus `json:"telemetry,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
