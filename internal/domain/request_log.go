package domain

import (
	"encoding/json"
	"time"
)

// Confidence labels returned by the AI backend.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// RequestLog is one audit row per question asked. The answer fields are set
// together exactly once, strictly after creation; an entry with a non-nil
// RespondedAt is a successful one.
type RequestLog struct {
	ID               string     `json:"id"`
	StoreDomain      string     `json:"store_id"`
	Question         string     `json:"question"`
	Context          string     `json:"context,omitempty"`
	Answer           string     `json:"answer,omitempty"`
	Confidence       string     `json:"confidence,omitempty"`
	ProcessingTimeMs float64    `json:"processing_time_ms,omitempty"`
	RequestIP        string     `json:"request_ip,omitempty"`
	UserAgent        string     `json:"user_agent,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	RespondedAt      *time.Time `json:"responded_at,omitempty"`
}

// Answered reports whether an answer has been attached.
func (l *RequestLog) Answered() bool {
	return l.RespondedAt != nil
}

// AnswerResult is the single result shape every question attempt resolves
// to, success or failure. The forwarder never lets an error escape past its
// boundary; callers branch on OK.
type AnswerResult struct {
	OK               bool
	Answer           string
	Confidence       string
	QueryUsed        string
	DataSource       string
	RawData          json.RawMessage
	ProcessingTimeMs float64

	Error       string
	Message     string
	Suggestions []string
}

// AnalyzeRequest is the payload forwarded to the AI backend. The access
// token is included so the backend can query the commerce platform itself.
type AnalyzeRequest struct {
	StoreID     string `json:"store_id"`
	AccessToken string `json:"access_token"`
	Question    string `json:"question"`
	Context     string `json:"context,omitempty"`
}

// AnalyzeResponse is the AI backend's successful response body.
type AnalyzeResponse struct {
	Answer     string          `json:"answer"`
	Confidence string          `json:"confidence"`
	QueryUsed  string          `json:"query_used"`
	DataSource string          `json:"data_source"`
	RawData    json.RawMessage `json:"raw_data,omitempty"`
}

// TokenGrant is the result of a successful authorization-code exchange.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// QueryError is one error reported by the commerce platform.
type QueryError struct {
	Message string `json:"message"`
}

// QueryResult is the raw outcome of a commerce GraphQL call. Data is passed
// through unmodified; Errors carries whatever the upstream reported so
// callers can still render a response.
type QueryResult struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []QueryError    `json:"errors,omitempty"`
}
