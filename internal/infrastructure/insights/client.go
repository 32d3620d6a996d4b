package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 60 * time.Second
	healthTimeout  = 5 * time.Second
)

// Client talks to the external AI backend that translates natural-language
// questions into commerce queries and explanations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new AI backend client
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

var _ ports.InsightsClient = (*Client)(nil)

// upstreamFailure mirrors the backend's error body. FastAPI-style services
// nest it under "detail"; both layouts are accepted.
type upstreamFailure struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions"`
	Detail      *struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions"`
	} `json:"detail"`
}

func (f *upstreamFailure) message() string {
	if f.Detail != nil && f.Detail.Error != "" {
		return f.Detail.Error
	}
	return f.Error
}

func (f *upstreamFailure) suggestions() []string {
	if f.Detail != nil && len(f.Detail.Suggestions) > 0 {
		return f.Detail.Suggestions
	}
	return f.Suggestions
}

// Analyze forwards a question to the AI backend
func (c *Client) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure upstreamFailure
		_ = json.NewDecoder(resp.Body).Decode(&failure)

		message := failure.message()
		if message == "" {
			message = fmt.Sprintf("AI backend returned HTTP %d", resp.StatusCode)
		}
		suggestions := failure.suggestions()
		if suggestions == nil {
			suggestions = []string{}
		}

		return nil, &domain.UpstreamError{
			Status:      resp.StatusCode,
			Message:     message,
			Suggestions: suggestions,
		}
	}

	var analyzeResp domain.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	return &analyzeResp, nil
}

// Healthy checks the backend's liveness with a short deadline
func (c *Client) Healthy(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pingCtx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("AI backend health check failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
