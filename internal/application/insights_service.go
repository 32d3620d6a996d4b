package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/infrastructure/metrics"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// fallbackSuggestions is returned whenever the AI backend cannot be reached
// or fails without supplying its own suggestions.
var fallbackSuggestions = []string{
	"Try rephrasing your question",
	"Ensure you're asking about orders, products, inventory, or customers",
	"Check if your store has the required data",
}

// InsightsService forwards questions to the AI backend, classifies every
// failure mode into the single AnswerResult shape, and audits the exchange.
type InsightsService struct {
	client  ports.InsightsClient
	audit   *AuditService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewInsightsService creates a new question-forwarding service
func NewInsightsService(
	client ports.InsightsClient,
	audit *AuditService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *InsightsService {
	return &InsightsService{
		client:  client,
		audit:   audit,
		metrics: m,
		logger:  logger,
	}
}

// Ask forwards a question for a resolved store. An empty question fails
// validation before any network call or audit write. Every other failure
// is converted into a failed AnswerResult; no error crosses this boundary
// once the input is valid.
func (s *InsightsService) Ask(ctx context.Context, store *domain.Store, question, questionContext, ip, userAgent string) (*domain.AnswerResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewValidationError("Question is required")
	}

	logID := s.audit.RecordRequest(store, question, questionContext, ip, userAgent)

	start := time.Now()
	resp, err := s.client.Analyze(ctx, &domain.AnalyzeRequest{
		StoreID:     store.Domain,
		AccessToken: store.AccessToken,
		Question:    question,
		Context:     questionContext,
	})
	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)

	if err != nil {
		s.metrics.UpstreamFailures.WithLabelValues("ai_backend").Inc()
		result := s.classifyFailure(store, err, elapsedMs)
		s.audit.RecordResponse(logID, result)
		return result, nil
	}

	confidence := resp.Confidence
	if confidence == "" {
		confidence = domain.ConfidenceMedium
	}

	result := &domain.AnswerResult{
		OK:               true,
		Answer:           resp.Answer,
		Confidence:       confidence,
		QueryUsed:        resp.QueryUsed,
		DataSource:       resp.DataSource,
		RawData:          resp.RawData,
		ProcessingTimeMs: elapsedMs,
	}

	s.metrics.QuestionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	s.audit.RecordResponse(logID, result)

	return result, nil
}

// classifyFailure turns an upstream or transport fault into a failed
// result. Upstream-reported errors are surfaced as-is; transport faults get
// a generic message with the canned suggestions, and the cause stays in the
// server log.
func (s *InsightsService) classifyFailure(store *domain.Store, err error, elapsedMs float64) *domain.AnswerResult {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		s.metrics.QuestionDuration.WithLabelValues("upstream_error").Observe(elapsedMs / 1000)
		suggestions := upstream.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		return &domain.AnswerResult{
			Error:            "Failed to process question",
			Message:          upstream.Message,
			Suggestions:      suggestions,
			ProcessingTimeMs: elapsedMs,
		}
	}

	s.logger.Error().
		Err(err).
		Str("shop", store.Domain).
		Msg("AI backend call failed")
	s.metrics.QuestionDuration.WithLabelValues("transport_error").Observe(elapsedMs / 1000)

	message := "An unexpected error occurred while processing your question"
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		message = "Unable to reach the analytics service. Please try again shortly"
	}

	return &domain.AnswerResult{
		Error:            "Failed to process question",
		Message:          message,
		Suggestions:      fallbackSuggestions,
		ProcessingTimeMs: elapsedMs,
	}
}

// QuestionCatalog groups example questions by category.
type QuestionCatalog map[string][]string

// SupportedQuestions returns examples of the question types the AI backend
// handles well.
func (s *InsightsService) SupportedQuestions() QuestionCatalog {
	return QuestionCatalog{
		"inventory": {
			"How many units of Product X will I need next month?",
			"Which products are likely to go out of stock in 7 days?",
			"How much inventory should I reorder based on last 30 days sales?",
		},
		"sales": {
			"What were my top 5 selling products last week?",
			"What is my total revenue for this month?",
			"What is the average order value?",
		},
		"customers": {
			"Which customers placed repeat orders in the last 90 days?",
			"Who are my top 10 customers by total spend?",
			"How many new customers did I get this month?",
		},
		"trends": {
			"What is my sales trend for the last 3 months?",
			"Are my sales increasing or decreasing?",
		},
	}
}
