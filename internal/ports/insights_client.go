package ports

import (
	"context"

	"shopsight-gateway/internal/domain"
)

// InsightsClient defines the interface for the external AI backend
type InsightsClient interface {
	// Analyze forwards a question. Upstream HTTP failures return a
	// *domain.UpstreamError; anything else is a transport fault.
	Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResponse, error)

	// Healthy checks the backend's liveness with a short deadline.
	Healthy(ctx context.Context) bool
}
