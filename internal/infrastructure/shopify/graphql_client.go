package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// GraphQLClient executes query documents against the platform's admin
// GraphQL endpoint. It is a transport layer only: data comes back
// unmodified, and upstream-reported errors come back as a structured result
// rather than a Go error.
type GraphQLClient struct {
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGraphQLClient creates a new GraphQL transport client
func NewGraphQLClient(apiVersion string, logger zerolog.Logger) *GraphQLClient {
	return &GraphQLClient{
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

var _ ports.CommerceClient = (*GraphQLClient)(nil)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage     `json:"data"`
	Errors []domain.QueryError `json:"errors"`
}

// Execute posts a query document with the store's token
func (c *GraphQLClient) Execute(ctx context.Context, shop, accessToken, document string, variables map[string]interface{}) (*domain.QueryResult, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)

	body, err := json.Marshal(graphqlRequest{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rawBody, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Str("shop", shop).
			Int("status", resp.StatusCode).
			Str("body", string(rawBody)).
			Msg("GraphQL request failed")

		return &domain.QueryResult{
			Errors: []domain.QueryError{{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}},
		}, nil
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}

	return &domain.QueryResult{
		Data:   gqlResp.Data,
		Errors: gqlResp.Errors,
	}, nil
}
