package ports

import (
	"context"

	"shopsight-gateway/internal/domain"
)

// OAuthClient defines the interface for the platform's OAuth endpoints
type OAuthClient interface {
	// AuthorizationURL builds the platform authorization URL carrying
	// client id, requested scopes, callback URI and the state token.
	AuthorizationURL(shop string, scopes []string, redirectURI, state string) string

	// ExchangeToken exchanges an authorization code for an access token
	// via the platform's token endpoint. A denied exchange returns a
	// *domain.TokenDeniedError carrying the upstream description.
	ExchangeToken(ctx context.Context, shop, code, redirectURI string) (*domain.TokenGrant, error)
}

// CommerceClient defines the interface for the platform's GraphQL endpoint
type CommerceClient interface {
	// Execute posts a query document with the store's token. Non-success
	// upstream responses come back as a structured QueryResult, not an
	// error; errors are reserved for transport-level faults.
	Execute(ctx context.Context, shop, accessToken, document string, variables map[string]interface{}) (*domain.QueryResult, error)
}
