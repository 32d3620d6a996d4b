package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

const (
	stateEntropyBytes = 24
	stateTTL          = 10 * time.Minute
)

// OAuthService orchestrates the authorization-code handshake: state
// issuance and verification, token exchange, and credential persistence.
type OAuthService struct {
	stores      ports.StoreRepository
	states      ports.StateStore
	oauthClient ports.OAuthClient
	scopes      []string
	redirectURI string
	logger      zerolog.Logger
}

// NewOAuthService creates a new OAuth flow service
func NewOAuthService(
	stores ports.StoreRepository,
	states ports.StateStore,
	oauthClient ports.OAuthClient,
	scopes []string,
	redirectURI string,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		stores:      stores,
		states:      states,
		oauthClient: oauthClient,
		scopes:      scopes,
		redirectURI: redirectURI,
		logger:      logger,
	}
}

// ConnectResult is the confirmation payload of a successful callback.
type ConnectResult struct {
	Message string `json:"message"`
	StoreID string `json:"store_id"`
	Scope   string `json:"scope"`
}

// InitiateAuth normalizes the shop domain, issues a single-use state token
// bound to it, and returns the platform authorization URL to redirect to.
func (s *OAuthService) InitiateAuth(ctx context.Context, shop string) (string, error) {
	shopDomain := domain.NormalizeDomain(shop)
	if shopDomain == "" {
		return "", domain.NewValidationError("Shop parameter is required")
	}

	stateBytes := make([]byte, stateEntropyBytes)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	if err := s.states.Put(ctx, state, shopDomain, stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	authURL := s.oauthClient.AuthorizationURL(shopDomain, s.scopes, s.redirectURI, state)

	s.logger.Info().
		Str("shop", shopDomain).
		Strs("scopes", s.scopes).
		Msg("Initiated OAuth flow")

	return authURL, nil
}

// HandleCallback verifies the state token, exchanges the code for an access
// token, and upserts the store. The state entry is consumed atomically
// before anything else happens, so replaying a callback fails the CSRF
// check. No store mutation occurs unless the exchange succeeds.
func (s *OAuthService) HandleCallback(ctx context.Context, shop, code, state string) (*ConnectResult, error) {
	if shop == "" || code == "" || state == "" {
		return nil, domain.NewValidationError("Missing required parameters")
	}

	shopDomain := domain.NormalizeDomain(shop)

	cachedDomain, err := s.states.Take(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to verify state: %w", err)
	}
	if cachedDomain == "" || cachedDomain != shopDomain {
		return nil, domain.NewAuthError("Invalid state parameter")
	}

	grant, err := s.oauthClient.ExchangeToken(ctx, shopDomain, code, s.redirectURI)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shopDomain).Msg("Token exchange failed")

		var denied *domain.TokenDeniedError
		if errors.As(err, &denied) && denied.Description != "" {
			return nil, &domain.AuthError{
				Message: "Authentication failed",
				Detail:  denied.Description,
			}
		}
		return nil, &domain.AuthError{
			Message: "Authentication failed",
			Detail:  "Could not complete the token exchange with the commerce platform",
		}
	}

	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	if store == nil {
		store = &domain.Store{Domain: shopDomain}
	}
	store.AccessToken = grant.AccessToken
	store.Scope = grant.Scope
	store.ConnectedAt = time.Now()

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to save store: %w", err)
	}

	s.logger.Info().
		Str("shop", shopDomain).
		Str("scope", grant.Scope).
		Msg("Store connected")

	return &ConnectResult{
		Message: "Successfully connected store",
		StoreID: shopDomain,
		Scope:   grant.Scope,
	}, nil
}

// Disconnect clears the store's token and scope. The row is retained for
// history; reconnecting later reactivates it.
func (s *OAuthService) Disconnect(ctx context.Context, shop string) (string, error) {
	shopDomain := domain.NormalizeDomain(shop)
	if shopDomain == "" {
		return "", domain.NewValidationError("Shop parameter is required")
	}

	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if err != nil {
		return "", fmt.Errorf("failed to load store: %w", err)
	}
	if store == nil {
		return "", domain.NewNotFoundError("Store not found")
	}

	store.AccessToken = ""
	store.Scope = ""

	if err := s.stores.Save(ctx, store); err != nil {
		return "", fmt.Errorf("failed to save store: %w", err)
	}

	s.logger.Info().Str("shop", shopDomain).Msg("Store disconnected")

	return fmt.Sprintf("Store '%s' disconnected", shopDomain), nil
}
