package application

import (
	"context"
	"fmt"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// AuthService resolves the acting store and gates every data-access and
// question-answering entry point. It has no side effects beyond the lookup.
type AuthService struct {
	stores ports.StoreRepository
	logger zerolog.Logger
}

// NewAuthService creates a new store authentication service
func NewAuthService(stores ports.StoreRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{
		stores: stores,
		logger: logger,
	}
}

// ResolveStore loads the store for an identifier and requires it to be
// connected. The resolved store carries domain, token and scope for the
// remainder of the request.
func (s *AuthService) ResolveStore(ctx context.Context, storeID string) (*domain.Store, error) {
	if storeID == "" {
		return nil, domain.NewAuthError("Store identifier is required")
	}

	shopDomain := domain.NormalizeDomain(storeID)
	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shopDomain).Msg("Failed to load store")
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	if store == nil || !store.Connected() {
		return nil, domain.NewAuthError(fmt.Sprintf("Store '%s' is not connected", shopDomain))
	}

	return store, nil
}
