package application

import (
	"context"
	"fmt"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// StoreService exposes store summaries and full store removal.
type StoreService struct {
	stores ports.StoreRepository
	logs   ports.RequestLogRepository
	logger zerolog.Logger
}

// NewStoreService creates a new store registry service
func NewStoreService(stores ports.StoreRepository, logs ports.RequestLogRepository, logger zerolog.Logger) *StoreService {
	return &StoreService{
		stores: stores,
		logs:   logs,
		logger: logger,
	}
}

// StoreSummary is the public view of a store; the token never leaves the
// service layer.
type StoreSummary struct {
	StoreID     string `json:"store_id"`
	ShopName    string `json:"shop_name,omitempty"`
	Connected   bool   `json:"connected"`
	ConnectedAt string `json:"connected_at,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

func summarize(store *domain.Store) *StoreSummary {
	summary := &StoreSummary{
		StoreID:   store.Domain,
		ShopName:  store.ShopName,
		Connected: store.Connected(),
		Scope:     store.Scope,
	}
	if !store.ConnectedAt.IsZero() {
		summary.ConnectedAt = store.ConnectedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return summary
}

// List retrieves summaries for all stores
func (s *StoreService) List(ctx context.Context) ([]*StoreSummary, error) {
	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	summaries := make([]*StoreSummary, 0, len(stores))
	for _, store := range stores {
		summaries = append(summaries, summarize(store))
	}
	return summaries, nil
}

// Get retrieves one store's summary
func (s *StoreService) Get(ctx context.Context, storeID string) (*StoreSummary, error) {
	shopDomain := domain.NormalizeDomain(storeID)
	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	if store == nil {
		return nil, domain.NewNotFoundError("Store not found")
	}
	return summarize(store), nil
}

// Remove deletes a store row and its question history. Unlike disconnect,
// nothing is retained.
func (s *StoreService) Remove(ctx context.Context, storeID string) (string, error) {
	shopDomain := domain.NormalizeDomain(storeID)
	store, err := s.stores.GetByDomain(ctx, shopDomain)
	if err != nil {
		return "", fmt.Errorf("failed to get store: %w", err)
	}
	if store == nil {
		return "", domain.NewNotFoundError("Store not found")
	}

	if err := s.logs.DeleteByStore(ctx, shopDomain); err != nil {
		return "", fmt.Errorf("failed to delete request logs: %w", err)
	}
	if err := s.stores.Delete(ctx, shopDomain); err != nil {
		return "", fmt.Errorf("failed to delete store: %w", err)
	}

	s.logger.Info().Str("shop", shopDomain).Msg("Store removed")

	return fmt.Sprintf("Store '%s' removed", shopDomain), nil
}
