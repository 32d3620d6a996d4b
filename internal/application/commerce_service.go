package application

import (
	"context"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/infrastructure/shopify/querybuilder"
	"shopsight-gateway/internal/ports"

	"github.com/rs/zerolog"
)

// CommerceService is the typed query-building and transport layer for
// commerce data reads. It performs no semantic transformation: on success
// the upstream's data object is returned unmodified, and result ordering is
// whatever the upstream chose.
type CommerceService struct {
	client ports.CommerceClient
	logger zerolog.Logger
}

// NewCommerceService creates a new commerce query service
func NewCommerceService(client ports.CommerceClient, logger zerolog.Logger) *CommerceService {
	return &CommerceService{
		client: client,
		logger: logger,
	}
}

// OrderListOptions carries the optional filters for order listings.
type OrderListOptions struct {
	First         int
	Status        string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// ListOrders retrieves orders with optional status/date filters
func (s *CommerceService) ListOrders(ctx context.Context, store *domain.Store, opts OrderListOptions) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.ListOrders{
		First:         opts.First,
		Status:        opts.Status,
		CreatedAfter:  opts.CreatedAfter,
		CreatedBefore: opts.CreatedBefore,
	})
}

// GetOrder retrieves a single order
func (s *CommerceService) GetOrder(ctx context.Context, store *domain.Store, id string) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.GetOrder{ID: id})
}

// ListProducts retrieves products
func (s *CommerceService) ListProducts(ctx context.Context, store *domain.Store, first int, status string) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.ListProducts{First: first, Status: status})
}

// GetProduct retrieves a single product
func (s *CommerceService) GetProduct(ctx context.Context, store *domain.Store, id string) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.GetProduct{ID: id})
}

// ListCustomers retrieves customers
func (s *CommerceService) ListCustomers(ctx context.Context, store *domain.Store, first int) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.ListCustomers{First: first})
}

// GetCustomer retrieves a single customer
func (s *CommerceService) GetCustomer(ctx context.Context, store *domain.Store, id string) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.GetCustomer{ID: id})
}

// InventoryLevels retrieves inventory levels
func (s *CommerceService) InventoryLevels(ctx context.Context, store *domain.Store, first int) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.InventoryLevels{First: first})
}

// RunAnalyticsQuery executes a raw analytics query string
func (s *CommerceService) RunAnalyticsQuery(ctx context.Context, store *domain.Store, query string) (*domain.QueryResult, error) {
	return s.run(ctx, store, querybuilder.RawAnalytics{Query: query})
}

// run builds, validates and dispatches one query. Transport faults are
// folded into a structured error payload so data-read callers always get a
// well-formed response.
func (s *CommerceService) run(ctx context.Context, store *domain.Store, builder querybuilder.Builder) (*domain.QueryResult, error) {
	if store == nil || !store.Connected() {
		return nil, domain.NewUpstreamUnavailableError("store is not connected")
	}

	doc, err := builder.Build()
	if err != nil {
		return nil, err
	}

	result, err := s.client.Execute(ctx, store.Domain, store.AccessToken, doc.Query, doc.Variables)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", store.Domain).Msg("Commerce platform call failed")
		return &domain.QueryResult{
			Errors: []domain.QueryError{{Message: "commerce platform unreachable"}},
		}, nil
	}

	return result, nil
}
