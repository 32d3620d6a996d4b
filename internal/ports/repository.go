package ports

import (
	"context"
	"time"

	"shopsight-gateway/internal/domain"
)

// StoreRepository defines the interface for store credential persistence
type StoreRepository interface {
	// Save creates or updates a store, keyed by its normalized domain.
	Save(ctx context.Context, store *domain.Store) error

	// GetByDomain retrieves a store by domain, nil when absent.
	GetByDomain(ctx context.Context, shopDomain string) (*domain.Store, error)

	// List retrieves all stores.
	List(ctx context.Context) ([]*domain.Store, error)

	// Delete removes a store row entirely. Disconnecting keeps the row;
	// this is for full removal.
	Delete(ctx context.Context, shopDomain string) error
}

// RequestLogRepository defines the interface for question audit persistence
type RequestLogRepository interface {
	// Insert creates a new log entry.
	Insert(ctx context.Context, entry *domain.RequestLog) error

	// AttachAnswer sets the answer fields and response timestamp on the
	// entry with the given correlation id. Returns an error when no
	// unanswered entry matches.
	AttachAnswer(ctx context.Context, id string, result *domain.AnswerResult, at time.Time) error

	// ListRecent retrieves up to limit entries for a store, newest first.
	ListRecent(ctx context.Context, storeDomain string, limit int64) ([]*domain.RequestLog, error)

	// DeleteByStore removes all entries owned by a store.
	DeleteByStore(ctx context.Context, storeDomain string) error
}
