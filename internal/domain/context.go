package domain

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const storeContextKey contextKey = "store"

// WithStore returns a context carrying the resolved store.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// StoreFromContext extracts the resolved store from the context, or nil.
func StoreFromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeContextKey).(*Store)
	return store
}
