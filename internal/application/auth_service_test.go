package application

import (
	"context"
	"testing"

	"shopsight-gateway/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_ResolveStore_RequiresIdentifier(t *testing.T) {
	svc := NewAuthService(newMemStoreRepo(), zerolog.Nop())

	_, err := svc.ResolveStore(context.Background(), "")

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Store identifier is required", authErr.Message)
}

func TestAuthService_ResolveStore_UnknownStore(t *testing.T) {
	svc := NewAuthService(newMemStoreRepo(), zerolog.Nop())

	_, err := svc.ResolveStore(context.Background(), "ghost-store")

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "ghost-store.myshopify.com")
}

func TestAuthService_ResolveStore_DisconnectedStore(t *testing.T) {
	stores := newMemStoreRepo()
	require.NoError(t, stores.Save(context.Background(), &domain.Store{
		Domain: "my-store.myshopify.com",
	}))
	svc := NewAuthService(stores, zerolog.Nop())

	_, err := svc.ResolveStore(context.Background(), "my-store")

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestAuthService_ResolveStore_NormalizesIdentifier(t *testing.T) {
	stores := newMemStoreRepo()
	require.NoError(t, stores.Save(context.Background(), &domain.Store{
		Domain:      "my-store.myshopify.com",
		AccessToken: "shpat_token",
	}))
	svc := NewAuthService(stores, zerolog.Nop())

	for _, id := range []string{"my-store", "My-Store.myshopify.com", "https://my-store.myshopify.com/"} {
		store, err := svc.ResolveStore(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "my-store.myshopify.com", store.Domain)
		assert.Equal(t, "shpat_token", store.AccessToken)
	}
}
