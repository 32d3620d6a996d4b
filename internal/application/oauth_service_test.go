package application

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"shopsight-gateway/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScopes = []string{"read_orders", "read_products"}

func newOAuthFixture(t *testing.T) (*OAuthService, *memStoreRepo, *memStateStore, *fakeOAuthClient) {
	t.Helper()
	stores := newMemStoreRepo()
	states := newMemStateStore()
	client := &fakeOAuthClient{
		grant: &domain.TokenGrant{AccessToken: "shpat_token", Scope: "read_orders,read_products"},
	}
	svc := NewOAuthService(stores, states, client, testScopes, "http://localhost:8080/auth/callback", zerolog.Nop())
	return svc, stores, states, client
}

// stateFromURL pulls the state parameter out of the authorization URL.
func stateFromURL(t *testing.T, authURL string) string {
	t.Helper()
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthService_InitiateAuth_RequiresShop(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t)

	// Whitespace and scheme-only values normalize to nothing and must be
	// rejected the same way as a missing parameter.
	for _, shop := range []string{"", "   ", "\t", "https://"} {
		_, err := svc.InitiateAuth(context.Background(), shop)

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestOAuthService_InitiateAuth_BindsStateToNormalizedDomain(t *testing.T) {
	svc, _, states, _ := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "My-Store")
	require.NoError(t, err)

	state := stateFromURL(t, authURL)
	assert.GreaterOrEqual(t, len(state), 32)

	cached, err := states.Take(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "my-store.myshopify.com", cached)
}

func TestOAuthService_InitiateAuth_StatesAreUnique(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t)

	first, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	second, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)

	assert.NotEqual(t, stateFromURL(t, first), stateFromURL(t, second))
}

func TestOAuthService_HandleCallback_MissingParameters(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t)

	for _, args := range [][3]string{
		{"", "code", "state"},
		{"my-store", "", "state"},
		{"my-store", "code", ""},
	} {
		_, err := svc.HandleCallback(context.Background(), args[0], args[1], args[2])

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestOAuthService_HandleCallback_ConnectsStore(t *testing.T) {
	svc, stores, _, client := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	state := stateFromURL(t, authURL)

	result, err := svc.HandleCallback(context.Background(), "my-store", "auth-code", state)
	require.NoError(t, err)

	assert.Equal(t, "Successfully connected store", result.Message)
	assert.Equal(t, "my-store.myshopify.com", result.StoreID)
	assert.Equal(t, "read_orders,read_products", result.Scope)
	assert.Equal(t, "auth-code", client.lastCode)

	store, err := stores.GetByDomain(context.Background(), "my-store.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.True(t, store.Connected())
	assert.Equal(t, "shpat_token", store.AccessToken)
	assert.False(t, store.ConnectedAt.IsZero())
}

func TestOAuthService_HandleCallback_StateIsSingleUse(t *testing.T) {
	svc, _, _, client := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	state := stateFromURL(t, authURL)

	_, err = svc.HandleCallback(context.Background(), "my-store", "auth-code", state)
	require.NoError(t, err)

	// Replaying the same callback must fail the CSRF check without a
	// second token exchange.
	_, err = svc.HandleCallback(context.Background(), "my-store", "auth-code", state)

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, client.exchanges)
}

func TestOAuthService_HandleCallback_RejectsUnknownState(t *testing.T) {
	svc, _, _, client := newOAuthFixture(t)

	_, err := svc.HandleCallback(context.Background(), "my-store", "auth-code", "never-issued")

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid state parameter", authErr.Message)
	assert.Zero(t, client.exchanges)
}

func TestOAuthService_HandleCallback_RejectsExpiredState(t *testing.T) {
	svc, _, states, _ := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	state := stateFromURL(t, authURL)
	states.expire(state)

	_, err = svc.HandleCallback(context.Background(), "my-store", "auth-code", state)

	// Expired and unknown states produce the same rejection.
	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid state parameter", authErr.Message)
}

func TestOAuthService_HandleCallback_RejectsShopMismatch(t *testing.T) {
	svc, stores, _, _ := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	state := stateFromURL(t, authURL)

	_, err = svc.HandleCallback(context.Background(), "other-store", "auth-code", state)

	var authErr *domain.AuthError
	assert.ErrorAs(t, err, &authErr)

	store, err := stores.GetByDomain(context.Background(), "other-store.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestOAuthService_HandleCallback_DeniedExchangeKeepsStoreUntouched(t *testing.T) {
	svc, stores, _, client := newOAuthFixture(t)
	client.err = &domain.TokenDeniedError{Status: 400, Description: "authorization code was revoked"}

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	state := stateFromURL(t, authURL)

	_, err = svc.HandleCallback(context.Background(), "my-store", "auth-code", state)

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Authentication failed", authErr.Message)
	assert.Equal(t, "authorization code was revoked", authErr.Detail)

	store, err := stores.GetByDomain(context.Background(), "my-store.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestOAuthService_HandleCallback_TransportFailureIsGenericAuthError(t *testing.T) {
	svc, _, _, client := newOAuthFixture(t)
	client.err = errors.New("connection refused")

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), "my-store", "auth-code", stateFromURL(t, authURL))

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Authentication failed", authErr.Message)
	assert.NotContains(t, authErr.Detail, "connection refused")
}

func TestOAuthService_Disconnect_UnknownStore(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t)

	_, err := svc.Disconnect(context.Background(), "ghost-store")

	var notFoundErr *domain.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestOAuthService_Disconnect_RequiresShop(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t)

	_, err := svc.Disconnect(context.Background(), "   ")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOAuthService_Disconnect_ClearsCredentials(t *testing.T) {
	svc, stores, _, _ := newOAuthFixture(t)
	require.NoError(t, stores.Save(context.Background(), &domain.Store{
		Domain:      "my-store.myshopify.com",
		AccessToken: "shpat_token",
		Scope:       "read_orders",
		ConnectedAt: time.Now(),
	}))

	message, err := svc.Disconnect(context.Background(), "my-store")
	require.NoError(t, err)
	assert.Equal(t, "Store 'my-store.myshopify.com' disconnected", message)

	store, err := stores.GetByDomain(context.Background(), "my-store.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.False(t, store.Connected())
	assert.Empty(t, store.Scope)
}

func TestOAuthService_ReconnectAfterDisconnect(t *testing.T) {
	svc, stores, _, _ := newOAuthFixture(t)

	authURL, err := svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	_, err = svc.HandleCallback(context.Background(), "my-store", "code-1", stateFromURL(t, authURL))
	require.NoError(t, err)

	_, err = svc.Disconnect(context.Background(), "my-store")
	require.NoError(t, err)

	authURL, err = svc.InitiateAuth(context.Background(), "my-store")
	require.NoError(t, err)
	_, err = svc.HandleCallback(context.Background(), "my-store", "code-2", stateFromURL(t, authURL))
	require.NoError(t, err)

	store, err := stores.GetByDomain(context.Background(), "my-store.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.True(t, store.Connected())
}
