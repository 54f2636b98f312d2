package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}

	token, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token, "missing token file is not an error")

	saved := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, store.Save("test", saved))

	loaded, err := store.Load("test")
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	// Environments are isolated
	other, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"))

	loaded, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAuthenticator_UsesStoredToken(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save("test", &oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}))

	auth := NewAuthenticator(&oauth2.Config{}, store, "test", zap.NewNop())
	auth.checkScopes = func(ctx context.Context, token *oauth2.Token) error { return nil }

	token, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", token.AccessToken)
}

func TestAuthenticator_DeletesTokenWithMissingScopes(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save("test", &oauth2.Token{AccessToken: "stale", Expiry: time.Now().Add(time.Hour)}))

	auth := NewAuthenticator(&oauth2.Config{}, store, "test", zap.NewNop())
	auth.checkScopes = func(ctx context.Context, token *oauth2.Token) error { return errors.New("missing gmail.send") }

	assert.Nil(t, auth.storedToken(context.Background()))

	remaining, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, remaining)
}

func TestMissingScopes(t *testing.T) {
	assert.NoError(t, missingScopes([]string{ScopeGmailSend, ScopeSheets, "openid"}))

	err := missingScopes([]string{ScopeSheets})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ScopeGmailSend)
}
