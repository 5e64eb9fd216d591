package resolver_test

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/domain"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/resolver"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContextResolver(t *testing.T) (*resolver.ContextResolver, *store.Store, *auth.TokenService) {
	t.Helper()

	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return resolver.NewContextResolver(s, tokens, logger), s, tokens
}

func TestContextResolver_NoCredential(t *testing.T) {
	r, _, _ := newContextResolver(t)

	authCtx, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, authCtx.IsAuthenticated())
}

func TestContextResolver_WrongScheme(t *testing.T) {
	r, _, _ := newContextResolver(t)

	_, err := r.Resolve(context.Background(), "Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestContextResolver_InvalidToken(t *testing.T) {
	r, _, _ := newContextResolver(t)

	// A malformed token must fail the operation, not degrade to anonymous.
	_, err := r.Resolve(context.Background(), "Bearer not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestContextResolver_ValidToken(t *testing.T) {
	r, s, tokens := newContextResolver(t)
	ctx := context.Background()

	user := &domain.User{Username: "mluukkai", FavoriteGenre: "refactoring"}
	user.ID = "user-1"
	user.InitTimestamps()
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	token, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)

	authCtx, err := r.Resolve(ctx, "Bearer "+token)
	require.NoError(t, err)
	require.True(t, authCtx.IsAuthenticated())
	assert.Equal(t, "user-1", authCtx.User.ID)
	assert.Equal(t, "mluukkai", authCtx.User.Username)
	assert.Equal(t, "refactoring", authCtx.User.FavoriteGenre)
}

func TestContextResolver_VanishedPrincipal(t *testing.T) {
	r, _, tokens := newContextResolver(t)

	// Token for a user that was never persisted: resolves anonymous, so
	// gated operations fail exactly like an unauthenticated request.
	ghost := &domain.User{Username: "ghost"}
	ghost.ID = "user-ghost"
	token, err := tokens.GenerateAccessToken(ghost)
	require.NoError(t, err)

	authCtx, err := r.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.False(t, authCtx.IsAuthenticated())
}
