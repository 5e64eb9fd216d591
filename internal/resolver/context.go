package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openshelf/openshelf-server/internal/auth"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/store"
)

// AuthContext is the resolved identity attached to one in-flight operation.
// It is never persisted; its lifetime is a single operation's execution.
type AuthContext struct {
	// User is the acting principal, or nil for anonymous operations.
	User *UserPrincipal
}

// UserPrincipal is the minimal identity the engine needs for authorization.
type UserPrincipal struct {
	ID            string
	Username      string
	FavoriteGenre string
}

// IsAuthenticated reports whether a resolved user is present.
func (c *AuthContext) IsAuthenticated() bool {
	return c != nil && c.User != nil
}

// Anonymous returns an empty auth context.
func Anonymous() *AuthContext {
	return &AuthContext{}
}

// ContextResolver resolves inbound bearer credentials into an AuthContext.
// It is a pure read of token claims plus a user lookup; no side effects.
type ContextResolver struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewContextResolver creates a new ContextResolver.
func NewContextResolver(s *store.Store, tokens *auth.TokenService, logger *slog.Logger) *ContextResolver {
	return &ContextResolver{
		store:  s,
		tokens: tokens,
		logger: logger,
	}
}

// Resolve turns a raw Authorization value into an AuthContext.
//
// No credential resolves to the anonymous context. A present credential must
// be bearer-scheme and verify cleanly; any failure is an UNAUTHENTICATED
// error for the whole operation, never a silent downgrade to anonymous.
// A valid token whose principal no longer exists resolves to the anonymous
// context, so gated operations fail the same way as with no credential.
func (r *ContextResolver) Resolve(ctx context.Context, rawCredential string) (*AuthContext, error) {
	if rawCredential == "" {
		return Anonymous(), nil
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(rawCredential, prefix) {
		return nil, domainerrors.Unauthenticated("invalid authorization format, expected 'Bearer <token>'")
	}
	tokenString := strings.TrimPrefix(rawCredential, prefix)

	claims, err := r.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		r.logger.Debug("token verification failed", slog.String("error", err.Error()))
		return nil, domainerrors.Unauthenticated("invalid or expired token")
	}

	user, err := r.store.Users.Get(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			// Principal vanished after the token was minted.
			r.logger.Debug("token principal no longer exists", slog.String("user_id", claims.UserID))
			return Anonymous(), nil
		}
		return nil, err
	}

	return &AuthContext{
		User: &UserPrincipal{
			ID:            user.ID,
			Username:      user.Username,
			FavoriteGenre: user.FavoriteGenre,
		},
	}, nil
}
