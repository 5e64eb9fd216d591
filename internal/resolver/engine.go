// Package resolver executes the catalog's named operations, applying
// authorization and business invariants per operation.
package resolver

import (
	"log/slog"

	"github.com/openshelf/openshelf-server/internal/broker"
	"github.com/openshelf/openshelf-server/internal/domain"
	"github.com/openshelf/openshelf-server/internal/dto"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
	"github.com/openshelf/openshelf-server/internal/store"
	"github.com/openshelf/openshelf-server/internal/validation"
)

// TokenMinter signs access tokens for successful logins.
type TokenMinter interface {
	GenerateAccessToken(user *domain.User) (string, error)
}

// Engine executes queries and mutations against the store. The broker is
// injected so independent engines (tests, multiple servers) never share
// subscriber state.
type Engine struct {
	store       *store.Store
	broker      *broker.Broker
	enricher    *dto.Enricher
	validator   *validation.Validator
	tokens      TokenMinter
	logger      *slog.Logger
	loginSecret string
}

// NewEngine creates a resolver engine.
func NewEngine(
	s *store.Store,
	b *broker.Broker,
	tokens TokenMinter,
	loginSecret string,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:       s,
		broker:      b,
		enricher:    dto.NewEnricher(s.Authors),
		validator:   validation.New(),
		tokens:      tokens,
		logger:      logger,
		loginSecret: loginSecret,
	}
}

// requireUser enforces the authenticated tier. It runs before any store
// access so gated operations fail fast.
func (e *Engine) requireUser(authCtx *AuthContext) (*UserPrincipal, error) {
	if !authCtx.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	return authCtx.User, nil
}
