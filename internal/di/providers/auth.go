package providers

import (
	"github.com/samber/do/v2"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/config"
	"github.com/openshelf/openshelf-server/internal/logger"
	"github.com/openshelf/openshelf-server/internal/resolver"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideContextResolver provides the per-request auth context resolver.
func ProvideContextResolver(i do.Injector) (*resolver.ContextResolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return resolver.NewContextResolver(storeHandle.Store, tokens, log.Logger), nil
}
