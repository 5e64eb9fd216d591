// Package di provides dependency injection configuration for the OpenShelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/config"
	"github.com/openshelf/openshelf-server/internal/di/providers"
	"github.com/openshelf/openshelf-server/internal/logger"
	"github.com/openshelf/openshelf-server/internal/resolver"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage and events
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideBroker)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideContextResolver)

	// Resolver engine
	do.Provide(injector, providers.ProvideEngine)

	// Server
	do.Provide(injector, providers.ProvideServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap triggers lazy initialization of every service, surfacing wiring
// errors at startup instead of on first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.BrokerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*resolver.ContextResolver](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*resolver.Engine](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.ServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
