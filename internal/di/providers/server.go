package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/openshelf/openshelf-server/internal/api"
	"github.com/openshelf/openshelf-server/internal/auth"
	"github.com/openshelf/openshelf-server/internal/config"
	"github.com/openshelf/openshelf-server/internal/logger"
	"github.com/openshelf/openshelf-server/internal/resolver"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// ProvideEngine provides the resolver engine.
func ProvideEngine(i do.Injector) (*resolver.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	brokerHandle := do.MustInvoke[*BrokerHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return resolver.NewEngine(storeHandle.Store, brokerHandle.Broker, tokens, cfg.Auth.LoginSecret, log.Logger), nil
}

// ServerHandle wraps the API server with shutdown capability.
type ServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *ServerHandle) Shutdown() error {
	h.Server.Shutdown()
	return nil
}

// ProvideServer provides the API server.
func ProvideServer(i do.Injector) (*ServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	brokerHandle := do.MustInvoke[*BrokerHandle](i)
	engine := do.MustInvoke[*resolver.Engine](i)
	contextResolver := do.MustInvoke[*resolver.ContextResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	s := api.NewServer(cfg, storeHandle.Store, engine, contextResolver, brokerHandle.Broker, log.Logger)
	return &ServerHandle{Server: s}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	serverHandle := do.MustInvoke[*ServerHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	srv := serverHandle.HTTPServer()

	go func() {
		log.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
