package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/openshelf/openshelf-server/internal/broker"
	"github.com/openshelf/openshelf-server/internal/config"
	"github.com/openshelf/openshelf-server/internal/logger"
	"github.com/openshelf/openshelf-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// BrokerHandle wraps the event broker with shutdown capability.
type BrokerHandle struct {
	*broker.Broker
}

// Shutdown implements do.Shutdownable.
func (h *BrokerHandle) Shutdown() error {
	h.Broker.Shutdown()
	return nil
}

// ProvideBroker provides the in-process event broker.
func ProvideBroker(i do.Injector) (*BrokerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return &BrokerHandle{Broker: broker.New(log.Logger)}, nil
}
