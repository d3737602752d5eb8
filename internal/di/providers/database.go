package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/config"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the document store selected by STORE_DRIVER.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.StorePath()

	var (
		db  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		db, err = sqlite.Open(path, log.Component("store"))
	case config.StoreBadger:
		db, err = store.New(path, log.Component("store"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", cfg.Store.Driver, "path", path)

	return &StoreHandle{Store: db}, nil
}
