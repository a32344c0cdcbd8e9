package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/cupnotes/cupnotes-server/internal/config"
	"github.com/cupnotes/cupnotes-server/internal/logger"
	"github.com/cupnotes/cupnotes-server/internal/store/sqlite"
)

// StoreHandle wraps the journal store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
	lazy *sqlite.Lazy
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.lazy.Close()
}

// ProvideStore opens the journal database and applies pending migrations.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbPath := cfg.Storage.DatabasePath()
	lazy := sqlite.NewLazy(dbPath, log.Logger)
	db, err := lazy.Get(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath, "schema_version", sqlite.LatestVersion())

	return &StoreHandle{Store: db, lazy: lazy}, nil
}
