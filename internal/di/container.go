// Package di provides dependency injection configuration for the journal server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cupnotes/cupnotes-server/internal/config"
	"github.com/cupnotes/cupnotes-server/internal/di/providers"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/logger"
	"github.com/cupnotes/cupnotes-server/internal/service"
	"github.com/cupnotes/cupnotes-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Reference data
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideValidator)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAnalyticsService)
	do.Provide(injector, providers.ProvideExportService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// The search index is rebuilt before the server accepts requests.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	_ = do.MustInvoke[*flavor.Catalog](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	if err := providers.RebuildSearchIndex(injector); err != nil {
		// The journal works without search; hits stay empty until the next start.
		log.Error("Search index rebuild failed", "error", err)
	}

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AnalyticsService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	return nil
}
