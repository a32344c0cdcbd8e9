package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/logger"
	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(log.Logger)
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger), nil
}

// ProvideCatalog provides the flavor catalog.
func ProvideCatalog(_ do.Injector) (*flavor.Catalog, error) {
	return flavor.New(flavor.DefaultDataset()), nil
}

// RebuildSearchIndex fills the index from the database. The index lives in
// memory, so this runs on every start.
func RebuildSearchIndex(i do.Injector) error {
	searchService := do.MustInvoke[*service.SearchService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	start := time.Now()
	if err := searchService.Rebuild(ctx); err != nil {
		return err
	}

	count, _ := indexHandle.DocumentCount()
	log.Info("Search index rebuilt", "documents", count, "duration", time.Since(start))
	return nil
}
