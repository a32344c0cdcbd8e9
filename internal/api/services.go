package api

import (
	"context"

	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/service"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the journal services used by the API server.
type Services struct {
	Sessions  *service.SessionService
	Analytics *service.AnalyticsService
	Search    *service.SearchService
	Export    *service.ExportService
	Catalog   *flavor.Catalog

	// Health checks only.
	DB    Pinger
	Index *search.SearchIndex
}
