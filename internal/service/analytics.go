package service

import (
	"context"
	"log/slog"

	"github.com/cupnotes/cupnotes-server/internal/analytics"
	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/store"
)

// DefaultTopCategories is how many flavor categories SessionStats reports.
const DefaultTopCategories = 3

// maxFlavorLimit caps frequency and top-flavor listings.
const maxFlavorLimit = 100

// AnalyticsService answers read-only questions about cupping results.
type AnalyticsService struct {
	store   store.Repository
	catalog *flavor.Catalog
	logger  *slog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(store store.Repository, catalog *flavor.Catalog, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// SessionStats summarizes one session. Flavor categories come from the catalog.
func (s *AnalyticsService) SessionStats(ctx context.Context, sessionID string) (*analytics.Stats, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var resolver analytics.CategoryResolver
	if s.catalog != nil {
		resolver = s.catalog
	}
	stats := analytics.SessionStats(session, resolver, DefaultTopCategories)
	return &stats, nil
}

// FlavorFrequency counts flavor selections, globally or for one session.
// Results are ordered by count descending.
func (s *AnalyticsService) FlavorFrequency(ctx context.Context, filter domain.FlavorFrequencyFilter) ([]domain.FlavorCount, error) {
	if filter.Limit < 0 {
		return nil, domainerrors.Validation("limit must not be negative")
	}
	if filter.Limit > maxFlavorLimit {
		filter.Limit = maxFlavorLimit
	}
	if filter.SessionID != "" {
		if _, err := s.session(ctx, filter.SessionID); err != nil {
			return nil, err
		}
	}

	counts, err := s.store.FlavorFrequency(ctx, filter)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.FlavorCount{}
	}
	return counts, nil
}

// TopFlavors returns the most selected flavors across the journal.
func (s *AnalyticsService) TopFlavors(ctx context.Context, limit int) ([]domain.FlavorCount, error) {
	if limit <= 0 {
		return nil, domainerrors.Validation("limit must be positive")
	}
	if limit > maxFlavorLimit {
		limit = maxFlavorLimit
	}

	counts, err := s.store.TopFlavors(ctx, limit)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.FlavorCount{}
	}
	return counts, nil
}

// UniformityScores scores how consistent each coffee's cups were.
func (s *AnalyticsService) UniformityScores(ctx context.Context, sessionID string) ([]analytics.Uniformity, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.UniformityScores(session), nil
}

// CoffeeComparison compares two coffees of the same session.
func (s *AnalyticsService) CoffeeComparison(ctx context.Context, sessionID, coffee1, coffee2 string) (*analytics.Comparison, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return analytics.CoffeeComparison(session, coffee1, coffee2)
}

// CoffeeAverages returns the per-coffee score averages computed in SQL.
func (s *AnalyticsService) CoffeeAverages(ctx context.Context, sessionID string) ([]domain.CoffeeAverages, error) {
	if _, err := s.session(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.CoffeeAverages(ctx, sessionID)
}

func (s *AnalyticsService) session(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domainerrors.NotFoundf("session %s not found", id)
	}
	return session, nil
}
