package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/store"
)

// SearchService bridges the search index with the journal store.
// Index upkeep never fails a write: the database is the source of truth and
// a failed index update is logged and repaired by the next rebuild.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Repository
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Repository, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a query against the journal index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// Rebuild reindexes every session in the store.
func (s *SearchService) Rebuild(ctx context.Context) error {
	sessions, err := s.store.ListSessions(ctx, domain.SessionFilter{})
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if err := s.index.Rebuild(sessions); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}

func (s *SearchService) indexSession(session *domain.Session) {
	if err := s.index.IndexSession(session); err != nil {
		s.logger.Warn("failed to index session", "session_id", session.ID, "error", err)
		return
	}
	s.logger.Debug("indexed session", "session_id", session.ID)
}

func (s *SearchService) removeSession(id string) {
	if err := s.index.DeleteSession(id); err != nil {
		s.logger.Warn("failed to remove session from index", "session_id", id, "error", err)
	}
}
