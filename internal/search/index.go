package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// SearchIndex wraps an in-memory Bleve index of journal sessions.
// The journal database is the source of truth; the index is rebuilt from it
// at startup and kept current by the session service.
//
// Thread safety: All public methods are safe for concurrent use.
type SearchIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex // Protects the index handle during rebuild
}

// NewSearchIndex creates an empty in-memory index.
func NewSearchIndex(logger *slog.Logger) (*SearchIndex, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &SearchIndex{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexSession adds or replaces the session's document.
func (s *SearchIndex) IndexSession(session *domain.Session) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(session.ID, SessionToDocument(session).ToMap())
}

// IndexSessions indexes sessions in batches.
func (s *SearchIndex) IndexSessions(sessions []*domain.Session) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexBatched(s.index, sessions)
}

func indexBatched(index bleve.Index, sessions []*domain.Session) error {
	const batchSize = 500

	for i := 0; i < len(sessions); i += batchSize {
		end := min(i+batchSize, len(sessions))

		batch := index.NewBatch()
		for _, session := range sessions[i:end] {
			if err := batch.Index(session.ID, SessionToDocument(session).ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", session.ID, err)
			}
		}
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeleteSession removes a session's document. Deleting an unknown id is a no-op.
func (s *SearchIndex) DeleteSession(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed sessions.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index contents with sessions.
//
// The new index is filled before the swap, so searches keep working against
// the old one until it is ready.
func (s *SearchIndex) Rebuild(sessions []*domain.Session) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := indexBatched(fresh, sessions); err != nil {
		_ = fresh.Close()
		return err
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Info("rebuilt search index", "sessions", len(sessions))
	return nil
}
