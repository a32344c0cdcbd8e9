package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/store"
	"github.com/cupnotes/cupnotes-server/internal/util"
	"github.com/cupnotes/cupnotes-server/internal/validation"
)

// SessionService is the journal's write path. It validates input, normalizes
// tags, turns repository misses into NOT_FOUND errors, and keeps the search
// index in step with the database.
type SessionService struct {
	store     store.Repository
	search    *SearchService
	catalog   *flavor.Catalog
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	store store.Repository,
	search *SearchService,
	catalog *flavor.Catalog,
	validator *validation.Validator,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:     store,
		search:    search,
		catalog:   catalog,
		validator: validator,
		logger:    logger,
	}
}

// SessionPage is one page of a session listing.
type SessionPage struct {
	Sessions []*domain.Session `json:"sessions"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// flavorSet wraps a flavor list so validator can dive into it.
type flavorSet struct {
	Flavors []domain.SelectedFlavor `json:"flavors" validate:"dive"`
}

// CreateSession starts a new session of the given type.
func (s *SessionService) CreateSession(ctx context.Context, sessionType domain.SessionType) (*domain.Session, error) {
	if !sessionType.Valid() {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"sessionType": "must be one of: single-coffee multi-coffee table-cupping"})
	}

	session, err := s.store.CreateSession(ctx, sessionType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		"session_id", session.ID,
		"type", session.SessionType,
		"cups", len(session.Cups()),
	)
	s.search.indexSession(session)
	return session, nil
}

// GetSession returns the session or a NOT_FOUND error.
func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domainerrors.NotFoundf("session %s not found", id)
	}
	return session, nil
}

// UpdateSession writes a full aggregate. Tags are normalized first, and the
// flavor ids of every cup must exist in the catalog.
func (s *SessionService) UpdateSession(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	session.Tags = util.NormalizeTags(session.Tags)
	for i := range session.Coffees {
		for j := range session.Coffees[i].Cups {
			if err := s.checkFlavors(session.Coffees[i].Cups[j].Flavors); err != nil {
				return nil, err
			}
		}
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session updated", "session_id", session.ID)
	return s.reload(ctx, session.ID)
}

// DeleteSession permanently deletes the session and everything under it.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteSession(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domainerrors.NotFoundf("session %s not found", id)
	}

	s.logger.Info("session deleted", "session_id", id)
	s.search.removeSession(id)
	return nil
}

// ListSessions returns one page of sessions and the unpaged total.
func (s *SessionService) ListSessions(ctx context.Context, filter domain.SessionFilter) (*SessionPage, error) {
	if err := filter.Normalize(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid session filter")
	}

	sessions, err := s.store.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SessionPage{
		Sessions: sessions,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

// DuplicateSession copies a session under fresh ids. The copy starts local-only.
func (s *SessionService) DuplicateSession(ctx context.Context, id string) (*domain.Session, error) {
	dup, err := s.store.DuplicateSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if dup == nil {
		return nil, domainerrors.NotFoundf("session %s not found", id)
	}

	s.logger.Info("session duplicated", "session_id", dup.ID, "source_id", id)
	s.search.indexSession(dup)
	return dup, nil
}

// AddCoffee adds a coffee to the session.
func (s *SessionService) AddCoffee(ctx context.Context, sessionID string, coffee *domain.CoffeeEntry) (*domain.CoffeeEntry, error) {
	if coffee != nil {
		for _, cup := range coffee.Cups {
			if err := s.checkFlavors(cup.Flavors); err != nil {
				return nil, err
			}
		}
	}

	added, err := s.store.AddCoffeeToSession(ctx, sessionID, coffee)
	if err != nil {
		return nil, err
	}

	s.logger.Info("coffee added", "session_id", sessionID, "coffee_id", added.ID, "cups", len(added.Cups))
	s.reindex(ctx, sessionID)
	return added, nil
}

// RemoveCoffee removes a coffee. A session keeps at least one coffee.
func (s *SessionService) RemoveCoffee(ctx context.Context, sessionID, coffeeID string) error {
	if err := s.store.RemoveCoffeeFromSession(ctx, sessionID, coffeeID); err != nil {
		return err
	}

	s.logger.Info("coffee removed", "session_id", sessionID, "coffee_id", coffeeID)
	s.reindex(ctx, sessionID)
	return nil
}

// GetCup returns the cup or a NOT_FOUND error.
func (s *SessionService) GetCup(ctx context.Context, cupID string) (*domain.Cup, error) {
	cup, err := s.store.GetCup(ctx, cupID)
	if err != nil {
		return nil, err
	}
	if cup == nil {
		return nil, domainerrors.NotFoundf("cup %s not found", cupID)
	}
	return cup, nil
}

// UpdateCupScores merges a partial rating change into the cup. Ratings
// outside 1..5 are rejected, never clamped.
func (s *SessionService) UpdateCupScores(ctx context.Context, cupID string, update domain.ScoreUpdate) (*domain.Cup, error) {
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}

	cup, err := s.store.UpdateCupScores(ctx, cupID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cup scores updated", "cup_id", cupID, "total", cup.Total())
	return cup, nil
}

// UpdateCupFlavors replaces the cup's flavor selection.
func (s *SessionService) UpdateCupFlavors(ctx context.Context, cupID string, flavors []domain.SelectedFlavor) (*domain.Cup, error) {
	if err := s.checkFlavors(flavors); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCupFlavors(ctx, cupID, flavors); err != nil {
		return nil, err
	}

	s.logger.Debug("cup flavors updated", "cup_id", cupID, "count", len(flavors))
	return s.GetCup(ctx, cupID)
}

// checkFlavors validates intensities and rejects ids the catalog does not know.
func (s *SessionService) checkFlavors(flavors []domain.SelectedFlavor) error {
	if err := s.validator.Validate(flavorSet{Flavors: flavors}); err != nil {
		return err
	}
	if s.catalog == nil {
		return nil
	}
	unknown := map[string]string{}
	for i, f := range flavors {
		if _, ok := s.catalog.ByID(f.FlavorID); !ok {
			unknown[fmt.Sprintf("flavors[%d].flavorId", i)] = fmt.Sprintf("unknown flavor %d", f.FlavorID)
		}
	}
	if len(unknown) > 0 {
		return domainerrors.ValidationWithDetails("validation failed", unknown)
	}
	return nil
}

func (s *SessionService) reload(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	s.search.indexSession(session)
	return session, nil
}

// reindex refreshes a session's search document after a partial write.
func (s *SessionService) reindex(ctx context.Context, id string) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil || session == nil {
		s.logger.Warn("failed to reload session for search index", "session_id", id, "error", err)
		return
	}
	s.search.indexSession(session)
}

// SearchSessions searches the journal index. Hits carry session ids, not
// loaded sessions.
func (s *SessionService) SearchSessions(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.search.Search(ctx, params)
}
