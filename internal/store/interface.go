// Package store defines the journal persistence contract consumed by services.
package store

import (
	"context"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// Repository reads and writes whole session aggregates.
//
// Lookups of a missing session or cup return (nil, nil) so callers can branch
// without inspecting errors. Every write runs in a single transaction that
// either commits fully or rolls back.
type Repository interface {
	// CreateSession inserts a session of the given type with one default
	// coffee and the cups the type implies.
	CreateSession(ctx context.Context, sessionType domain.SessionType) (*domain.Session, error)
	// InsertSession stores a complete aggregate as given, ids included.
	InsertSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	// UpdateSession writes session metadata, coffee metadata, cup scores and
	// notes, and replaces every cup's flavor set.
	UpdateSession(ctx context.Context, session *domain.Session) error
	// DeleteSession permanently removes the session and its descendants.
	// It reports false when no session had that id.
	DeleteSession(ctx context.Context, id string) (bool, error)
	ListSessions(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
	CountSessions(ctx context.Context, filter domain.SessionFilter) (int, error)
	// DuplicateSession copies the whole tree under fresh ids.
	DuplicateSession(ctx context.Context, id string) (*domain.Session, error)

	AddCoffeeToSession(ctx context.Context, sessionID string, coffee *domain.CoffeeEntry) (*domain.CoffeeEntry, error)
	RemoveCoffeeFromSession(ctx context.Context, sessionID, coffeeID string) error

	GetCup(ctx context.Context, cupID string) (*domain.Cup, error)
	UpdateCupScores(ctx context.Context, cupID string, update domain.ScoreUpdate) (*domain.Cup, error)
	// UpdateCupFlavors replaces the cup's flavor set. The last full write wins.
	UpdateCupFlavors(ctx context.Context, cupID string, flavors []domain.SelectedFlavor) error

	FlavorFrequency(ctx context.Context, filter domain.FlavorFrequencyFilter) ([]domain.FlavorCount, error)
	TopFlavors(ctx context.Context, limit int) ([]domain.FlavorCount, error)
	CoffeeAverages(ctx context.Context, sessionID string) ([]domain.CoffeeAverages, error)
	CupTotals(ctx context.Context, coffeeID string) ([]int, error)
}
