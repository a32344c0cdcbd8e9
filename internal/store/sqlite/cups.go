package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

// GetCup returns the cup with its flavors, or (nil, nil) when there is none.
func (s *Store) GetCup(ctx context.Context, cupID string) (*domain.Cup, error) {
	return loadCup(ctx, s.db, cupID)
}

// UpdateCupScores merges update over the stored ratings and writes the result.
// The read and the write share one transaction, so concurrent updates to the
// same cup are serialized by the database. Required ratings that were never
// set become domain.DefaultScore.
func (s *Store) UpdateCupScores(ctx context.Context, cupID string, update domain.ScoreUpdate) (*domain.Cup, error) {
	if err := update.Validate(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid scores")
	}

	var cup *domain.Cup
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sessionID, err := cupSessionID(ctx, tx, cupID)
		if err != nil {
			return err
		}
		current, err := loadCup(ctx, tx, cupID)
		if err != nil {
			return err
		}

		current.Scores = update.Merge(current.Scores)
		if err := execStatements(ctx, tx,
			updateCupStmt(current),
			touchSessionStmt(sessionID, formatTime(s.now())),
		); err != nil {
			return err
		}
		cup = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update cup %s scores: %w", cupID, err)
	}
	return cup, nil
}

// UpdateCupFlavors replaces the cup's flavor set with flavors. Two overlapping
// calls never merge: the later full set wins.
func (s *Store) UpdateCupFlavors(ctx context.Context, cupID string, flavors []domain.SelectedFlavor) error {
	for _, f := range flavors {
		if err := f.Validate(); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid flavor")
		}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sessionID, err := cupSessionID(ctx, tx, cupID)
		if err != nil {
			return err
		}
		stmts := replaceFlavorsStmts(cupID, flavors)
		stmts = append(stmts, touchSessionStmt(sessionID, formatTime(s.now())))
		return execStatements(ctx, tx, stmts...)
	})
	if err != nil {
		return fmt.Errorf("update cup %s flavors: %w", cupID, err)
	}
	return nil
}

func cupSessionID(ctx context.Context, q querier, cupID string) (string, error) {
	var sessionID string
	err := q.QueryRowContext(ctx, selectCupSessionQuery, cupID).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domainerrors.NotFoundf("cup %s not found", cupID)
	}
	return sessionID, err
}
