package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/id"
)

// CreateSession inserts a session, its default coffee, and the cups implied by
// sessionType in one transaction, then returns the stored aggregate.
func (s *Store) CreateSession(ctx context.Context, sessionType domain.SessionType) (*domain.Session, error) {
	if !sessionType.Valid() {
		return nil, domainerrors.Validationf("unknown session type %q", sessionType)
	}

	now := s.now()
	session := &domain.Session{
		CreatedAt:   now,
		UpdatedAt:   now,
		Mode:        domain.SessionModeTaste,
		SessionType: sessionType,
		Tags:        []string{},
		SyncStatus:  domain.SyncStatusLocalOnly,
		Coffees:     []domain.CoffeeEntry{{Name: domain.DefaultCoffeeName}},
	}
	fillCups(&session.Coffees[0], sessionType)
	if err := s.assignIDs(session); err != nil {
		return nil, err
	}

	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		return execStatements(ctx, tx, insertTreeStmts(session)...)
	}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Debug("session created", "session_id", session.ID, "type", sessionType)
	return s.GetSession(ctx, session.ID)
}

// InsertSession stores a complete aggregate. Missing ids and timestamps are
// filled in; a coffee without cups gets the cups its session type implies.
func (s *Store) InsertSession(ctx context.Context, session *domain.Session) error {
	if err := prepareSession(session, s.now()); err != nil {
		return err
	}
	if err := s.assignIDs(session); err != nil {
		return err
	}
	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		return execStatements(ctx, tx, insertTreeStmts(session)...)
	}); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession returns the full aggregate, or (nil, nil) when there is none.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return loadSession(ctx, s.db, id)
}

// UpdateSession writes the aggregate over the stored one. Session metadata
// (mode, notes, tags, sync status), coffee metadata, and cup scores and notes
// are overwritten; each cup's flavors are deleted and reinserted. Coffees and cups must already exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	for i := range session.Coffees {
		if err := session.Coffees[i].Validate(); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid coffee")
		}
	}
	if !session.Mode.Valid() {
		return domainerrors.Validationf("unknown session mode %q", session.Mode)
	}
	if !session.SyncStatus.Valid() {
		return domainerrors.Validationf("unknown sync status %q", session.SyncStatus)
	}

	if now := s.now(); now.After(session.UpdatedAt) {
		session.UpdatedAt = now
	}
	stmts := []statement{updateSessionStmt(session)}
	for i := range session.Coffees {
		coffee := &session.Coffees[i]
		coffee.SessionID = session.ID
		stmts = append(stmts, updateCoffeeStmt(coffee))
		for j := range coffee.Cups {
			cup := &coffee.Cups[j]
			cup.CoffeeID = coffee.ID
			stmts = append(stmts, updateCupStmt(cup))
			stmts = append(stmts, replaceFlavorsStmts(cup.ID, cup.Flavors)...)
		}
	}

	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		return execStatements(ctx, tx, stmts...)
	}); err != nil {
		return fmt.Errorf("update session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteSession removes the session. Foreign keys cascade to every coffee,
// cup, and flavor selection. Deletion is permanent.
func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	st := deleteSessionStmt(id)
	res, err := s.db.ExecContext(ctx, st.query, st.args...)
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSessions returns the sessions matching filter, each fully hydrated.
func (s *Store) ListSessions(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	if err := filter.Normalize(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid filter")
	}

	q := listSessionIDsQuery(filter)
	ids, err := queryAll(ctx, s.db, scanString, q.query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, sessionID := range ids {
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		// Deleted between the id query and hydration.
		if session == nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// CountSessions counts the sessions matching filter, ignoring pagination.
func (s *Store) CountSessions(ctx context.Context, filter domain.SessionFilter) (int, error) {
	if err := filter.Normalize(); err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid filter")
	}
	q := countSessionsQuery(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// DuplicateSession copies the session tree under fresh ids. Scores, notes,
// tags, and flavors carry over; the copy starts local-only with new
// timestamps. It returns (nil, nil) when the source does not exist.
func (s *Store) DuplicateSession(ctx context.Context, id string) (*domain.Session, error) {
	var copyID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		source, err := loadSession(ctx, tx, id)
		if err != nil || source == nil {
			return err
		}

		dup := cloneSession(source)
		now := s.now()
		dup.CreatedAt, dup.UpdatedAt = now, now
		dup.SyncStatus = domain.SyncStatusLocalOnly
		if err := s.assignIDs(dup); err != nil {
			return err
		}
		if err := execStatements(ctx, tx, insertTreeStmts(dup)...); err != nil {
			return err
		}
		copyID = dup.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate session %s: %w", id, err)
	}
	if copyID == "" {
		return nil, nil
	}
	return s.GetSession(ctx, copyID)
}

// AddCoffeeToSession inserts coffee (with cups and flavors) under the session
// and touches the session. A coffee without cups gets the cups the session
// type implies.
func (s *Store) AddCoffeeToSession(ctx context.Context, sessionID string, coffee *domain.CoffeeEntry) (*domain.CoffeeEntry, error) {
	if coffee == nil {
		coffee = &domain.CoffeeEntry{}
	}
	entry := cloneCoffee(*coffee)
	if strings.TrimSpace(entry.Name) == "" {
		entry.Name = domain.DefaultCoffeeName
	}
	if err := entry.Validate(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid coffee")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var sessionType domain.SessionType
		err := tx.QueryRowContext(ctx, selectSessionTypeQuery, sessionID).Scan(&sessionType)
		if errors.Is(err, sql.ErrNoRows) {
			return domainerrors.NotFoundf("session %s not found", sessionID)
		}
		if err != nil {
			return err
		}

		entry.ID = ""
		entry.SessionID = sessionID
		for i := range entry.Cups {
			entry.Cups[i].ID = ""
		}
		fillCups(&entry, sessionType)
		if err := s.assignCoffeeIDs(&entry); err != nil {
			return err
		}

		stmts := insertCoffeeTreeStmts(&entry)
		stmts = append(stmts, touchSessionStmt(sessionID, formatTime(s.now())))
		return execStatements(ctx, tx, stmts...)
	})
	if err != nil {
		return nil, fmt.Errorf("add coffee to session %s: %w", sessionID, err)
	}
	return &entry, nil
}

// RemoveCoffeeFromSession deletes one coffee and its cups. A session keeps at
// least one coffee.
func (s *Store) RemoveCoffeeFromSession(ctx context.Context, sessionID, coffeeID string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, countCoffeesQuery, sessionID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return domainerrors.NotFoundf("session %s not found", sessionID)
		}
		var owned int
		if err := tx.QueryRowContext(ctx, coffeeInSessionQuery, coffeeID, sessionID).Scan(&owned); err != nil {
			return err
		}
		if owned == 0 {
			return domainerrors.NotFoundf("coffee %s not found in session %s", coffeeID, sessionID)
		}
		if n == 1 {
			return domainerrors.Validation("a session must keep at least one coffee")
		}
		return execStatements(ctx, tx,
			deleteCoffeeStmt(sessionID, coffeeID),
			touchSessionStmt(sessionID, formatTime(s.now())),
		)
	})
	if err != nil {
		return fmt.Errorf("remove coffee %s: %w", coffeeID, err)
	}
	return nil
}

// prepareSession validates an aggregate headed for insertion and fills defaults.
func prepareSession(session *domain.Session, now time.Time) error {
	if !session.SessionType.Valid() {
		return domainerrors.Validationf("unknown session type %q", session.SessionType)
	}
	if session.Mode == "" {
		session.Mode = domain.SessionModeTaste
	}
	if !session.Mode.Valid() {
		return domainerrors.Validationf("unknown session mode %q", session.Mode)
	}
	if session.SyncStatus == "" {
		session.SyncStatus = domain.SyncStatusLocalOnly
	}
	if !session.SyncStatus.Valid() {
		return domainerrors.Validationf("unknown sync status %q", session.SyncStatus)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.Before(session.CreatedAt) {
		session.UpdatedAt = session.CreatedAt
	}
	if session.Tags == nil {
		session.Tags = []string{}
	}
	if len(session.Coffees) == 0 {
		session.Coffees = []domain.CoffeeEntry{{Name: domain.DefaultCoffeeName}}
	}
	for i := range session.Coffees {
		fillCups(&session.Coffees[i], session.SessionType)
		if err := session.Coffees[i].Validate(); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid coffee")
		}
	}
	return nil
}

// fillCups creates the cups implied by t when the coffee has none and numbers
// unpositioned cups by their order.
func fillCups(c *domain.CoffeeEntry, t domain.SessionType) {
	if len(c.Cups) == 0 {
		for pos := 1; pos <= t.CupsPerCoffee(); pos++ {
			c.Cups = append(c.Cups, domain.Cup{Position: pos, Flavors: []domain.SelectedFlavor{}})
		}
	}
	for i := range c.Cups {
		if c.Cups[i].Position == 0 {
			c.Cups[i].Position = i + 1
		}
	}
}

// assignIDs gives the session and every descendant an id where missing and
// links children to their parents.
func (s *Store) assignIDs(session *domain.Session) error {
	if session.ID == "" {
		sid, err := s.newID(id.PrefixSession)
		if err != nil {
			return err
		}
		session.ID = sid
	}
	for i := range session.Coffees {
		session.Coffees[i].SessionID = session.ID
		if err := s.assignCoffeeIDs(&session.Coffees[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) assignCoffeeIDs(c *domain.CoffeeEntry) error {
	if c.ID == "" {
		cid, err := s.newID(id.PrefixCoffee)
		if err != nil {
			return err
		}
		c.ID = cid
	}
	for j := range c.Cups {
		if c.Cups[j].ID == "" {
			cupID, err := s.newID(id.PrefixCup)
			if err != nil {
				return err
			}
			c.Cups[j].ID = cupID
		}
		c.Cups[j].CoffeeID = c.ID
	}
	return nil
}

// cloneSession deep-copies the aggregate and clears every id.
func cloneSession(src *domain.Session) *domain.Session {
	dup := *src
	dup.ID = ""
	dup.Tags = append([]string{}, src.Tags...)
	if src.UserID != nil {
		uid := *src.UserID
		dup.UserID = &uid
	}
	dup.Coffees = make([]domain.CoffeeEntry, len(src.Coffees))
	for i, c := range src.Coffees {
		dup.Coffees[i] = cloneCoffee(c)
		dup.Coffees[i].ID = ""
		for j := range dup.Coffees[i].Cups {
			dup.Coffees[i].Cups[j].ID = ""
		}
	}
	return &dup
}

func cloneCoffee(src domain.CoffeeEntry) domain.CoffeeEntry {
	c := src
	if src.RoastLevel != nil {
		level := *src.RoastLevel
		c.RoastLevel = &level
	}
	if src.RoastDate != nil {
		d := *src.RoastDate
		c.RoastDate = &d
	}
	c.Cups = make([]domain.Cup, len(src.Cups))
	for i, cup := range src.Cups {
		c.Cups[i] = cloneCup(cup)
	}
	return c
}

func cloneCup(src domain.Cup) domain.Cup {
	c := src
	c.Scores = copyScores(src.Scores)
	c.Flavors = append([]domain.SelectedFlavor{}, src.Flavors...)
	return c
}

func copyScores(s domain.Scores) domain.Scores {
	cp := func(v *int) *int {
		if v == nil {
			return nil
		}
		x := *v
		return &x
	}
	return domain.Scores{
		Acidity:   cp(s.Acidity),
		Sweetness: cp(s.Sweetness),
		Body:      cp(s.Body),
		Clarity:   cp(s.Clarity),
		Finish:    cp(s.Finish),
		Enjoyment: cp(s.Enjoyment),
	}
}

func scanString(row scanner) (string, error) {
	var v string
	err := row.Scan(&v)
	return v, err
}
