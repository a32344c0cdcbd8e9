package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

type scanner interface{ Scan(dest ...any) error }

func scanSession(row scanner) (*domain.Session, error) {
	var (
		s         domain.Session
		createdAt string
		updatedAt string
		tags      string
		userID    sql.NullString
	)
	err := row.Scan(&s.ID, &createdAt, &updatedAt, &s.Mode, &s.SessionType,
		&s.Notes, &tags, &s.SyncStatus, &userID)
	if err != nil {
		return nil, err
	}

	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if s.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if userID.Valid {
		s.UserID = &userID.String
	}
	s.Coffees = []domain.CoffeeEntry{}
	return &s, nil
}

func scanCoffee(row scanner) (*domain.CoffeeEntry, error) {
	var (
		c                           domain.CoffeeEntry
		roaster, origin, brewMethod sql.NullString
		roastLevel, roastDate       sql.NullString
	)
	err := row.Scan(&c.ID, &c.SessionID, &c.Name, &roaster, &origin, &brewMethod, &roastLevel, &roastDate)
	if err != nil {
		return nil, err
	}

	c.Roaster = roaster.String
	c.Origin = origin.String
	c.BrewMethod = brewMethod.String
	if roastLevel.Valid {
		level := domain.RoastLevel(roastLevel.String)
		c.RoastLevel = &level
	}
	if roastDate.Valid {
		d, err := time.Parse(domain.RoastDateLayout, roastDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse roast_date: %w", err)
		}
		c.RoastDate = &d
	}
	c.Cups = []domain.Cup{}
	return &c, nil
}

func scanCup(row scanner) (*domain.Cup, error) {
	var (
		c                                 domain.Cup
		acidity, sweetness, body, clarity sql.NullInt64
		finish, enjoyment                 sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.CoffeeID, &c.Position,
		&acidity, &sweetness, &body, &clarity, &finish, &enjoyment, &c.Notes)
	if err != nil {
		return nil, err
	}
	c.Scores = domain.Scores{
		Acidity:   intPtr(acidity),
		Sweetness: intPtr(sweetness),
		Body:      intPtr(body),
		Clarity:   intPtr(clarity),
		Finish:    intPtr(finish),
		Enjoyment: intPtr(enjoyment),
	}
	c.Flavors = []domain.SelectedFlavor{}
	return &c, nil
}

func scanFlavor(row scanner) (domain.SelectedFlavor, error) {
	var (
		f        domain.SelectedFlavor
		dominant int
	)
	if err := row.Scan(&f.FlavorID, &f.Intensity, &dominant); err != nil {
		return f, err
	}
	f.Dominant = dominant != 0
	return f, nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, q querier, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// loadSession hydrates the aggregate one level at a time: the session row,
// its coffees, each coffee's cups, each cup's flavors.
// It returns (nil, nil) when the session does not exist.
func loadSession(ctx context.Context, q querier, id string) (*domain.Session, error) {
	session, err := scanSession(q.QueryRowContext(ctx, selectSessionQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	coffees, err := queryAll(ctx, q, scanCoffee, selectCoffeesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("load coffees: %w", err)
	}
	for _, c := range coffees {
		cups, err := loadCups(ctx, q, c.ID)
		if err != nil {
			return nil, err
		}
		c.Cups = cups
		session.Coffees = append(session.Coffees, *c)
	}
	return session, nil
}

func loadCups(ctx context.Context, q querier, coffeeID string) ([]domain.Cup, error) {
	cups, err := queryAll(ctx, q, scanCup, selectCupsQuery, coffeeID)
	if err != nil {
		return nil, fmt.Errorf("load cups: %w", err)
	}
	out := make([]domain.Cup, 0, len(cups))
	for _, cup := range cups {
		if cup.Flavors, err = loadFlavors(ctx, q, cup.ID); err != nil {
			return nil, err
		}
		out = append(out, *cup)
	}
	return out, nil
}

func loadFlavors(ctx context.Context, q querier, cupID string) ([]domain.SelectedFlavor, error) {
	flavors, err := queryAll(ctx, q, scanFlavor, selectFlavorsQuery, cupID)
	if err != nil {
		return nil, fmt.Errorf("load flavors: %w", err)
	}
	if flavors == nil {
		flavors = []domain.SelectedFlavor{}
	}
	return flavors, nil
}

// loadCup returns (nil, nil) when the cup does not exist.
func loadCup(ctx context.Context, q querier, cupID string) (*domain.Cup, error) {
	cup, err := scanCup(q.QueryRowContext(ctx, selectCupQuery, cupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cup: %w", err)
	}
	if cup.Flavors, err = loadFlavors(ctx, q, cupID); err != nil {
		return nil, err
	}
	return cup, nil
}
