package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// FlavorFrequency counts flavor picks, most frequent first, across all
// sessions or one session. A zero Limit returns every flavor.
func (s *Store) FlavorFrequency(ctx context.Context, filter domain.FlavorFrequencyFilter) ([]domain.FlavorCount, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var (
		counts []domain.FlavorCount
		err    error
	)
	if filter.SessionID == "" {
		counts, err = queryAll(ctx, s.db, scanFlavorCount, flavorFrequencyQuery, limit)
	} else {
		counts, err = queryAll(ctx, s.db, scanFlavorCount, sessionFlavorFrequencyQuery, filter.SessionID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("flavor frequency: %w", err)
	}
	if counts == nil {
		counts = []domain.FlavorCount{}
	}
	return counts, nil
}

// TopFlavors returns the limit most picked flavors across the journal.
func (s *Store) TopFlavors(ctx context.Context, limit int) ([]domain.FlavorCount, error) {
	if limit <= 0 {
		return []domain.FlavorCount{}, nil
	}
	counts, err := queryAll(ctx, s.db, scanFlavorCount, topFlavorsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("top flavors: %w", err)
	}
	if counts == nil {
		counts = []domain.FlavorCount{}
	}
	return counts, nil
}

// CoffeeAverages summarizes the scores of each coffee in the session.
func (s *Store) CoffeeAverages(ctx context.Context, sessionID string) ([]domain.CoffeeAverages, error) {
	avgs, err := queryAll(ctx, s.db, scanCoffeeAverages, coffeeAveragesQuery, sessionID)
	if err != nil {
		return nil, fmt.Errorf("coffee averages: %w", err)
	}
	if avgs == nil {
		avgs = []domain.CoffeeAverages{}
	}
	return avgs, nil
}

// CupTotals returns the per-cup score totals of a coffee by position.
// Unset ratings count as zero.
func (s *Store) CupTotals(ctx context.Context, coffeeID string) ([]int, error) {
	totals, err := queryAll(ctx, s.db, scanInt, cupTotalsQuery, coffeeID)
	if err != nil {
		return nil, fmt.Errorf("cup totals: %w", err)
	}
	if totals == nil {
		totals = []int{}
	}
	return totals, nil
}

func scanFlavorCount(row scanner) (domain.FlavorCount, error) {
	var fc domain.FlavorCount
	err := row.Scan(&fc.FlavorID, &fc.Count, &fc.AvgIntensity)
	return fc, err
}

func scanCoffeeAverages(row scanner) (domain.CoffeeAverages, error) {
	var (
		a     domain.CoffeeAverages
		avgs  [6]sql.NullFloat64
		total sql.NullFloat64
	)
	err := row.Scan(&a.CoffeeID, &a.CupCount,
		&avgs[0], &avgs[1], &avgs[2], &avgs[3], &avgs[4], &avgs[5], &total)
	if err != nil {
		return a, err
	}

	a.Averages = make(map[domain.Attribute]float64, len(domain.Attributes))
	for i, attr := range domain.Attributes {
		if avgs[i].Valid {
			a.Averages[attr] = avgs[i].Float64
		}
	}
	a.AvgTotal = total.Float64
	return a, nil
}

func scanInt(row scanner) (int, error) {
	var v int
	err := row.Scan(&v)
	return v, err
}
