// Package analytics computes journal statistics from loaded sessions.
// Every function is pure: the same input always yields the same output and
// nothing is read from or written to storage.
package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// CategoryResolver maps a flavor id to its catalog category.
type CategoryResolver interface {
	CategoryOf(flavorID int) string
}

// CategoryCount is the number of distinct flavors picked from a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes one session.
type Stats struct {
	SessionID       string                       `json:"sessionId"`
	CoffeeCount     int                          `json:"coffeeCount"`
	CupCount        int                          `json:"cupCount"`
	TotalFlavors    int                          `json:"totalFlavors"`
	UniqueFlavors   int                          `json:"uniqueFlavors"`
	AverageScores   map[domain.Attribute]float64 `json:"averageScores"`
	TotalScore      int                          `json:"totalScore"`
	TopCategories   []CategoryCount              `json:"topCategories"`
	DurationMinutes int                          `json:"durationMinutes"`
}

// SessionStats computes the summary for session. Averages only count ratings
// that are set and are 0 for an attribute nobody rated. TopCategories holds
// at most topN entries ordered by distinct flavor count, then by name.
func SessionStats(session *domain.Session, categories CategoryResolver, topN int) Stats {
	stats := Stats{
		SessionID:       session.ID,
		CoffeeCount:     len(session.Coffees),
		AverageScores:   make(map[domain.Attribute]float64, len(domain.Attributes)),
		TopCategories:   []CategoryCount{},
		DurationMinutes: int(math.Round(session.Duration().Minutes())),
	}

	sums := make(map[domain.Attribute]int, len(domain.Attributes))
	counts := make(map[domain.Attribute]int, len(domain.Attributes))
	distinct := make(map[int]struct{})

	for _, cup := range session.Cups() {
		stats.CupCount++
		stats.TotalFlavors += len(cup.Flavors)
		stats.TotalScore += cup.Total()
		for _, id := range cup.FlavorIDs() {
			distinct[id] = struct{}{}
		}
		for _, attr := range domain.Attributes {
			if v := cup.Get(attr); v != nil {
				sums[attr] += *v
				counts[attr]++
			}
		}
	}
	stats.UniqueFlavors = len(distinct)

	for _, attr := range domain.Attributes {
		if counts[attr] == 0 {
			stats.AverageScores[attr] = 0
			continue
		}
		stats.AverageScores[attr] = round1(float64(sums[attr]) / float64(counts[attr]))
	}

	if categories != nil && topN > 0 {
		stats.TopCategories = topCategories(distinct, categories, topN)
	}
	return stats
}

func topCategories(flavorIDs map[int]struct{}, categories CategoryResolver, n int) []CategoryCount {
	byCategory := make(map[string]int)
	for id := range flavorIDs {
		byCategory[categories.CategoryOf(id)]++
	}

	out := make([]CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// FlavorFrequency counts flavor picks across sessions, most picked first and
// ties broken by flavor id. It matches the store's SQL aggregate and is used
// when the sessions are already in memory.
func FlavorFrequency(sessions []*domain.Session) []domain.FlavorCount {
	type acc struct {
		count     int
		intensity int
	}
	totals := make(map[int]*acc)
	for _, s := range sessions {
		for _, cup := range s.Cups() {
			for _, f := range cup.Flavors {
				a := totals[f.FlavorID]
				if a == nil {
					a = &acc{}
					totals[f.FlavorID] = a
				}
				a.count++
				a.intensity += f.Intensity
			}
		}
	}

	out := make([]domain.FlavorCount, 0, len(totals))
	for id, a := range totals {
		out = append(out, domain.FlavorCount{
			FlavorID:     id,
			Count:        a.count,
			AvgIntensity: float64(a.intensity) / float64(a.count),
		})
	}
	slices.SortFunc(out, func(a, b domain.FlavorCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.FlavorID, b.FlavorID)
	})
	return out
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
