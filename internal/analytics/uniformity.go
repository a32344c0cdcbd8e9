package analytics

import (
	"math"

	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// Each point of standard deviation between cup totals costs this much uniformity.
const uniformityPenalty = 10

// Uniformity describes how consistent the cups of one coffee are.
type Uniformity struct {
	CoffeeID          string  `json:"coffeeId"`
	CupTotals         []int   `json:"cupTotals"`
	Mean              float64 `json:"mean"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standardDeviation"`
	Score             float64 `json:"score"`
}

// UniformityScore scores the spread of per-cup totals, where unset ratings
// count as zero. Score is 100 - 10*stddev clamped to [0, 100] and rounded to
// one decimal; the variance is the population variance. A coffee with one
// cup, or none, scores 100.
func UniformityScore(coffee domain.CoffeeEntry) Uniformity {
	u := Uniformity{
		CoffeeID:  coffee.ID,
		CupTotals: make([]int, 0, len(coffee.Cups)),
	}
	for _, cup := range coffee.Cups {
		u.CupTotals = append(u.CupTotals, cup.Total())
	}

	u.Mean, u.Variance = meanVariance(u.CupTotals)
	u.StandardDeviation = math.Sqrt(u.Variance)
	u.Score = round1(clamp(100-u.StandardDeviation*uniformityPenalty, 0, 100))
	return u
}

// UniformityScores scores every coffee in the session, in coffee order.
func UniformityScores(session *domain.Session) []Uniformity {
	out := make([]Uniformity, 0, len(session.Coffees))
	for _, c := range session.Coffees {
		out = append(out, UniformityScore(c))
	}
	return out
}

func meanVariance(values []int) (mean, variance float64) {
	if len(values) == 0 {
		return 0, 0
	}
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean = sum / n

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, sq / n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
