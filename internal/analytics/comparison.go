package analytics

import (
	"slices"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

// ScoreDelta is coffee one minus coffee two, per attribute and in total.
type ScoreDelta struct {
	Attributes map[domain.Attribute]float64 `json:"attributes"`
	Total      float64                      `json:"total"`
}

// Comparison contrasts two coffees from the same session.
type Comparison struct {
	Coffee1ID       string                       `json:"coffee1Id"`
	Coffee2ID       string                       `json:"coffee2Id"`
	Coffee1Averages map[domain.Attribute]float64 `json:"coffee1Averages"`
	Coffee2Averages map[domain.Attribute]float64 `json:"coffee2Averages"`
	ScoreDelta      ScoreDelta                   `json:"scoreDelta"`
	SharedFlavors   []int                        `json:"sharedFlavors"`
	UniqueToCoffee1 []int                        `json:"uniqueToCoffee1"`
	UniqueToCoffee2 []int                        `json:"uniqueToCoffee2"`
}

// CoffeeComparison compares coffee1 against coffee2. An attribute nobody
// rated averages to domain.DefaultScore. Flavor lists are sorted by id.
func CoffeeComparison(session *domain.Session, coffee1, coffee2 string) (*Comparison, error) {
	a := session.Coffee(coffee1)
	if a == nil {
		return nil, domainerrors.NotFoundf("coffee %s not found in session %s", coffee1, session.ID)
	}
	b := session.Coffee(coffee2)
	if b == nil {
		return nil, domainerrors.NotFoundf("coffee %s not found in session %s", coffee2, session.ID)
	}

	res := &Comparison{
		Coffee1ID:       a.ID,
		Coffee2ID:       b.ID,
		Coffee1Averages: coffeeAverages(a),
		Coffee2Averages: coffeeAverages(b),
		ScoreDelta:      ScoreDelta{Attributes: make(map[domain.Attribute]float64, len(domain.Attributes))},
	}

	var total1, total2 float64
	for _, attr := range domain.Attributes {
		x, y := res.Coffee1Averages[attr], res.Coffee2Averages[attr]
		res.ScoreDelta.Attributes[attr] = round1(x - y)
		total1 += x
		total2 += y
	}
	res.ScoreDelta.Total = round1(total1 - total2)

	flavors1, flavors2 := flavorSet(a), flavorSet(b)
	res.SharedFlavors = []int{}
	res.UniqueToCoffee1 = []int{}
	res.UniqueToCoffee2 = []int{}
	for id := range flavors1 {
		if _, ok := flavors2[id]; ok {
			res.SharedFlavors = append(res.SharedFlavors, id)
		} else {
			res.UniqueToCoffee1 = append(res.UniqueToCoffee1, id)
		}
	}
	for id := range flavors2 {
		if _, ok := flavors1[id]; !ok {
			res.UniqueToCoffee2 = append(res.UniqueToCoffee2, id)
		}
	}
	slices.Sort(res.SharedFlavors)
	slices.Sort(res.UniqueToCoffee1)
	slices.Sort(res.UniqueToCoffee2)
	return res, nil
}

func coffeeAverages(c *domain.CoffeeEntry) map[domain.Attribute]float64 {
	out := make(map[domain.Attribute]float64, len(domain.Attributes))
	for _, attr := range domain.Attributes {
		var sum, n int
		for _, cup := range c.Cups {
			if v := cup.Get(attr); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			out[attr] = domain.DefaultScore
			continue
		}
		out[attr] = round1(float64(sum) / float64(n))
	}
	return out
}

func flavorSet(c *domain.CoffeeEntry) map[int]struct{} {
	set := make(map[int]struct{})
	for i := range c.Cups {
		for _, id := range c.Cups[i].FlavorIDs() {
			set[id] = struct{}{}
		}
	}
	return set
}
