package domain

// CoffeeAverages is the per-coffee score summary computed by the store.
// Averages holds only attributes with at least one set value.
type CoffeeAverages struct {
	CoffeeID string                `json:"coffeeId"`
	CupCount int                   `json:"cupCount"`
	Averages map[Attribute]float64 `json:"averages"`
	AvgTotal float64               `json:"avgTotal"`
}
