package domain

import "fmt"

// Score bounds for every structural rating.
const (
	MinScore     = 1
	MaxScore     = 5
	DefaultScore = 3
)

// Scores holds the six structural ratings of a cup. A nil field is unset.
type Scores struct {
	Acidity   *int `json:"acidity"`
	Sweetness *int `json:"sweetness"`
	Body      *int `json:"body"`
	Clarity   *int `json:"clarity"`
	Finish    *int `json:"finish"`
	Enjoyment *int `json:"enjoyment"`
}

// Attribute names a structural rating.
type Attribute string

const (
	AttrAcidity   Attribute = "acidity"
	AttrSweetness Attribute = "sweetness"
	AttrBody      Attribute = "body"
	AttrClarity   Attribute = "clarity"
	AttrFinish    Attribute = "finish"
	AttrEnjoyment Attribute = "enjoyment"
)

// Attributes lists the ratings in their canonical order.
var Attributes = []Attribute{AttrAcidity, AttrSweetness, AttrBody, AttrClarity, AttrFinish, AttrEnjoyment}

// Get returns the rating for attr, or nil when unset.
func (s Scores) Get(attr Attribute) *int {
	switch attr {
	case AttrAcidity:
		return s.Acidity
	case AttrSweetness:
		return s.Sweetness
	case AttrBody:
		return s.Body
	case AttrClarity:
		return s.Clarity
	case AttrFinish:
		return s.Finish
	case AttrEnjoyment:
		return s.Enjoyment
	}
	return nil
}

// Total sums the set ratings. Unset ratings count as zero.
func (s Scores) Total() int {
	total := 0
	for _, attr := range Attributes {
		if v := s.Get(attr); v != nil {
			total += *v
		}
	}
	return total
}

// IsEmpty reports whether no rating has been set.
func (s Scores) IsEmpty() bool {
	for _, attr := range Attributes {
		if s.Get(attr) != nil {
			return false
		}
	}
	return true
}

// ScoreRangeError reports a rating outside [MinScore, MaxScore].
type ScoreRangeError struct {
	Attribute Attribute
	Value     int
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Attribute, MinScore, MaxScore, e.Value)
}

// Validate rejects any set rating outside the allowed range.
func (s Scores) Validate() error {
	for _, attr := range Attributes {
		if v := s.Get(attr); v != nil && (*v < MinScore || *v > MaxScore) {
			return &ScoreRangeError{Attribute: attr, Value: *v}
		}
	}
	return nil
}

// Cup is one physical cup of a coffee.
type Cup struct {
	ID       string `json:"id"`
	CoffeeID string `json:"coffeeId"`
	Position int    `json:"position"` // 1-based, unique within the coffee
	Scores
	Notes   string           `json:"notes"`
	Flavors []SelectedFlavor `json:"flavors"`
}

// Validate checks ratings and flavor intensities.
func (c *Cup) Validate() error {
	if c.Position < 1 {
		return fmt.Errorf("position must be at least 1, got %d", c.Position)
	}
	if err := c.Scores.Validate(); err != nil {
		return err
	}
	for _, f := range c.Flavors {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FlavorIDs returns the distinct flavor ids picked for this cup.
func (c *Cup) FlavorIDs() []int {
	seen := make(map[int]struct{}, len(c.Flavors))
	ids := make([]int, 0, len(c.Flavors))
	for _, f := range c.Flavors {
		if _, ok := seen[f.FlavorID]; ok {
			continue
		}
		seen[f.FlavorID] = struct{}{}
		ids = append(ids, f.FlavorID)
	}
	return ids
}

// ScoreUpdate is a partial rating change. Nil fields are left as they are.
type ScoreUpdate struct {
	Acidity   *int `json:"acidity,omitempty" validate:"omitempty,min=1,max=5"`
	Sweetness *int `json:"sweetness,omitempty" validate:"omitempty,min=1,max=5"`
	Body      *int `json:"body,omitempty" validate:"omitempty,min=1,max=5"`
	Clarity   *int `json:"clarity,omitempty" validate:"omitempty,min=1,max=5"`
	Finish    *int `json:"finish,omitempty" validate:"omitempty,min=1,max=5"`
	Enjoyment *int `json:"enjoyment,omitempty" validate:"omitempty,min=1,max=5"`
}

// Validate rejects out-of-range values without consulting struct tags.
func (u ScoreUpdate) Validate() error {
	return Scores(u).Validate()
}

// Merge applies u over current. The five required ratings fall back to
// DefaultScore when neither side has a value; enjoyment may stay unset.
func (u ScoreUpdate) Merge(current Scores) Scores {
	pick := func(update, existing *int, fallback bool) *int {
		switch {
		case update != nil:
			v := *update
			return &v
		case existing != nil:
			v := *existing
			return &v
		case fallback:
			v := DefaultScore
			return &v
		}
		return nil
	}
	return Scores{
		Acidity:   pick(u.Acidity, current.Acidity, true),
		Sweetness: pick(u.Sweetness, current.Sweetness, true),
		Body:      pick(u.Body, current.Body, true),
		Clarity:   pick(u.Clarity, current.Clarity, true),
		Finish:    pick(u.Finish, current.Finish, true),
		Enjoyment: pick(u.Enjoyment, current.Enjoyment, false),
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
