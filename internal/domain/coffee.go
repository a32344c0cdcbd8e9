package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RoastLevel is one of five ordered roast categories.
type RoastLevel string

const (
	RoastLight       RoastLevel = "light"
	RoastMediumLight RoastLevel = "medium-light"
	RoastMedium      RoastLevel = "medium"
	RoastMediumDark  RoastLevel = "medium-dark"
	RoastDark        RoastLevel = "dark"
)

// roastOrder lists roast levels from lightest to darkest.
var roastOrder = []RoastLevel{RoastLight, RoastMediumLight, RoastMedium, RoastMediumDark, RoastDark}

// Rank returns the 1-based position of the roast level, or 0 if unknown.
func (r RoastLevel) Rank() int {
	for i, level := range roastOrder {
		if level == r {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether r is one of the five roast levels.
func (r RoastLevel) Valid() bool {
	return r.Rank() > 0
}

// RoastDateLayout is the storage format of roast dates.
const RoastDateLayout = "2006-01-02"

// CoffeeEntry is one coffee evaluated within a session.
// Optional text fields are empty when unset.
type CoffeeEntry struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"sessionId"`
	Name       string      `json:"name"`
	Roaster    string      `json:"roaster,omitempty"`
	Origin     string      `json:"origin,omitempty"`
	BrewMethod string      `json:"brewMethod,omitempty"`
	RoastLevel *RoastLevel `json:"roastLevel,omitempty"`
	RoastDate  *time.Time  `json:"roastDate,omitempty"`
	Cups       []Cup       `json:"cups"`
}

// ErrEmptyCoffeeName is returned when a coffee has no name.
var ErrEmptyCoffeeName = errors.New("coffee name is required")

// Validate checks the fields the store cannot express as constraints.
func (c *CoffeeEntry) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCoffeeName
	}
	if c.RoastLevel != nil && !c.RoastLevel.Valid() {
		return fmt.Errorf("unknown roast level %q", *c.RoastLevel)
	}
	for i := range c.Cups {
		if err := c.Cups[i].Validate(); err != nil {
			return fmt.Errorf("cup %d: %w", c.Cups[i].Position, err)
		}
	}
	return nil
}

// Cup returns the cup at the given position, or nil.
func (c *CoffeeEntry) Cup(position int) *Cup {
	for i := range c.Cups {
		if c.Cups[i].Position == position {
			return &c.Cups[i]
		}
	}
	return nil
}
