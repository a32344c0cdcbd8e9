package domain

import "time"

// SessionMode controls how much detail the journal asks for.
type SessionMode string

const (
	SessionModeTaste SessionMode = "taste"
	SessionModePro   SessionMode = "pro"
)

// Valid reports whether m is a known mode.
func (m SessionMode) Valid() bool {
	return m == SessionModeTaste || m == SessionModePro
}

// SessionType determines how many coffees and cups a session holds.
// It is fixed at creation.
type SessionType string

const (
	SessionTypeSingleCoffee SessionType = "single-coffee"
	SessionTypeMultiCoffee  SessionType = "multi-coffee"
	SessionTypeTableCupping SessionType = "table-cupping"
)

// TableCuppingCups is the number of cups poured per coffee in a table cupping.
const TableCuppingCups = 5

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeSingleCoffee, SessionTypeMultiCoffee, SessionTypeTableCupping:
		return true
	}
	return false
}

// CupsPerCoffee returns the cup cardinality a new coffee gets for this type.
func (t SessionType) CupsPerCoffee() int {
	if t == SessionTypeTableCupping {
		return TableCuppingCups
	}
	return 1
}

// SyncStatus tracks cloud sync state. Only local-only is produced today.
type SyncStatus string

const (
	SyncStatusLocalOnly SyncStatus = "local-only"
	SyncStatusSynced    SyncStatus = "synced"
	SyncStatusPending   SyncStatus = "pending"
	SyncStatusConflict  SyncStatus = "conflict"
)

// Valid reports whether s is a known sync status.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusLocalOnly, SyncStatusSynced, SyncStatusPending, SyncStatusConflict:
		return true
	}
	return false
}

// DefaultCoffeeName is given to the coffee created alongside a new session.
const DefaultCoffeeName = "Untitled Coffee"

// Session is one tasting occasion and the root of the journal aggregate.
// Deleting a session removes every coffee, cup, and flavor selection under it.
type Session struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Mode        SessionMode   `json:"mode"`
	SessionType SessionType   `json:"sessionType"`
	Notes       string        `json:"notes"`
	Tags        []string      `json:"tags"`
	SyncStatus  SyncStatus    `json:"syncStatus"`
	UserID      *string       `json:"userId,omitempty"` // nil in guest mode
	Coffees     []CoffeeEntry `json:"coffees"`
}

// Coffee returns the coffee with the given id, or nil.
func (s *Session) Coffee(id string) *CoffeeEntry {
	for i := range s.Coffees {
		if s.Coffees[i].ID == id {
			return &s.Coffees[i]
		}
	}
	return nil
}

// Cups returns every cup in the session in coffee order.
func (s *Session) Cups() []Cup {
	var cups []Cup
	for _, c := range s.Coffees {
		cups = append(cups, c.Cups...)
	}
	return cups
}

// Duration is the time between creation and the last update.
func (s *Session) Duration() time.Duration {
	return s.UpdatedAt.Sub(s.CreatedAt)
}
