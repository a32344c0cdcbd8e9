package domain

import (
	"fmt"
	"time"
)

// SessionSortField selects the timestamp sessions are ordered by.
type SessionSortField string

const (
	SortByCreatedAt SessionSortField = "created_at"
	SortByUpdatedAt SessionSortField = "updated_at"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SessionFilter narrows and orders a session listing.
// Zero values mean no constraint; the default order is newest first.
type SessionFilter struct {
	Type          *SessionType
	CreatedAfter  *time.Time // inclusive
	CreatedBefore *time.Time // inclusive
	SortBy        SessionSortField
	Order         SortOrder
	Limit         int
	Offset        int
}

// Normalize fills defaults and rejects unknown enum values.
func (f *SessionFilter) Normalize() error {
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if f.Order == "" {
		f.Order = SortDesc
	}
	if f.SortBy != SortByCreatedAt && f.SortBy != SortByUpdatedAt {
		return fmt.Errorf("unknown sort field %q", f.SortBy)
	}
	if f.Order != SortAsc && f.Order != SortDesc {
		return fmt.Errorf("unknown sort order %q", f.Order)
	}
	if f.Type != nil && !f.Type.Valid() {
		return fmt.Errorf("unknown session type %q", *f.Type)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		return fmt.Errorf("created range is inverted")
	}
	return nil
}

// FlavorFrequencyFilter scopes a flavor frequency count.
// An empty SessionID counts across all sessions.
type FlavorFrequencyFilter struct {
	SessionID string
	Limit     int
}
