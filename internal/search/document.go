// Package search provides full-text search over the tasting journal using Bleve.
// Each session is indexed as one document that denormalizes the text of its
// coffees and cups, so a single query finds a session by any of them.
package search

import (
	"github.com/cupnotes/cupnotes-server/internal/domain"
)

// SessionDocument is the indexed form of a session.
type SessionDocument struct {
	ID          string   `json:"id"`
	SessionType string   `json:"session_type"`
	Mode        string   `json:"mode"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CoffeeNames []string `json:"coffee_names,omitempty"`
	Roasters    []string `json:"roasters,omitempty"`
	Origins     []string `json:"origins,omitempty"`
	BrewMethods []string `json:"brew_methods,omitempty"`
	CupNotes    []string `json:"cup_notes,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map keyed by the mapping's field names.
// Empty optional fields are left out.
func (d *SessionDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":           d.ID,
		"session_type": d.SessionType,
		"mode":         d.Mode,
		"created_at":   d.CreatedAt,
		"updated_at":   d.UpdatedAt,
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	lists := map[string][]string{
		"tags":         d.Tags,
		"coffee_names": d.CoffeeNames,
		"roasters":     d.Roasters,
		"origins":      d.Origins,
		"brew_methods": d.BrewMethods,
		"cup_notes":    d.CupNotes,
	}
	for field, values := range lists {
		if len(values) > 0 {
			m[field] = values
		}
	}
	return m
}

// SessionToDocument flattens a session aggregate into a SessionDocument.
func SessionToDocument(s *domain.Session) *SessionDocument {
	doc := &SessionDocument{
		ID:          s.ID,
		SessionType: string(s.SessionType),
		Mode:        string(s.Mode),
		Notes:       s.Notes,
		Tags:        s.Tags,
		CreatedAt:   s.CreatedAt.UnixMilli(),
		UpdatedAt:   s.UpdatedAt.UnixMilli(),
	}
	for _, c := range s.Coffees {
		doc.CoffeeNames = appendNonEmpty(doc.CoffeeNames, c.Name)
		doc.Roasters = appendNonEmpty(doc.Roasters, c.Roaster)
		doc.Origins = appendNonEmpty(doc.Origins, c.Origin)
		doc.BrewMethods = appendNonEmpty(doc.BrewMethods, c.BrewMethod)
		for _, cup := range c.Cups {
			doc.CupNotes = appendNonEmpty(doc.CupNotes, cup.Notes)
		}
	}
	return doc
}

func appendNonEmpty(dst []string, v string) []string {
	if v == "" {
		return dst
	}
	return append(dst, v)
}
