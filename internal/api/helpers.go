package api

import (
	"strings"
	"time"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

// splitCSV splits a comma-separated query value, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseRoastDate parses a YYYY-MM-DD roast date. An empty string clears it.
func parseRoastDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.RoastDateLayout, s)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"roastDate": "must be a date in YYYY-MM-DD form"})
	}
	return &t, nil
}

// parseRoastLevel converts a roast level. An empty string clears it.
func parseRoastLevel(s string) (*domain.RoastLevel, error) {
	if s == "" {
		return nil, nil
	}
	level := domain.RoastLevel(s)
	if !level.Valid() {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"roastLevel": "must be one of: light medium-light medium medium-dark dark"})
	}
	return &level, nil
}
