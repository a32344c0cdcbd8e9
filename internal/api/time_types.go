package api

import (
	"fmt"
	"strconv"
	"time"
)

// parseFlexTime reads a timestamp given as:
// - RFC3339 string: "2024-01-15T10:30:00Z"
// - RFC3339 with fractional seconds
// - Epoch milliseconds: "1705314600000"
//
// The result is in UTC.
func parseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

// parseOptionalTime parses s with parseFlexTime. An empty s yields nil.
func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseFlexTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
