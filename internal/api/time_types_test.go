package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexTime(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2024-01-15T10:30:00Z", want},
		{"rfc3339 nano", "2024-01-15T10:30:00.5Z", want.Add(500 * time.Millisecond)},
		{"offset is converted to utc", "2024-01-15T12:30:00+02:00", want},
		{"epoch millis", "1705314600000", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlexTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseFlexTime_Invalid(t *testing.T) {
	_, err := parseFlexTime("yesterday")
	assert.Error(t, err)
}

func TestParseOptionalTime(t *testing.T) {
	got, err := parseOptionalTime("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseOptionalTime("1705314600000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1705314600000), got.UnixMilli())
}
