package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"kenya", "washed"}, splitCSV(" kenya, ,washed,"))
	assert.Nil(t, splitCSV(""))
}

func TestParseRoastDate(t *testing.T) {
	d, err := parseRoastDate("2026-09-30")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 30, d.Day())

	d, err = parseRoastDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseRoastDate("30/09/2026")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestParseRoastLevel(t *testing.T) {
	l, err := parseRoastLevel("medium-dark")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, domain.RoastLevel("medium-dark"), *l)

	_, err = parseRoastLevel("charcoal")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
