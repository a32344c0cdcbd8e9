package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	domainerrors "github.com/cupnotes/cupnotes-server/internal/errors"
	"github.com/cupnotes/cupnotes-server/internal/validation"
)

type coffeeRequest struct {
	Name       string                  `json:"name" validate:"required,max=120"`
	RoastLevel string                  `json:"roastLevel,omitempty" validate:"omitempty,oneof=light medium-light medium medium-dark dark"`
	Flavors    []domain.SelectedFlavor `json:"flavors" validate:"max=10,dive"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	return fields
}

func TestValidator_ScoreUpdate(t *testing.T) {
	v := validation.New()

	t.Run("in range", func(t *testing.T) {
		for score := domain.MinScore; score <= domain.MaxScore; score++ {
			assert.NoError(t, v.Validate(domain.ScoreUpdate{Acidity: domain.IntPtr(score)}))
		}
	})

	t.Run("empty update", func(t *testing.T) {
		assert.NoError(t, v.Validate(domain.ScoreUpdate{}))
	})

	t.Run("out of range", func(t *testing.T) {
		err := v.Validate(domain.ScoreUpdate{
			Acidity: domain.IntPtr(0),
			Finish:  domain.IntPtr(6),
		})
		fields := details(t, err)
		assert.Equal(t, "must be at least 1", fields["acidity"])
		assert.Equal(t, "must be at most 5", fields["finish"])
	})
}

func TestValidator_NestedFlavors(t *testing.T) {
	v := validation.New()

	err := v.Validate(coffeeRequest{
		Name:    "Kochere",
		Flavors: []domain.SelectedFlavor{{FlavorID: 3, Intensity: 9}},
	})
	fields := details(t, err)
	assert.Contains(t, fields, "flavors[0].intensity")
}

func TestValidator_RequiredAndOneOf(t *testing.T) {
	v := validation.New()

	err := v.Validate(coffeeRequest{RoastLevel: "burnt"})
	fields := details(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Contains(t, fields["roastLevel"], "must be one of")
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("limit", 10, "min=1,max=100"))
	fields := details(t, v.Var("limit", 0, "min=1,max=100"))
	assert.Equal(t, "must be at least 1", fields["limit"])
}
