package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScores_Total(t *testing.T) {
	s := Scores{
		Acidity:   IntPtr(4),
		Sweetness: IntPtr(5),
		Body:      IntPtr(3),
		Clarity:   IntPtr(4),
		Finish:    IntPtr(3),
		Enjoyment: IntPtr(4),
	}
	assert.Equal(t, 23, s.Total())

	s.Enjoyment = nil
	assert.Equal(t, 19, s.Total(), "unset ratings count as zero")
	assert.Equal(t, 0, Scores{}.Total())
	assert.True(t, Scores{}.IsEmpty())
}

func TestScores_ValidateBounds(t *testing.T) {
	for v := MinScore; v <= MaxScore; v++ {
		assert.NoError(t, Scores{Clarity: IntPtr(v)}.Validate())
	}
	for _, v := range []int{-1, 0, 6, 100} {
		err := Scores{Clarity: IntPtr(v)}.Validate()
		var rangeErr *ScoreRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, AttrClarity, rangeErr.Attribute)
		assert.Equal(t, v, rangeErr.Value)
	}
}

func TestScoreUpdate_Merge(t *testing.T) {
	current := Scores{Acidity: IntPtr(2), Enjoyment: IntPtr(5)}

	merged := ScoreUpdate{Body: IntPtr(4)}.Merge(current)

	assert.Equal(t, 2, *merged.Acidity, "existing value kept")
	assert.Equal(t, 4, *merged.Body, "update applied")
	assert.Equal(t, DefaultScore, *merged.Sweetness, "never-set required rating defaults")
	assert.Equal(t, DefaultScore, *merged.Clarity)
	assert.Equal(t, DefaultScore, *merged.Finish)
	assert.Equal(t, 5, *merged.Enjoyment)
}

func TestScoreUpdate_MergeLeavesEnjoymentUnset(t *testing.T) {
	merged := ScoreUpdate{Acidity: IntPtr(1)}.Merge(Scores{})
	assert.Nil(t, merged.Enjoyment)
}

func TestScoreUpdate_MergeDoesNotAlias(t *testing.T) {
	v := 4
	update := ScoreUpdate{Acidity: &v}
	merged := update.Merge(Scores{})
	v = 1
	assert.Equal(t, 4, *merged.Acidity)
}

func TestCup_FlavorIDs(t *testing.T) {
	c := Cup{Flavors: []SelectedFlavor{
		{FlavorID: 12, Intensity: 3},
		{FlavorID: 4, Intensity: 5, Dominant: true},
		{FlavorID: 12, Intensity: 1},
	}}
	assert.Equal(t, []int{12, 4}, c.FlavorIDs())
}

func TestSelectedFlavor_Validate(t *testing.T) {
	assert.NoError(t, SelectedFlavor{FlavorID: 1, Intensity: 5}.Validate())
	assert.Error(t, SelectedFlavor{FlavorID: 1, Intensity: 0}.Validate())
	assert.Error(t, SelectedFlavor{FlavorID: 0, Intensity: 3}.Validate())
}
