package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "WASHED", "washed"},
		{"spaces to dashes", "washed process", "washed-process"},
		{"underscores to dashes", "natural_anaerobic", "natural-anaerobic"},
		{"slashes to dashes", "ethiopia/yirgacheffe", "ethiopia-yirgacheffe"},
		{"trim whitespace", "  gesha  ", "gesha"},
		{"punctuation removal", "Competition!!", "competition"},
		{"collapse dashes", "light--roast", "light-roast"},
		{"trim dashes", "--espresso--", "espresso"},
		{"numbers allowed", "Lot 42", "lot-42"},
		{"empty string", "", ""},
		{"only special chars", "!@#", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTag(tt.input))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Washed", "gesha", "washed", "  ", "!!", "Light Roast"})

	assert.Equal(t, []string{"gesha", "light-roast", "washed"}, got)
}

func TestNormalizeTags_Empty(t *testing.T) {
	assert.Empty(t, NormalizeTags(nil))
}
