package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Plain names
		{"two words", "Marilyn Monroe", "Marilyn-Monroe"},
		{"single word", "Voltaire", "Voltaire"},
		{"trailing space", "Jane Austen ", "Jane-Austen"},

		// Periods
		{"initials", "J.R.R. Tolkien", "J-R-R-Tolkien"},
		{"middle initial", "Charles M. Schulz", "Charles-M-Schulz"},
		{"title", "Dr. Seuss", "Dr-Seuss"},
		{"trailing period", "Martin Luther King Jr.", "Martin-Luther-King-Jr"},
		{"mixed run", "A .  B", "A-B"},

		// Diacritics
		{"acute", "André Gide", "Andre-Gide"},
		{"several accents", "Gabriel García Márquez", "Gabriel-Garcia-Marquez"},
		{"cedilla and umlaut", "François Müller", "Francois-Muller"},
		{"decomposed input", "Andre\u0301 Gide", "Andre-Gide"},

		// Apostrophes
		{"apostrophe", "Madeleine L'Engle", "Madeleine-LEngle"},
		{"typographic apostrophe", "Flannery O\u2019Connor", "Flannery-OConnor"},
		{"apostrophe next to space", "O' Neil", "O-Neil"},

		// Whitespace variants
		{"tab and newline", "Mark\t\nTwain", "Mark-Twain"},
		{"no-break space", "Mark\u00a0Twain", "Mark-Twain"},

		// Degenerate input
		{"empty", "", ""},
		{"only periods", "...", ""},
		{"only apostrophes", "''", ""},
		{"only spaces", "   ", ""},
		{"leading separator kept", " Plato", "-Plato"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsStable(t *testing.T) {
	for _, name := range []string{"J.R.R. Tolkien", "André Gide", "Madeleine L'Engle"} {
		once := Normalize(name)
		assert.Equal(t, once, Normalize(once), "normalizing a slug should not change it")
	}
}
