package printing

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// fixedMeasurer gives every rune half the font size, so widths are easy to
// predict in tests
type fixedMeasurer struct{}

func (fixedMeasurer) Width(f Font, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size * 0.5
}

func TestWrap(t *testing.T) {
	m := fixedMeasurer{}
	font := regular(10) // 5pt per rune

	tests := []struct {
		name     string
		text     string
		width    float64
		expected []string
	}{
		{"empty", "", 100, nil},
		{"blank", "  \n ", 100, nil},
		{"fits", "aaa bbb", 100, []string{"aaa bbb"}},
		{"exact width", "aaa bbb ccc", 35, []string{"aaa bbb", "ccc"}},
		{"long word", "abcdefghij", 20, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "ab abcdefgh", 20, []string{"ab", "abcd", "efgh"}},
		{"explicit newlines", "a\n\nb", 100, []string{"a", "", "b"}},
		{"crlf", "a\r\nb", 100, []string{"a", "b"}},
		{"narrow column", "abc", 1, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(m, font, tt.text, tt.width))
		})
	}
}

func TestTextHeight(t *testing.T) {
	m := fixedMeasurer{}
	assert.Zero(t, TextHeight(m, regular(10), "", 100))
	assert.InDelta(t, 24.0, TextHeight(m, regular(10), "aaa bbb ccc", 35), 1e-9)
}

func TestFontMeasurer(t *testing.T) {
	m := NewFontMeasurer()

	narrow := m.Width(regular(10), "i")
	wide := m.Width(regular(10), "W")
	assert.Greater(t, wide, narrow)
	assert.Greater(t, m.Width(bold(10), "ABC"), m.Width(regular(10), "ABC"))
	assert.InDelta(t, 2*m.Width(regular(10), "A"), m.Width(regular(20), "A"), 1e-9)

	// cp1252 letters and runes outside it both measure without panicking
	assert.Greater(t, m.Width(regular(10), "ÑANDÚ"), 0.0)
	assert.Greater(t, m.Width(regular(10), "✓ 漢字"), 0.0)
}
