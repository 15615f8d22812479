package printing

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// Core font families available without embedding
const (
	FontHelvetica = "Helvetica"
)

// Font identifies a text style
type Font struct {
	Family string
	Style  string // "", "B", "U" or a combination
	Size   float64
}

// LineHeight is the vertical advance of one wrapped line
func (f Font) LineHeight() float64 {
	return f.Size * 1.2
}

func regular(size float64) Font { return Font{Family: FontHelvetica, Size: size} }
func bold(size float64) Font    { return Font{Family: FontHelvetica, Style: "B", Size: size} }

// TextMeasurer reports the advance width of a string, in points
type TextMeasurer interface {
	Width(font Font, text string) float64
}

// FontMeasurer measures text with the core font metrics of fpdf, after the
// same cp1252 translation the drawing pass applies. It is not safe for
// concurrent use; every render creates its own.
type FontMeasurer struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewFontMeasurer creates a measurer backed by a scratch document
func NewFontMeasurer() *FontMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	return &FontMeasurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Width implements TextMeasurer
func (m *FontMeasurer) Width(font Font, text string) float64 {
	m.pdf.SetFont(font.Family, font.Style, font.Size)
	return m.pdf.GetStringWidth(m.translate(text))
}

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept, words longer than a line are split by character, and empty text
// yields no lines.
func Wrap(m TextMeasurer, font Font, text string, width float64) []string {
	text = strings.ReplaceAll(strings.TrimRight(text, " \t\r\n"), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.Width(font, candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for _, piece := range splitWord(m, font, word, width) {
				if current != "" {
					lines = append(lines, current)
				}
				current = piece
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// splitWord cuts a single word into chunks that fit width. A chunk always
// holds at least one rune so the loop terminates on very narrow columns.
func splitWord(m TextMeasurer, font Font, word string, width float64) []string {
	if m.Width(font, word) <= width {
		return []string{word}
	}
	var pieces []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.Width(font, string(runes[start:end+1])) <= width {
			end++
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// TextHeight is the height of text wrapped at width
func TextHeight(m TextMeasurer, font Font, text string, width float64) float64 {
	return float64(len(Wrap(m, font, text, width))) * font.LineHeight()
}
