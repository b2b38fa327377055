// Package layout turns positioned PDF text runs into visual lines.
package layout

import (
	"strings"
	"unicode"
)

// TextItem is one positioned run of uninterrupted text as emitted by the page renderer.
// Y grows downward and pages are stacked, so Y is monotonic across pages.
type TextItem struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontName string  `json:"fontName"`
	FontSize float64 `json:"fontSizePt"`
	Bold     bool    `json:"bold"`
	HasEOL   bool    `json:"hasEOL"`
	Page     int     `json:"page"`
}

// CenterY returns the vertical center of the run.
func (t TextItem) CenterY() float64 {
	return t.Y + t.Height/2
}

// IsBlank reports whether the run carries no visible characters.
func (t TextItem) IsBlank() bool {
	return strings.TrimSpace(t.Text) == ""
}

// Len returns the rune length of the trimmed text.
func (t TextItem) Len() int {
	return len([]rune(strings.TrimSpace(t.Text)))
}

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demibold", "extrabold"}

// IsBoldFont reports whether a font name carries a bold weight marker.
func IsBoldFont(fontName string) bool {
	lower := strings.ToLower(fontName)
	for _, marker := range boldMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// NormalizeSpace collapses runs of whitespace into single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsUpperCase reports whether s has letters and all of them are upper case.
func IsUpperCase(s string) bool {
	if !HasLetter(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
