package layout

import (
	"strings"
	"unicode/utf8"
)

// bulletRunes are the glyphs résumé templates use to lead list entries.
const bulletRunes = "•●○◦▪▫■□‣⁃∙·*-–—➢➤►▸❖✓✔"

// HasBullet reports whether s starts with a bullet marker.
func HasBullet(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	return r != utf8.RuneError && strings.ContainsRune(bulletRunes, r)
}

// IsBulletOnly reports whether s is made of bullet markers alone.
func IsBulletOnly(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && StripBullet(trimmed) == ""
}

// StripBullet removes leading bullet markers and the whitespace after them.
func StripBullet(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), bulletRunes+" \t"))
}
