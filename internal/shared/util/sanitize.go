package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that are empty or try to escape the store root.
var ErrInvalidFileName = errors.New("invalid file name")

const maxFileNameLen = 128

// SanitizeFileName removes path separators and control characters, rejects traversal
// patterns, and caps the length while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := filepath.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = strings.ToValidUTF8(s[:maxFileNameLen-len(ext)], "") + ext
	}
	return s, nil
}

// HasExtension reports whether name ends with ext, ignoring case.
func HasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
