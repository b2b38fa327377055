package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "cv.pdf", want: "cv.pdf"},
		{name: "separators", in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{name: "control chars", in: "c\x00v\t.pdf", want: "cv.pdf"},
		{name: "traversal", in: "../cv.pdf", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFileName) {
					t.Fatalf("expected ErrInvalidFileName, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameCapsLength(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("a", 300) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxFileNameLen || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("unexpected result %q (len %d)", got, len(got))
	}
}

func TestHasExtension(t *testing.T) {
	if !HasExtension("CV.PDF", ".pdf") || HasExtension("cv.docx", ".pdf") {
		t.Fatalf("unexpected HasExtension result")
	}
}
