// Package testpdf renders small text-layer PDFs for tests.
//
// Documents use the standard Helvetica faces with WinAnsiEncoding, so ASCII
// text round-trips through a PDF reader without embedded fonts.
package testpdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
)

// Run is one text show operation at an absolute position. Y is measured from
// the bottom of the page as PDF does.
type Run struct {
	Text string
	X    float64
	Y    float64
	Size float64
	Bold bool
}

// Page is the list of runs on one page.
type Page []Run

const (
	pageWidth  = 612
	pageHeight = 792

	regularFont = "F1"
	boldFont    = "F2"
	defaultSize = 10
)

// Build renders the pages into a complete PDF file. It panics when the
// writer fails, which only happens on a broken fixture.
func Build(pages ...Page) []byte {
	data, err := Render(pages...)
	if err != nil {
		panic(fmt.Sprintf("testpdf: %v", err))
	}
	return data
}

// Render is Build with the error returned.
func Render(pages ...Page) ([]byte, error) {
	b := builder.NewBuilder().
		RegisterFont(regularFont, &semantic.Font{Subtype: "Type1", BaseFont: "Helvetica", Encoding: "WinAnsiEncoding"}).
		RegisterFont(boldFont, &semantic.Font{Subtype: "Type1", BaseFont: "Helvetica-Bold", Encoding: "WinAnsiEncoding"})

	for _, page := range pages {
		pb := b.NewPage(pageWidth, pageHeight)
		for _, r := range page {
			pb = pb.DrawText(r.Text, r.X, r.Y, textOptions(r))
		}
		pb.Finish()
	}

	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if err := w.Write(context.Background(), doc, &buf, writer.Config{Deterministic: true}); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func textOptions(r Run) builder.TextOptions {
	opts := builder.TextOptions{Font: regularFont, FontSize: r.Size}
	if r.Bold {
		opts.Font = boldFont
	}
	if opts.FontSize == 0 {
		opts.FontSize = defaultSize
	}
	return opts
}

// Resume returns a one-page résumé with a profile, an education entry and a
// work entry with two bullets.
func Resume() []byte {
	return Build(Page{
		{Text: "Jane Doe", X: 72, Y: 720, Size: 20, Bold: true},
		{Text: "jane@example.com", X: 72, Y: 696, Size: 10},
		{Text: "555-123-4567", X: 300, Y: 696, Size: 10},
		{Text: "EDUCATION", X: 72, Y: 660, Size: 12, Bold: true},
		{Text: "MIT", X: 72, Y: 642, Size: 10, Bold: true},
		{Text: "2018 - 2022", X: 450, Y: 642, Size: 10},
		{Text: "B.S. Computer Science", X: 72, Y: 628, Size: 10},
		{Text: "WORK EXPERIENCE", X: 72, Y: 596, Size: 12, Bold: true},
		{Text: "Acme Corp", X: 72, Y: 578, Size: 10, Bold: true},
		{Text: "2022 - Present", X: 450, Y: 578, Size: 10},
		{Text: "Software Engineer", X: 72, Y: 564, Size: 10},
		{Text: "- Built X", X: 80, Y: 550, Size: 10},
		{Text: "- Shipped Y", X: 80, Y: 536, Size: 10},
	})
}
