package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"resume-parser/resume/layout"
)

const defaultPageHeight = 792.0

// ErrNoTextLayer is wrapped by DecodeError when no page carries extractable text.
var ErrNoTextLayer = errors.New("no extractable text layer")

// DecodeError reports bytes that cannot be read as a text-layer PDF.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode pdf: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Options tune how glyphs are merged into runs. Gaps are in multiples of the font size.
type Options struct {
	// SpaceGap is the horizontal gap above which a space is inserted into a run.
	SpaceGap float64
	// BreakGap is the horizontal gap above which the run is split.
	BreakGap float64
	// BaselineTolerance is the vertical offset still treated as the same baseline.
	BaselineTolerance float64
}

func DefaultOptions() Options {
	return Options{
		SpaceGap:          0.15,
		BreakGap:          2.0,
		BaselineTolerance: 0.2,
	}
}

// PDFSource reads positioned text runs with github.com/ledongthuc/pdf.
type PDFSource struct {
	opts Options
}

func NewPDFSource(opts Options) PDFSource {
	return PDFSource{opts: opts}
}

// TextItems reads the glyph stream of every page and merges it into text runs
// in stream order. Y is flipped to grow downward and pages are stacked.
func TextItems(ctx context.Context, data []byte) ([]layout.TextItem, error) {
	return NewPDFSource(DefaultOptions()).TextItems(ctx, data)
}

// TextItems implements parser.TextSource.
func (s PDFSource) TextItems(ctx context.Context, data []byte) (items []layout.TextItem, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Err: errors.New("empty document")}
	}

	// the decoder panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			items = nil
			err = &DecodeError{Err: fmt.Errorf("malformed pdf: %v", rec)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	var offset float64
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		height := pageHeight(page.V)
		items = append(items, s.mergeGlyphs(page.Content().Text, i-1, height, offset)...)
		offset += height
	}

	if !hasVisibleText(items) {
		return nil, &DecodeError{Err: ErrNoTextLayer}
	}
	return items, nil
}

// pageHeight reads MediaBox, following inherited values up the page tree.
func pageHeight(v pdf.Value) float64 {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

type run struct {
	text     strings.Builder
	font     string
	size     float64
	baseline float64
	x0, x1   float64
}

func (s PDFSource) sameRun(r *run, g pdf.Text) bool {
	size := math.Abs(g.FontSize)
	if g.Font != r.font || math.Abs(size-r.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-r.baseline) > s.opts.BaselineTolerance*r.size {
		return false
	}
	gap := g.X - r.x1
	return gap >= -r.size && gap <= s.opts.BreakGap*r.size
}

func (s PDFSource) mergeGlyphs(glyphs []pdf.Text, pageIndex int, height, offset float64) []layout.TextItem {
	var (
		out []layout.TextItem
		cur *run
	)

	flush := func(eol bool) {
		if cur == nil {
			return
		}
		text := layout.NormalizeSpace(norm.NFKC.String(cur.text.String()))
		if text == "" {
			// a blank run still ends the visual line it sits on
			if eol && len(out) > 0 {
				out[len(out)-1].HasEOL = true
			}
			cur = nil
			return
		}
		out = append(out, layout.TextItem{
			Text:     text,
			X:        cur.x0,
			Y:        offset + height - cur.baseline - cur.size,
			Width:    cur.x1 - cur.x0,
			Height:   cur.size,
			FontName: cleanFontName(cur.font),
			FontSize: cur.size,
			Bold:     layout.IsBoldFont(cur.font),
			HasEOL:   eol,
			Page:     pageIndex,
		})
		cur = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && s.sameRun(cur, g) {
			gap := g.X - cur.x1
			if gap > s.opts.SpaceGap*cur.size && !strings.HasSuffix(cur.text.String(), " ") && g.S != " " {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(g.S)
			cur.x1 = math.Max(cur.x1, g.X+g.W)
			continue
		}
		if cur != nil {
			flush(math.Abs(g.Y-cur.baseline) > s.opts.BaselineTolerance*cur.size)
		}
		size := math.Abs(g.FontSize)
		cur = &run{font: g.Font, size: size, baseline: g.Y, x0: g.X, x1: g.X + g.W}
		cur.text.WriteString(g.S)
	}
	flush(true)

	return out
}

// cleanFontName drops the six-letter subset prefix ("ABCDEF+Roboto-Bold").
func cleanFontName(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

func hasVisibleText(items []layout.TextItem) bool {
	for _, item := range items {
		if !item.IsBlank() {
			return true
		}
	}
	return false
}
