// Package parser turns PDF résumé bytes into a structured model.Resume.
//
// The pipeline runs strictly forward: text runs are read from the PDF, grouped
// into visual lines, segmented into labeled sections, and each section is
// handed to the field extraction engine. A Parser holds no per-document state
// and may be shared across goroutines.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"resume-parser/internal/extract"
	"resume-parser/resume/fields"
	"resume-parser/resume/layout"
	"resume-parser/resume/model"
	"resume-parser/resume/sections"
)

// DecodeError reports that the input could not be read as a text-layer PDF.
type DecodeError = extract.DecodeError

// IsDecodeError reports whether err wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// TextSource yields positioned text runs for document bytes.
type TextSource interface {
	TextItems(ctx context.Context, data []byte) ([]layout.TextItem, error)
}

// Analysis exposes every intermediate stage of a parse.
type Analysis struct {
	Lines    []layout.Line      `json:"lines"`
	Sections []sections.Section `json:"sections"`
	Resume   model.Resume       `json:"resume"`
}

type Parser struct {
	cfg    Config
	engine *fields.Engine
	source TextSource
}

type Option func(*Parser)

// WithTextSource replaces the PDF reader, e.g. with a pre-extracted item feed.
func WithTextSource(src TextSource) Option {
	return func(p *Parser) {
		if src != nil {
			p.source = src
		}
	}
}

// New builds a Parser. It fails only when a configured pattern does not compile.
func New(cfg Config, opts ...Option) (*Parser, error) {
	engine, err := fields.NewEngine(cfg.Fields)
	if err != nil {
		return nil, fmt.Errorf("build field engine: %w", err)
	}
	p := &Parser{
		cfg:    cfg,
		engine: engine,
		source: extract.NewPDFSource(extract.DefaultOptions()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the configuration the parser was built with.
func (p *Parser) Config() Config {
	return p.cfg
}

// Parse reads PDF bytes and extracts a Resume. The only error besides context
// cancellation is a *DecodeError.
func (p *Parser) Parse(ctx context.Context, data []byte) (model.Resume, error) {
	analysis, err := p.Inspect(ctx, data)
	if err != nil {
		return model.Resume{}, err
	}
	return analysis.Resume, nil
}

// ParseReader reads the whole document from r before parsing it.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (model.Resume, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Resume{}, fmt.Errorf("read document: %w", err)
	}
	return p.Parse(ctx, data)
}

// Inspect parses PDF bytes and keeps the intermediate lines and sections.
func (p *Parser) Inspect(ctx context.Context, data []byte) (Analysis, error) {
	items, err := p.source.TextItems(ctx, data)
	if err != nil {
		return Analysis{}, err
	}
	return p.Analyze(ctx, items)
}

// ParseItems runs the layout stages on already extracted text runs.
func (p *Parser) ParseItems(ctx context.Context, items []layout.TextItem) (model.Resume, error) {
	analysis, err := p.Analyze(ctx, items)
	if err != nil {
		return model.Resume{}, err
	}
	return analysis.Resume, nil
}

// Analyze runs grouping, segmentation and extraction, checking ctx between stages.
func (p *Parser) Analyze(ctx context.Context, items []layout.TextItem) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	lines := layout.GroupLines(items, p.cfg.Layout)

	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	secs := sections.Segment(lines, p.cfg.Sections)

	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	resume := Assemble(secs, p.engine)

	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	return Analysis{Lines: lines, Sections: secs, Resume: resume}, nil
}

var defaultParser = sync.OnceValues(func() (*Parser, error) {
	return New(DefaultConfig())
})

// ParseResume parses PDF bytes with the default configuration.
func ParseResume(ctx context.Context, data []byte) (model.Resume, error) {
	p, err := defaultParser()
	if err != nil {
		return model.Resume{}, err
	}
	return p.Parse(ctx, data)
}
