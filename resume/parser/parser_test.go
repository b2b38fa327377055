package parser

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/testpdf"
	"resume-parser/resume/contract"
	"resume-parser/resume/layout"
	"resume-parser/resume/model"
	"resume-parser/resume/sections"
)

func janeDoe() model.Resume {
	want := model.New()
	want.Profile = model.ResumeProfile{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-123-4567"}
	want.Educations = []model.ResumeEducation{{
		School:       "MIT",
		Degree:       "B.S. Computer Science",
		Date:         "2018 - 2022",
		Descriptions: []string{},
	}}
	want.WorkExperiences = []model.ResumeWorkExperience{{
		Company:      "Acme Corp",
		JobTitle:     "Software Engineer",
		Date:         "2022 - Present",
		Descriptions: []string{"Built X", "Shipped Y"},
	}}
	return want
}

func TestParseResumeScenario(t *testing.T) {
	got, err := ParseResume(context.Background(), testpdf.Resume())
	require.NoError(t, err)
	assert.Equal(t, janeDoe(), got)
}

func TestParseIsIdempotent(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	data := testpdf.Resume()

	first, err := p.Parse(context.Background(), data)
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), data)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseGracefulDegradation(t *testing.T) {
	data := testpdf.Build(testpdf.Page{
		{Text: "John Smith", X: 72, Y: 720, Size: 18, Bold: true},
		{Text: "john@smith.io", X: 72, Y: 700, Size: 10},
	})

	got, err := ParseResume(context.Background(), data)
	require.NoError(t, err)

	want := model.New()
	want.Profile.Name = "John Smith"
	want.Profile.Email = "john@smith.io"
	assert.Equal(t, want, got)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"workExperiences":[]`)
}

func TestParseNeverFabricates(t *testing.T) {
	data := testpdf.Resume()
	p, err := New(DefaultConfig())
	require.NoError(t, err)

	analysis, err := p.Inspect(context.Background(), data)
	require.NoError(t, err)

	var items []layout.TextItem
	for _, l := range analysis.Lines {
		items = append(items, l.Items...)
	}
	assert.NoError(t, contract.CheckTraceable(analysis.Resume, items))
}

func TestParseDecodeFailure(t *testing.T) {
	_, err := ParseResume(context.Background(), []byte("definitely not a pdf, just some bytes that look like text"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestParseReader(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)

	got, err := p.ParseReader(context.Background(), strings.NewReader(string(testpdf.Resume())))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Profile.Name)
}

func TestParseCanceled(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := p.ParseItems(ctx, []layout.TextItem{{Text: "Jane Doe", FontSize: 10, Height: 10}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.Resume{}, got)
}

func TestParseConcurrentUse(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	data := testpdf.Resume()

	var wg sync.WaitGroup
	results := make([]model.Resume, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Parse(context.Background(), data)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, janeDoe(), results[i])
	}
}

type staticSource []layout.TextItem

func (s staticSource) TextItems(context.Context, []byte) ([]layout.TextItem, error) {
	return s, nil
}

func TestWithTextSource(t *testing.T) {
	items := staticSource{
		{Text: "Ana Ruiz", FontSize: 18, Height: 18, Bold: true, HasEOL: true},
		{Text: "SKILLS", Y: 40, FontSize: 12, Height: 12, Bold: true, HasEOL: true},
		{Text: "Go, Rust, SQL", Y: 60, FontSize: 10, Height: 10, HasEOL: true},
		{Text: "OBJECTIVE", Y: 80, FontSize: 12, Height: 12, Bold: true, HasEOL: true},
		{Text: "Build reliable systems", Y: 100, FontSize: 10, Height: 10, HasEOL: true},
	}
	p, err := New(DefaultConfig(), WithTextSource(items))
	require.NoError(t, err)

	got, err := p.Parse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", got.Profile.Name)
	assert.Equal(t, "Build reliable systems", got.Profile.Summary)
	assert.Equal(t, []string{"Go, Rust, SQL"}, got.Skills.Descriptions)
	assert.Empty(t, got.Skills.FeaturedSkills)
}

func TestAnalyzeExposesStages(t *testing.T) {
	p, err := New(DefaultConfig())
	require.NoError(t, err)

	analysis, err := p.Inspect(context.Background(), testpdf.Resume())
	require.NoError(t, err)
	require.Len(t, analysis.Sections, 3)
	assert.Equal(t, sections.KindProfile, analysis.Sections[0].Kind)
	assert.Len(t, analysis.Lines, 10)

	total := 0
	for _, s := range analysis.Sections {
		total += len(s.Lines)
	}
	assert.Equal(t, len(analysis.Lines), total)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parser.yaml")
	doc := `
layout:
  line_tolerance_factor: 0.5
sections:
  max_header_words: 3
  keywords:
    publications: custom
fields:
  merge_adjacent_sub_headers: true
  weights:
    regex: 5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Layout.LineToleranceFactor)
	assert.Equal(t, 1.0, cfg.Layout.MinTolerance)
	assert.Equal(t, 3, cfg.Sections.MaxHeaderWords)
	assert.Equal(t, sections.KindCustom, cfg.Sections.Keywords["publications"])
	assert.Equal(t, sections.KindEducation, cfg.Sections.Keywords["education"])
	assert.True(t, cfg.Fields.MergeAdjacentSubHeaders)
	assert.Equal(t, 5.0, cfg.Fields.Weights.Regex)
	assert.Equal(t, 2.0, cfg.Fields.Weights.Positional)
}

func TestDecodeConfigRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeConfig([]byte("layout:\n  bogus: 1\n"))
	assert.Error(t, err)
}

func TestNewRejectsBadPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fields.Patterns.Email = "["
	_, err := New(cfg)
	assert.Error(t, err)
}
