package sections

import (
	"sort"
	"strings"

	"resume-parser/resume/layout"
)

// Section is a contiguous run of lines sharing one label. For every kind but
// Profile the first line is the header that opened it.
type Section struct {
	Kind  Kind          `json:"kind"`
	Name  string        `json:"name"`
	Lines []layout.Line `json:"lines"`
	// BodyFontSize is the document's median line size, carried so later stages
	// can compare typography without seeing other sections.
	BodyFontSize float64 `json:"bodyFontSize"`
}

// HasHeader reports whether the first line is a section header.
func (s Section) HasHeader() bool {
	return s.Kind != KindProfile && len(s.Lines) > 0
}

// Body returns the lines after the header.
func (s Section) Body() []layout.Line {
	if s.HasHeader() {
		return s.Lines[1:]
	}
	return s.Lines
}

// Segment partitions lines into sections. Lines before the first header form the
// Profile section, and the first line never opens a section.
func Segment(lines []layout.Line, cfg Config) []Section {
	if len(lines) == 0 {
		return nil
	}

	body := MedianFontSize(lines)
	current := Section{Kind: KindProfile, BodyFontSize: body}
	var out []Section

	for i, line := range lines {
		if i > 0 && isHeaderCandidate(line, body, cfg) {
			if kind, ok := classify(line.Text(), cfg); ok {
				out = append(out, current)
				current = Section{Kind: kind, Name: line.Text(), BodyFontSize: body}
			}
		}
		current.Lines = append(current.Lines, line)
	}
	return append(out, current)
}

// MedianFontSize is the median of the lines' dominant font sizes.
func MedianFontSize(lines []layout.Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	sizes := make([]float64, 0, len(lines))
	for _, l := range lines {
		sizes = append(sizes, l.DominantFontSize())
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid]
	}
	return (sizes[mid-1] + sizes[mid]) / 2
}

func isHeaderCandidate(line layout.Line, body float64, cfg Config) bool {
	text := line.Text()
	if !layout.HasLetter(text) || layout.HasBullet(text) {
		return false
	}
	if !line.UniformStyle() {
		return false
	}
	if cfg.MaxHeaderWords > 0 && line.WordCount() > cfg.MaxHeaderWords {
		return false
	}
	dominant := line.DominantItem()
	return dominant.Bold || dominant.FontSize > body
}

func classify(text string, cfg Config) (Kind, bool) {
	lower := strings.ToLower(text)
	for _, kind := range cfg.Priority {
		for keyword, k := range cfg.Keywords {
			if k == kind && strings.Contains(lower, strings.ToLower(keyword)) {
				return kind, true
			}
		}
	}
	if cfg.UpperCaseCustom && !layout.IsUpperCase(text) {
		return 0, false
	}
	return KindCustom, true
}
