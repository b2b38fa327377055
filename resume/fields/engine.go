// Package fields extracts typed résumé fields from segmented sections by
// scoring candidate text runs against per-kind rule tables.
package fields

import (
	"strings"

	"resume-parser/resume/layout"
	"resume-parser/resume/model"
	"resume-parser/resume/sections"
)

// Engine holds compiled rule tables. It is immutable and safe for concurrent use.
type Engine struct {
	cfg Config
	re  *compiledPatterns
}

// NewEngine compiles the configured patterns.
func NewEngine(cfg Config) (*Engine, error) {
	re, err := cfg.Patterns.compile()
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, re: re}, nil
}

// Subsections splits an entry section body into one run of lines per entry.
func (e *Engine) Subsections(sec sections.Section) []Subsection {
	return SplitSubsections(sec.Body(), sec.BodyFontSize, e.cfg.MergeAdjacentSubHeaders)
}

func (e *Engine) dateRule() rule {
	return rule{
		features: []feature{matches(e.re.date, e.cfg.Weights.Regex)},
		minScore: e.cfg.RegexMinScore,
	}
}

// Profile extracts contact fields, the name, and a summary from leftover lines.
// Summary is left empty when the profile holds no long free-text line; callers
// fill it from an objective section instead.
func (e *Engine) Profile(sec sections.Section) model.ResumeProfile {
	w := e.cfg.Weights
	p := newPool(sec.Lines)
	var profile model.ResumeProfile
	profile.Email = p.extract(rule{
		features: []feature{matches(e.re.email, w.Regex)},
		minScore: e.cfg.RegexMinScore,
	}, e.re.email, nil)
	profile.Phone = p.extract(rule{
		features: []feature{matches(e.re.phone, w.Regex)},
		minScore: e.cfg.RegexMinScore,
	}, e.re.phone, nil)
	profile.URL = p.extract(rule{
		features: []feature{
			matches(e.re.url, w.Regex),
			matches(e.re.email, -w.Regex),
		},
		minScore: e.cfg.RegexMinScore,
	}, e.re.url, nil)
	profile.Location = p.extract(rule{
		features: []feature{matches(e.re.location, w.Regex)},
		minScore: e.cfg.RegexMinScore,
	}, e.re.location, nil)
	profile.Name = p.take(rule{
		features: []feature{
			onLine(0, w.Positional),
			fontRank(w.Typographic),
			matches(e.re.personName, w.Keyword),
			matches(e.re.email, -w.Regex),
			matches(e.re.phone, -w.Regex),
			matches(e.re.url, -w.Regex),
			longerThan(4, -w.Positional),
		},
		minScore:  e.cfg.MinScore,
		wholeText: true,
	})
	profile.Summary = e.profileSummary(p)
	return profile
}

// profileSummary joins the first run of consecutive lines that are wholly
// unclaimed and long enough to read as prose.
func (e *Engine) profileSummary(p *pool) string {
	byLine := map[int][]*candidate{}
	var order []int
	for _, c := range p.cands {
		if _, ok := byLine[c.line]; !ok {
			order = append(order, c.line)
		}
		byLine[c.line] = append(byLine[c.line], c)
	}

	var (
		parts   []string
		claimed []*candidate
		prev    = -2
	)
	for _, ln := range order {
		text, ok := untouchedLine(byLine[ln])
		if !ok || layout.WordCount(text) < e.cfg.SummaryMinWords {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if len(parts) > 0 && ln != prev+1 {
			break
		}
		parts = append(parts, text)
		claimed = append(claimed, byLine[ln]...)
		prev = ln
	}
	for _, c := range claimed {
		c.taken = true
	}
	return strings.Join(parts, " ")
}

func untouchedLine(cands []*candidate) (string, bool) {
	texts := make([]string, 0, len(cands))
	for _, c := range cands {
		if c.taken || c.rest != layout.NormalizeSpace(c.item.Text) {
			return "", false
		}
		texts = append(texts, c.rest)
	}
	return layout.NormalizeSpace(strings.Join(texts, " ")), true
}

// Summary joins the body of an objective section.
func (e *Engine) Summary(sec sections.Section) string {
	texts := make([]string, 0, len(sec.Body()))
	for _, l := range sec.Body() {
		if t := l.Text(); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

// WorkExperiences extracts one entry per subsection.
func (e *Engine) WorkExperiences(sec sections.Section) []model.ResumeWorkExperience {
	w := e.cfg.Weights
	titleRule := rule{
		features: []feature{
			matches(e.re.jobTitle, w.Regex),
			withinLines(2, w.Positional),
			isBold(-w.Typographic),
			matches(e.re.companySuffix, -w.Keyword),
			longerThan(8, -w.Positional),
		},
		minScore:  e.cfg.MinScore,
		wholeText: true,
	}
	companyRule := rule{
		features: []feature{
			isBold(w.Typographic),
			onLine(0, w.Positional),
			withinLines(2, w.Positional/2),
			matches(e.re.companySuffix, w.Keyword),
			matches(e.re.jobTitle, -w.Regex),
			longerThan(6, -w.Positional),
		},
		minScore:  w.Positional / 2,
		wholeText: true,
	}

	out := []model.ResumeWorkExperience{}
	for _, sub := range e.Subsections(sec) {
		p := newPool(sub.Lines)
		entry := model.ResumeWorkExperience{}
		entry.Date = p.extract(e.dateRule(), e.re.date, nil)
		// Company goes first so a bold employer without a suffix is not
		// claimed as the title.
		entry.Company = p.take(companyRule)
		entry.JobTitle = p.take(titleRule)
		entry.Descriptions = p.descriptions()
		if entry.Company == "" && entry.JobTitle == "" && entry.Date == "" && len(entry.Descriptions) == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Educations extracts one entry per subsection.
func (e *Engine) Educations(sec sections.Section) []model.ResumeEducation {
	w := e.cfg.Weights
	gpaRule := rule{
		features: []feature{
			matches(e.re.gpaKeyword, w.Keyword),
			matches(e.re.grade, w.Regex),
		},
		minScore: w.Keyword + w.Regex,
	}
	degreeRule := rule{
		features: []feature{
			matches(e.re.degree, w.Keyword),
			matches(e.re.school, -w.Keyword),
		},
		minScore:  e.cfg.MinScore,
		wholeText: true,
	}
	schoolRule := rule{
		features: []feature{
			onLine(0, w.Positional),
			isBold(w.Typographic),
			matches(e.re.school, w.Keyword),
			matches(e.re.degree, -w.Keyword),
			longerThan(6, -w.Positional),
		},
		minScore:  e.cfg.MinScore,
		wholeText: true,
	}

	out := []model.ResumeEducation{}
	for _, sub := range e.Subsections(sec) {
		p := newPool(sub.Lines)
		entry := model.ResumeEducation{}
		entry.Date = p.extract(e.dateRule(), e.re.date, nil)
		entry.GPA = p.extract(gpaRule, e.re.gpaSpan, e.re.grade)
		entry.Degree = p.take(degreeRule)
		entry.School = p.take(schoolRule)
		entry.Descriptions = p.descriptions()
		if entry.School == "" && entry.Degree == "" && entry.Date == "" && entry.GPA == "" && len(entry.Descriptions) == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Projects extracts one entry per subsection.
func (e *Engine) Projects(sec sections.Section) []model.ResumeProject {
	w := e.cfg.Weights
	projectRule := rule{
		features: []feature{
			onLine(0, w.Positional),
			isBold(w.Typographic),
			longerThan(8, -w.Positional),
		},
		minScore:  e.cfg.MinScore,
		wholeText: true,
	}

	out := []model.ResumeProject{}
	for _, sub := range e.Subsections(sec) {
		p := newPool(sub.Lines)
		entry := model.ResumeProject{}
		entry.Date = p.extract(e.dateRule(), e.re.date, nil)
		entry.Project = p.take(projectRule)
		entry.Descriptions = p.descriptions()
		if entry.Project == "" && entry.Date == "" && len(entry.Descriptions) == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Skills returns every body line verbatim.
func (e *Engine) Skills(sec sections.Section) []string {
	out := make([]string, 0, len(sec.Body()))
	for _, l := range sec.Body() {
		if t := l.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Custom keeps the header as the name and one description per body line.
func (e *Engine) Custom(sec sections.Section) model.ResumeCustom {
	return model.ResumeCustom{
		Name:         sec.Name,
		Descriptions: lineDescriptions(sec.Body()),
	}
}
