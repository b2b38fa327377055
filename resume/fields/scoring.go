package fields

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"resume-parser/resume/layout"
)

// separators are trimmed from the edges of a value once a pattern match has
// been cut out of its run.
const separators = " \t,;|·•–—-:/"

// candidate is a text item competing for fields within one entry.
type candidate struct {
	item layout.TextItem
	line int
	// rest is the text not yet claimed by a field.
	rest  string
	taken bool
}

func (c *candidate) available() bool {
	return !c.taken && c.rest != ""
}

// pool is the candidate set of a single entry or profile.
type pool struct {
	cands   []*candidate
	maxFont float64
}

func newPool(lines []layout.Line) *pool {
	p := &pool{}
	for i, line := range lines {
		for _, item := range line.Items {
			if item.IsBlank() {
				continue
			}
			p.cands = append(p.cands, &candidate{item: item, line: i, rest: layout.NormalizeSpace(item.Text)})
			p.maxFont = math.Max(p.maxFont, item.FontSize)
		}
	}
	return p
}

// feature scores a candidate between 0 and 1; the rule multiplies it by weight.
type feature struct {
	weight float64
	eval   func(c *candidate, p *pool) float64
}

type rule struct {
	features []feature
	minScore float64
	// wholeText rules claim the entire remaining text and skip bullet-led runs.
	wholeText bool
}

func (r rule) score(c *candidate, p *pool) float64 {
	var total float64
	for _, f := range r.features {
		total += f.weight * f.eval(c, p)
	}
	return total
}

// best returns the highest scoring available candidate. Ties keep the earliest.
func (p *pool) best(r rule) *candidate {
	var (
		winner *candidate
		top    = math.Inf(-1)
	)
	for _, c := range p.cands {
		if !c.available() {
			continue
		}
		if r.wholeText && layout.HasBullet(c.rest) {
			continue
		}
		if s := r.score(c, p); s > top {
			winner, top = c, s
		}
	}
	if winner == nil || top < r.minScore {
		return nil
	}
	return winner
}

// take claims the whole remaining text of the winning candidate.
func (p *pool) take(r rule) string {
	c := p.best(r)
	if c == nil {
		return ""
	}
	c.taken = true
	return strings.Trim(c.rest, separators)
}

// extract claims only the match of cut inside the winning candidate. The text
// around the cut stays available as separate fragments of the same run. When
// value is set, the returned text is its match within the cut.
func (p *pool) extract(r rule, cut, value *regexp.Regexp) string {
	c := p.best(r)
	if c == nil {
		return ""
	}
	loc := cut.FindStringIndex(c.rest)
	if loc == nil {
		return ""
	}
	matched := c.rest[loc[0]:loc[1]]
	if value != nil {
		if v := value.FindString(matched); v != "" {
			matched = v
		}
	}
	p.split(c, loc)
	return strings.TrimSpace(matched)
}

// split replaces c with the fragments before and after loc.
func (p *pool) split(c *candidate, loc []int) {
	var fragments []*candidate
	for _, text := range []string{c.rest[:loc[0]], c.rest[loc[1]:]} {
		if text = strings.Trim(text, separators); text != "" {
			fragments = append(fragments, &candidate{item: c.item, line: c.line, rest: text})
		}
	}
	for i, existing := range p.cands {
		if existing == c {
			p.cands = slices.Replace(p.cands, i, i+1, fragments...)
			return
		}
	}
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

func matches(re *regexp.Regexp, weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, _ *pool) float64 {
		return boolScore(re.MatchString(c.rest))
	}}
}

func onLine(n int, weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, _ *pool) float64 {
		return boolScore(c.line == n)
	}}
}

func withinLines(n int, weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, _ *pool) float64 {
		return boolScore(c.line < n)
	}}
}

func isBold(weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, _ *pool) float64 {
		return boolScore(c.item.Bold)
	}}
}

// fontRank favors larger type, continuously relative to the largest candidate.
func fontRank(weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, p *pool) float64 {
		if p.maxFont <= 0 {
			return 0
		}
		return c.item.FontSize / p.maxFont
	}}
}

func longerThan(words int, weight float64) feature {
	return feature{weight: weight, eval: func(c *candidate, _ *pool) float64 {
		return boolScore(layout.WordCount(c.rest) > words)
	}}
}
