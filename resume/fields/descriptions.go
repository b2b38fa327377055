package fields

import (
	"strings"

	"resume-parser/resume/layout"
)

type piece struct {
	line   int
	text   string
	bullet bool
}

func (p *pool) leftovers() []piece {
	var out []piece
	for _, c := range p.cands {
		if !c.available() {
			continue
		}
		bullet := layout.HasBullet(c.rest)
		text := c.rest
		if bullet {
			text = layout.StripBullet(text)
		}
		out = append(out, piece{line: c.line, text: text, bullet: bullet})
	}
	return out
}

// descriptions turns unclaimed text into description strings. When any run is
// bullet-led, bullets open descriptions and other runs continue the current one.
// Otherwise each line is one description.
func (p *pool) descriptions() []string {
	pieces := p.leftovers()

	hasBullets := false
	for _, pc := range pieces {
		if pc.bullet {
			hasBullets = true
			break
		}
	}

	out := []string{}
	if hasBullets {
		open := false
		for _, pc := range pieces {
			if pc.bullet || !open {
				out = append(out, pc.text)
				open = true
				continue
			}
			out[len(out)-1] = joinText(out[len(out)-1], pc.text)
		}
	} else {
		lastLine := -1
		for _, pc := range pieces {
			if pc.line != lastLine {
				out = append(out, pc.text)
				lastLine = pc.line
				continue
			}
			out[len(out)-1] = joinText(out[len(out)-1], pc.text)
		}
	}
	return compact(out)
}

func joinText(a, b string) string {
	return layout.NormalizeSpace(a + " " + b)
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// lineDescriptions makes one description per line with bullets stripped.
func lineDescriptions(lines []layout.Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, layout.StripBullet(l.Text()))
	}
	return compact(out)
}
