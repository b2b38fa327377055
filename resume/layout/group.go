package layout

import (
	"math"
	"sort"
)

// Config tunes line clustering.
type Config struct {
	// LineToleranceFactor scales the dominant font size of the open line into the
	// maximum vertical center distance for joining it.
	LineToleranceFactor float64 `yaml:"line_tolerance_factor" json:"lineToleranceFactor"`
	// MinTolerance floors the tolerance in points.
	MinTolerance float64 `yaml:"min_tolerance" json:"minTolerance"`
}

// DefaultConfig returns sensible defaults for single-column résumés.
func DefaultConfig() Config {
	return Config{
		LineToleranceFactor: 1.0 / 3.0,
		MinTolerance:        1,
	}
}

func (c Config) tolerance(fontSize float64) float64 {
	return math.Max(c.LineToleranceFactor*fontSize, c.MinTolerance)
}

// GroupLines clusters items in stream order into visual lines.
//
// An item joins the open line when it is on the same page and its vertical center
// lies within tolerance of the center of the open line's dominant item. An item
// with HasEOL closes the line after it is appended. Closed lines are sorted by X.
func GroupLines(items []TextItem, cfg Config) []Line {
	if len(items) == 0 {
		return nil
	}

	var (
		lines []Line
		open  []TextItem
	)
	commit := func() {
		if len(open) == 0 {
			return
		}
		sorted := make([]TextItem, len(open))
		copy(sorted, open)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].X < sorted[j].X
		})
		lines = append(lines, Line{Items: sorted})
		open = nil
	}

	for _, item := range items {
		if len(open) > 0 {
			ref := Line{Items: open}.DominantItem()
			switch {
			case item.Page != open[len(open)-1].Page:
				commit()
			case ref.IsBlank():
				// blank runs never anchor a line
			case math.Abs(item.CenterY()-ref.CenterY()) >= cfg.tolerance(ref.FontSize):
				commit()
			}
		}
		open = append(open, item)
		if item.HasEOL {
			commit()
		}
	}
	commit()

	return lines
}
