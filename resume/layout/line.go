package layout

import (
	"math"
	"strings"
)

// styleTolerance is the font-size difference under which two runs count as one style.
const styleTolerance = 0.1

// BBox is an axis-aligned bounding box in page coordinates.
type BBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Line is a visual row of text items sorted left to right.
type Line struct {
	Items []TextItem `json:"items"`
}

// Text joins the non-blank items with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		if item.IsBlank() {
			continue
		}
		parts = append(parts, item.Text)
	}
	return NormalizeSpace(strings.Join(parts, " "))
}

// DominantItem returns the item with the greatest text length; ties keep the first.
func (l Line) DominantItem() TextItem {
	var best TextItem
	bestLen := -1
	for _, item := range l.Items {
		if n := item.Len(); n > bestLen {
			best = item
			bestLen = n
		}
	}
	return best
}

// DominantFontSize is the size of the item with the greatest text length.
func (l Line) DominantFontSize() float64 {
	return l.DominantItem().FontSize
}

// BBox returns the union of the item boxes.
func (l Line) BBox() BBox {
	if len(l.Items) == 0 {
		return BBox{}
	}
	box := BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, item := range l.Items {
		box.MinX = math.Min(box.MinX, item.X)
		box.MinY = math.Min(box.MinY, item.Y)
		box.MaxX = math.Max(box.MaxX, item.X+item.Width)
		box.MaxY = math.Max(box.MaxY, item.Y+item.Height)
	}
	return box
}

// Page returns the page of the first item.
func (l Line) Page() int {
	if len(l.Items) == 0 {
		return 0
	}
	return l.Items[0].Page
}

// WordCount counts the words across all items.
func (l Line) WordCount() int {
	return WordCount(l.Text())
}

// NonBlank returns the items that carry visible text.
func (l Line) NonBlank() []TextItem {
	out := make([]TextItem, 0, len(l.Items))
	for _, item := range l.Items {
		if !item.IsBlank() {
			out = append(out, item)
		}
	}
	return out
}

// UniformStyle reports whether every visible item shares one bold flag and font size.
func (l Line) UniformStyle() bool {
	items := l.NonBlank()
	if len(items) == 0 {
		return false
	}
	first := items[0]
	for _, item := range items[1:] {
		if item.Bold != first.Bold || math.Abs(item.FontSize-first.FontSize) > styleTolerance {
			return false
		}
	}
	return true
}

// LeadingBold reports whether the first visible, non-bullet item is bold.
func (l Line) LeadingBold() bool {
	for _, item := range l.Items {
		if item.IsBlank() || IsBulletOnly(item.Text) {
			continue
		}
		return item.Bold
	}
	return false
}
