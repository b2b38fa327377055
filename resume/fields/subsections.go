package fields

import (
	"resume-parser/resume/layout"
)

// Subsection is a contiguous run of lines describing one entry.
type Subsection struct {
	Lines []layout.Line
}

// SplitSubsections partitions entry lines. A line starts a new subsection when
// its leading item is bold or its dominant size exceeds bodySize. The first
// line always starts one.
func SplitSubsections(lines []layout.Line, bodySize float64, mergeAdjacent bool) []Subsection {
	var (
		out     []Subsection
		prevSub bool
	)
	for i, line := range lines {
		sub := isSubHeader(line, bodySize)
		if i == 0 || (sub && !(mergeAdjacent && prevSub)) {
			out = append(out, Subsection{})
		}
		out[len(out)-1].Lines = append(out[len(out)-1].Lines, line)
		prevSub = sub
	}
	return out
}

func isSubHeader(line layout.Line, bodySize float64) bool {
	return line.LeadingBold() || line.DominantFontSize() > bodySize
}
