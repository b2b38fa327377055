package contract

import (
	"strings"

	"resume-parser/resume/layout"
	"resume-parser/resume/model"
)

// UntraceableFieldsError lists extracted fields whose text does not occur in the source.
type UntraceableFieldsError struct {
	Fields []string
}

func (e UntraceableFieldsError) Error() string {
	return "untraceable fields: " + strings.Join(e.Fields, ", ")
}

// CheckTraceable ensures every non-empty string in the resume is a substring of
// the source text. The source is read both in stream order and in visual line
// order, since descriptions follow the latter.
func CheckTraceable(resume model.Resume, items []layout.TextItem) error {
	corpora := sourceTexts(items)

	var missing []string
	for _, field := range resume.Fields() {
		if !traceable(layout.NormalizeSpace(field.Value), corpora) {
			missing = append(missing, field.Path)
		}
	}
	if len(missing) > 0 {
		return UntraceableFieldsError{Fields: missing}
	}
	return nil
}

func sourceTexts(items []layout.TextItem) []string {
	stream := make([]string, 0, len(items))
	for _, item := range items {
		stream = append(stream, item.Text)
	}

	lines := layout.GroupLines(items, layout.DefaultConfig())
	visual := make([]string, 0, len(lines))
	for _, l := range lines {
		visual = append(visual, l.Text())
	}

	return []string{
		layout.NormalizeSpace(strings.Join(stream, " ")),
		layout.NormalizeSpace(strings.Join(visual, " ")),
	}
}

func traceable(value string, corpora []string) bool {
	for _, corpus := range corpora {
		if strings.Contains(corpus, value) {
			return true
		}
	}
	return false
}
