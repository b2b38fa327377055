package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"resume-parser/resume/model"
)

const (
	SheetProfile   = "Profile"
	SheetWork      = "Work"
	SheetEducation = "Education"
	SheetProjects  = "Projects"
	SheetSkills    = "Skills"
	SheetCustom    = "Custom"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
	widths []float64
}

// WorkbookXLSX renders the resume as a workbook with one sheet per record type.
func WorkbookXLSX(resume model.Resume) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := buildSheets(resume)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheet) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+1, err)
		}
	}
	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		_ = f.SetColWidth(s.name, col, col, w)
	}
	return nil
}

func buildSheets(r model.Resume) []sheet {
	profile := sheet{
		name:   SheetProfile,
		header: []any{"Name", "Email", "Phone", "Location", "URL", "Summary"},
		rows: [][]any{{
			r.Profile.Name, r.Profile.Email, r.Profile.Phone, r.Profile.Location, r.Profile.URL, r.Profile.Summary,
		}},
		widths: []float64{22, 28, 18, 20, 32, 60},
	}

	work := sheet{
		name:   SheetWork,
		header: []any{"Company", "Job Title", "Date", "Descriptions"},
		widths: []float64{24, 24, 20, 80},
	}
	for _, w := range r.WorkExperiences {
		work.rows = append(work.rows, []any{w.Company, w.JobTitle, w.Date, lines(w.Descriptions)})
	}

	education := sheet{
		name:   SheetEducation,
		header: []any{"School", "Degree", "Date", "GPA", "Descriptions"},
		widths: []float64{28, 28, 20, 8, 60},
	}
	for _, e := range r.Educations {
		education.rows = append(education.rows, []any{e.School, e.Degree, e.Date, e.GPA, lines(e.Descriptions)})
	}

	projects := sheet{
		name:   SheetProjects,
		header: []any{"Project", "Date", "Descriptions"},
		widths: []float64{28, 20, 80},
	}
	for _, p := range r.Projects {
		projects.rows = append(projects.rows, []any{p.Project, p.Date, lines(p.Descriptions)})
	}

	skills := sheet{
		name:   SheetSkills,
		header: []any{"Kind", "Skill", "Rating"},
		widths: []float64{12, 60, 8},
	}
	for _, fs := range r.Skills.FeaturedSkills {
		skills.rows = append(skills.rows, []any{"featured", fs.Skill, fs.Rating})
	}
	for _, d := range r.Skills.Descriptions {
		skills.rows = append(skills.rows, []any{"line", d, ""})
	}

	custom := sheet{
		name:   SheetCustom,
		header: []any{"Section", "Description"},
		widths: []float64{24, 80},
	}
	for _, c := range r.Custom {
		for _, d := range c.Descriptions {
			custom.rows = append(custom.rows, []any{c.Name, d})
		}
	}

	return []sheet{profile, work, education, projects, skills, custom}
}

func lines(values []string) string {
	return strings.Join(values, "\n")
}
