package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/resume/layout"
	"resume-parser/resume/model"
	"resume-parser/resume/sections"
)

func plain(s string) layout.TextItem {
	return layout.TextItem{Text: s, FontSize: 10, Height: 10}
}

func strong(s string) layout.TextItem {
	it := plain(s)
	it.Bold = true
	return it
}

func sized(s string, size float64) layout.TextItem {
	return layout.TextItem{Text: s, FontSize: size, Height: size}
}

func ln(items ...layout.TextItem) layout.Line {
	return layout.Line{Items: items}
}

func section(kind sections.Kind, name string, body ...layout.Line) sections.Section {
	lines := append([]layout.Line{ln(strong(name))}, body...)
	if kind == sections.KindProfile {
		lines = body
	}
	return sections.Section{Kind: kind, Name: name, Lines: lines, BodyFontSize: 10}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestProfile(t *testing.T) {
	tests := []struct {
		name  string
		lines []layout.Line
		want  model.ResumeProfile
	}{
		{
			name: "name and contacts on separate runs",
			lines: []layout.Line{
				ln(sized("Jane Doe", 20)),
				ln(plain("jane@example.com"), plain("555-123-4567")),
			},
			want: model.ResumeProfile{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-123-4567"},
		},
		{
			name: "contacts packed into one run",
			lines: []layout.Line{
				ln(sized("Sam Lee", 18)),
				ln(plain("Austin, TX | sam@lee.dev | (512) 555-0100 | github.com/samlee")),
			},
			want: model.ResumeProfile{
				Name:     "Sam Lee",
				Email:    "sam@lee.dev",
				Phone:    "(512) 555-0100",
				URL:      "github.com/samlee",
				Location: "Austin, TX",
			},
		},
		{
			name: "long leftover line becomes the summary",
			lines: []layout.Line{
				ln(sized("Ana Ruiz", 18)),
				ln(plain("ana@ruiz.io")),
				ln(plain("Backend engineer who enjoys building reliable data pipelines")),
			},
			want: model.ResumeProfile{
				Name:    "Ana Ruiz",
				Email:   "ana@ruiz.io",
				Summary: "Backend engineer who enjoys building reliable data pipelines",
			},
		},
		{
			name: "email is never the name",
			lines: []layout.Line{
				ln(sized("someone@example.com", 20)),
			},
			want: model.ResumeProfile{Email: "someone@example.com"},
		},
	}

	e := newEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Profile(section(sections.KindProfile, "", tt.lines...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkExperiences(t *testing.T) {
	sec := section(sections.KindWorkExperience, "WORK EXPERIENCE",
		ln(strong("Acme Corp"), plain("2022 - Present")),
		ln(plain("Software Engineer")),
		ln(plain("- Built X")),
		ln(plain("- Shipped Y")),
		ln(strong("Globex"), plain("Jan 2019 - Dec 2021")),
		ln(plain("Data Analyst")),
		ln(plain("Reported weekly metrics to leadership")),
	)

	got := newEngine(t).WorkExperiences(sec)
	assert.Equal(t, []model.ResumeWorkExperience{
		{Company: "Acme Corp", JobTitle: "Software Engineer", Date: "2022 - Present", Descriptions: []string{"Built X", "Shipped Y"}},
		{Company: "Globex", JobTitle: "Data Analyst", Date: "Jan 2019 - Dec 2021", Descriptions: []string{"Reported weekly metrics to leadership"}},
	}, got)
}

func TestWorkExperienceDateNotCompany(t *testing.T) {
	sec := section(sections.KindWorkExperience, "EXPERIENCE",
		ln(strong("Initech LLC, 2015 - 2018")),
		ln(plain("Backend Developer")),
	)

	got := newEngine(t).WorkExperiences(sec)
	require.Len(t, got, 1)
	assert.Equal(t, "Initech LLC", got[0].Company)
	assert.Equal(t, "2015 - 2018", got[0].Date)
	assert.Equal(t, "Backend Developer", got[0].JobTitle)
}

func TestWorkExperienceBoldCompanyWithoutSuffix(t *testing.T) {
	tests := []struct {
		name  string
		lines []layout.Line
		want  model.ResumeWorkExperience
	}{
		{
			name: "title outside the title vocabulary",
			lines: []layout.Line{
				ln(strong("Google"), plain("Jan 2020 - Present")),
				ln(plain("Member of Technical Staff")),
				ln(plain("• Built search infra")),
			},
			want: model.ResumeWorkExperience{Company: "Google", JobTitle: "Member of Technical Staff", Date: "Jan 2020 - Present", Descriptions: []string{"Built search infra"}},
		},
		{
			name: "company without Corp",
			lines: []layout.Line{
				ln(strong("Acme"), plain("2022 - Present")),
				ln(plain("Staff SWE")),
				ln(plain("- Built X"), plain("- Shipped Y")),
			},
			want: model.ResumeWorkExperience{Company: "Acme", JobTitle: "Staff SWE", Date: "2022 - Present", Descriptions: []string{"Built X", "Shipped Y"}},
		},
		{
			name: "bold title above plain company",
			lines: []layout.Line{
				ln(strong("Software Engineer"), plain("2019 - 2021")),
				ln(plain("Initech LLC")),
			},
			want: model.ResumeWorkExperience{Company: "Initech LLC", JobTitle: "Software Engineer", Date: "2019 - 2021", Descriptions: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newEngine(t).WorkExperiences(section(sections.KindWorkExperience, "EXPERIENCE", tt.lines...))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestEducations(t *testing.T) {
	sec := section(sections.KindEducation, "EDUCATION",
		ln(strong("MIT"), plain("2018 - 2022")),
		ln(plain("B.S. Computer Science")),
		ln(strong("Stanford University"), plain("2022 - 2024")),
		ln(plain("Master of Science, GPA: 3.9/4.0")),
		ln(plain("Thesis on distributed consensus")),
	)

	got := newEngine(t).Educations(sec)
	assert.Equal(t, []model.ResumeEducation{
		{School: "MIT", Degree: "B.S. Computer Science", Date: "2018 - 2022", Descriptions: []string{}},
		{
			School:       "Stanford University",
			Degree:       "Master of Science",
			Date:         "2022 - 2024",
			GPA:          "3.9/4.0",
			Descriptions: []string{"Thesis on distributed consensus"},
		},
	}, got)
}

func TestProjects(t *testing.T) {
	sec := section(sections.KindProject, "PROJECTS",
		ln(strong("Resume Parser"), plain("2023")),
		ln(plain("• Layout-aware PDF extraction")),
		ln(plain("• Scoring engine")),
	)

	got := newEngine(t).Projects(sec)
	assert.Equal(t, []model.ResumeProject{
		{Project: "Resume Parser", Date: "2023", Descriptions: []string{"Layout-aware PDF extraction", "Scoring engine"}},
	}, got)
}

func TestSkillsAndCustom(t *testing.T) {
	e := newEngine(t)

	skills := section(sections.KindSkill, "SKILLS",
		ln(plain("Go, Python, SQL")),
		ln(plain("Kubernetes, Terraform")),
	)
	assert.Equal(t, []string{"Go, Python, SQL", "Kubernetes, Terraform"}, e.Skills(skills))

	custom := section(sections.KindCustom, "VOLUNTEERING",
		ln(plain("• Food bank organizer")),
	)
	assert.Equal(t, model.ResumeCustom{Name: "VOLUNTEERING", Descriptions: []string{"Food bank organizer"}}, e.Custom(custom))
}

func TestSummary(t *testing.T) {
	sec := section(sections.KindObjective, "SUMMARY",
		ln(plain("Engineer focused on")),
		ln(plain("developer tooling.")),
	)
	assert.Equal(t, "Engineer focused on developer tooling.", newEngine(t).Summary(sec))
}

func TestDescriptionsBulletContinuation(t *testing.T) {
	p := newPool([]layout.Line{
		ln(plain("•"), plain("Led migration of")),
		ln(plain("billing to Go")),
		ln(plain("• Cut latency 40%")),
	})
	assert.Equal(t, []string{"Led migration of billing to Go", "Cut latency 40%"}, p.descriptions())
}

func TestDescriptionsOnePerLine(t *testing.T) {
	p := newPool([]layout.Line{
		ln(plain("Mentored"), plain("interns")),
		ln(plain("Ran hiring loops")),
	})
	assert.Equal(t, []string{"Mentored interns", "Ran hiring loops"}, p.descriptions())
}

func TestSelectedItemNotReused(t *testing.T) {
	sec := section(sections.KindWorkExperience, "EXPERIENCE",
		ln(strong("Senior Engineer")),
	)
	got := newEngine(t).WorkExperiences(sec)
	require.Len(t, got, 1)
	assert.Equal(t, "Senior Engineer", got[0].JobTitle)
	assert.Empty(t, got[0].Company)
}

func TestSplitSubsections(t *testing.T) {
	lines := []layout.Line{
		ln(strong("Software Engineer")),
		ln(strong("Acme Corp")),
		ln(plain("- Built X")),
		ln(strong("Globex")),
	}

	assert.Len(t, SplitSubsections(lines, 10, false), 3)

	merged := SplitSubsections(lines, 10, true)
	require.Len(t, merged, 2)
	assert.Len(t, merged[0].Lines, 3)
	assert.Nil(t, SplitSubsections(nil, 10, false))
}

func TestNewEngineRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Patterns.Date = "("
	_, err := NewEngine(cfg)
	assert.ErrorContains(t, err, "date")
}

func TestWeakEvidenceLeavesFieldEmpty(t *testing.T) {
	sec := section(sections.KindEducation, "EDUCATION",
		ln(plain("Graduated with honors and a lot of coursework in algorithms")),
	)
	got := newEngine(t).Educations(sec)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].School)
	assert.Empty(t, got[0].Degree)
	assert.Equal(t, []string{"Graduated with honors and a lot of coursework in algorithms"}, got[0].Descriptions)
}
