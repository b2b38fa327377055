package parser

import (
	"strings"

	"resume-parser/resume/fields"
	"resume-parser/resume/model"
	"resume-parser/resume/sections"
)

// Assemble runs the extraction engine over each section and collects the
// results in document order. Sections of the same kind are concatenated.
func Assemble(secs []sections.Section, engine *fields.Engine) model.Resume {
	resume := model.New()
	var summaries []string

	for _, sec := range secs {
		switch sec.Kind {
		case sections.KindProfile:
			resume.Profile = engine.Profile(sec)
		case sections.KindObjective:
			if s := engine.Summary(sec); s != "" {
				summaries = append(summaries, s)
			}
		case sections.KindWorkExperience:
			resume.WorkExperiences = append(resume.WorkExperiences, engine.WorkExperiences(sec)...)
		case sections.KindEducation:
			resume.Educations = append(resume.Educations, engine.Educations(sec)...)
		case sections.KindProject:
			resume.Projects = append(resume.Projects, engine.Projects(sec)...)
		case sections.KindSkill:
			resume.Skills.Descriptions = append(resume.Skills.Descriptions, engine.Skills(sec)...)
		case sections.KindCustom:
			resume.Custom = append(resume.Custom, engine.Custom(sec))
		}
	}

	if len(summaries) > 0 {
		resume.Profile.Summary = strings.Join(summaries, " ")
	}
	return resume
}
