package model

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSkillRating is the top of the featured skill rating scale.
const MaxSkillRating = 5

// Resume represents the structured résumé produced by the parser.
type Resume struct {
	Profile         ResumeProfile          `json:"profile"`
	WorkExperiences []ResumeWorkExperience `json:"workExperiences"`
	Educations      []ResumeEducation      `json:"educations"`
	Projects        []ResumeProject        `json:"projects"`
	Skills          ResumeSkills           `json:"skills"`
	Custom          []ResumeCustom         `json:"custom"`
}

// New returns an empty Resume whose list fields are non-nil, so it encodes
// as empty JSON arrays rather than null.
func New() Resume {
	return Resume{
		WorkExperiences: []ResumeWorkExperience{},
		Educations:      []ResumeEducation{},
		Projects:        []ResumeProject{},
		Skills:          ResumeSkills{FeaturedSkills: []FeaturedSkill{}, Descriptions: []string{}},
		Custom:          []ResumeCustom{},
	}
}

// ResumeProfile captures top-of-résumé identity and contact details.
type ResumeProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
}

// ResumeWorkExperience represents a work history entry.
type ResumeWorkExperience struct {
	Company      string   `json:"company"`
	JobTitle     string   `json:"jobTitle"`
	Date         string   `json:"date"`
	Descriptions []string `json:"descriptions"`
}

// ResumeEducation represents an education entry.
type ResumeEducation struct {
	School       string   `json:"school"`
	Degree       string   `json:"degree"`
	Date         string   `json:"date"`
	GPA          string   `json:"gpa"`
	Descriptions []string `json:"descriptions"`
}

// ResumeProject represents a notable project.
type ResumeProject struct {
	Project      string   `json:"project"`
	Date         string   `json:"date"`
	Descriptions []string `json:"descriptions"`
}

// FeaturedSkill is a highlighted skill with a 0-5 rating.
type FeaturedSkill struct {
	Skill  string `json:"skill"`
	Rating int    `json:"rating"`
}

// ResumeSkills holds free-text skill lines and caller-curated highlights.
type ResumeSkills struct {
	FeaturedSkills []FeaturedSkill `json:"featuredSkills"`
	Descriptions   []string        `json:"descriptions"`
}

// ResumeCustom is a section the parser could not map to a known kind.
type ResumeCustom struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

// Field is one extracted string addressed by its JSON path.
type Field struct {
	Path  string
	Value string
}

// Fields lists every non-empty extracted string in document order of the
// Resume structure. Featured skills are excluded because callers supply them.
func (r Resume) Fields() []Field {
	var out []Field
	add := func(path, value string) {
		if strings.TrimSpace(value) != "" {
			out = append(out, Field{Path: path, Value: value})
		}
	}
	addAll := func(prefix string, values []string) {
		for i, v := range values {
			add(fmt.Sprintf("%s[%d]", prefix, i), v)
		}
	}

	add("profile.name", r.Profile.Name)
	add("profile.email", r.Profile.Email)
	add("profile.phone", r.Profile.Phone)
	add("profile.location", r.Profile.Location)
	add("profile.url", r.Profile.URL)
	add("profile.summary", r.Profile.Summary)
	for i, w := range r.WorkExperiences {
		prefix := fmt.Sprintf("workExperiences[%d]", i)
		add(prefix+".company", w.Company)
		add(prefix+".jobTitle", w.JobTitle)
		add(prefix+".date", w.Date)
		addAll(prefix+".descriptions", w.Descriptions)
	}
	for i, e := range r.Educations {
		prefix := fmt.Sprintf("educations[%d]", i)
		add(prefix+".school", e.School)
		add(prefix+".degree", e.Degree)
		add(prefix+".date", e.Date)
		add(prefix+".gpa", e.GPA)
		addAll(prefix+".descriptions", e.Descriptions)
	}
	for i, p := range r.Projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		add(prefix+".project", p.Project)
		add(prefix+".date", p.Date)
		addAll(prefix+".descriptions", p.Descriptions)
	}
	addAll("skills.descriptions", r.Skills.Descriptions)
	for i, c := range r.Custom {
		prefix := fmt.Sprintf("custom[%d]", i)
		add(prefix+".name", c.Name)
		addAll(prefix+".descriptions", c.Descriptions)
	}
	return out
}

// IsEmpty reports whether nothing was extracted.
func (r Resume) IsEmpty() bool {
	return len(r.Fields()) == 0
}

// Validate enforces the structural rules callers rely on.
func (r Resume) Validate() error {
	for i, fs := range r.Skills.FeaturedSkills {
		if strings.TrimSpace(fs.Skill) == "" {
			return fmt.Errorf("skills.featuredSkills[%d].skill is required", i)
		}
		if fs.Rating < 0 || fs.Rating > MaxSkillRating {
			return fmt.Errorf("skills.featuredSkills[%d].rating must be between 0 and %d", i, MaxSkillRating)
		}
	}
	for i, c := range r.Custom {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("custom[%d].name is required", i)
		}
	}
	if r.Profile.Email != "" && !strings.Contains(r.Profile.Email, "@") {
		return errors.New("profile.email must contain @")
	}
	return nil
}
