package fields

import (
	"fmt"
	"regexp"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	datePoint    = `(?:` + monthPattern + `\s+(?:19|20)\d{2}|(?:0?[1-9]|1[0-2])/(?:19|20)\d{2}|(?:19|20)\d{2})`
)

// Patterns holds the regular expressions the rule tables use, as data so they
// can be replaced from a config file.
type Patterns struct {
	Email         string `yaml:"email" json:"email"`
	Phone         string `yaml:"phone" json:"phone"`
	URL           string `yaml:"url" json:"url"`
	Location      string `yaml:"location" json:"location"`
	Date          string `yaml:"date" json:"date"`
	JobTitle      string `yaml:"job_title" json:"jobTitle"`
	CompanySuffix string `yaml:"company_suffix" json:"companySuffix"`
	School        string `yaml:"school" json:"school"`
	Degree        string `yaml:"degree" json:"degree"`
	GPAKeyword    string `yaml:"gpa_keyword" json:"gpaKeyword"`
	Grade         string `yaml:"grade" json:"grade"`
	PersonName    string `yaml:"person_name" json:"personName"`
}

// DefaultPatterns returns the English pattern set.
func DefaultPatterns() Patterns {
	return Patterns{
		Email:    `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		Phone:    `(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}`,
		URL:      `(?i)(?:https?://|www\.)\S+|(?:linkedin|github|gitlab)\.com/\S+|\b[a-z0-9\-]+\.(?:com|io|dev|org|net|me|ai|co)(?:/\S*)?`,
		Location: `\b[A-Z][A-Za-z.'\-]*(?:\s[A-Z][A-Za-z.'\-]*)*,\s?[A-Z]{2}\b`,
		Date:     `(?i)\b` + datePoint + `(?:\s*(?:-|–|—|to)\s*(?:` + datePoint + `|present|current|now))?\b`,
		JobTitle: `(?i)\b(?:engineer|developer|manager|intern|analyst|designer|consultant|director|lead|scientist|specialist|` +
			`architect|administrator|coordinator|assistant|officer|programmer|technician|president|founder|researcher|` +
			`teacher|instructor|accountant|representative|executive|head of|vp)\b`,
		CompanySuffix: `(?i)\b(?:inc|llc|ltd|corp|corporation|company|co|group|technologies|labs|gmbh|plc|limited|solutions|systems)\b`,
		School:        `(?i)\b(?:university|college|institute|school|academy|polytechnic)\b`,
		Degree: `(?i)(?:^|[^a-z])(?:bachelor|master|doctor|associate|ph\.?\s?d|mba|b\.?\s?[sa]\.?|m\.?\s?[sa]\.?|` +
			`b\.?\s?sc|m\.?\s?sc|b\.?\s?eng|m\.?\s?eng|diploma)(?:[^a-z]|$)`,
		GPAKeyword: `(?i)\b(?:gpa|cgpa|grade point average)\b`,
		Grade:      `\b[0-4]\.\d{1,2}(?:\s*/\s*[0-9]\.\d{1,2})?`,
		PersonName: `^[\p{L}][\p{L}.'\-]*(?:\s[\p{L}][\p{L}.'\-]*){0,3}$`,
	}
}

type compiledPatterns struct {
	email, phone, url, location, date       *regexp.Regexp
	jobTitle, companySuffix, school, degree *regexp.Regexp
	gpaKeyword, grade, personName           *regexp.Regexp
	// gpaSpan covers a grade together with an adjacent GPA keyword.
	gpaSpan *regexp.Regexp
}

func (p Patterns) compile() (*compiledPatterns, error) {
	var (
		out compiledPatterns
		err error
	)
	targets := []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"email", p.Email, &out.email},
		{"phone", p.Phone, &out.phone},
		{"url", p.URL, &out.url},
		{"location", p.Location, &out.location},
		{"date", p.Date, &out.date},
		{"job_title", p.JobTitle, &out.jobTitle},
		{"company_suffix", p.CompanySuffix, &out.companySuffix},
		{"school", p.School, &out.school},
		{"degree", p.Degree, &out.degree},
		{"gpa_keyword", p.GPAKeyword, &out.gpaKeyword},
		{"grade", p.Grade, &out.grade},
		{"person_name", p.PersonName, &out.personName},
	}
	for _, target := range targets {
		if target.src == "" {
			return nil, fmt.Errorf("pattern %s is empty", target.name)
		}
		if *target.dst, err = regexp.Compile(target.src); err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", target.name, err)
		}
	}
	span := `(?:` + p.GPAKeyword + `)\W{0,3}(?:` + p.Grade + `)|(?:` + p.Grade + `)\s*(?:` + p.GPAKeyword + `)|(?:` + p.Grade + `)`
	if out.gpaSpan, err = regexp.Compile(span); err != nil {
		return nil, fmt.Errorf("compile gpa span pattern: %w", err)
	}
	return &out, nil
}
