package sections

// Config tunes header detection and classification.
type Config struct {
	// MaxHeaderWords caps the word count of a header line.
	MaxHeaderWords int `yaml:"max_header_words" json:"maxHeaderWords"`
	// Keywords maps a lowercase keyword to the kind it signals. A header matches
	// a keyword when its lowercased text contains it.
	Keywords map[string]Kind `yaml:"keywords" json:"keywords"`
	// Priority orders kinds when a header matches keywords of several kinds.
	Priority []Kind `yaml:"priority" json:"priority"`
	// UpperCaseCustom requires an unmatched header to be all upper case before it
	// opens a custom section. With it off, every unmatched header candidate opens
	// one, as the plain header rule reads. The default is on so title-case bold
	// lines such as a name or an employer stay body lines. Independently of this
	// flag, the first line of a document never opens a section.
	UpperCaseCustom bool `yaml:"upper_case_custom" json:"upperCaseCustom"`
}

// DefaultKeywords is the English header dictionary.
func DefaultKeywords() map[string]Kind {
	return map[string]Kind{
		"experience":           KindWorkExperience,
		"employment":           KindWorkExperience,
		"work history":         KindWorkExperience,
		"professional history": KindWorkExperience,
		"career history":       KindWorkExperience,
		"project":              KindProject,
		"skill":                KindSkill,
		"technologies":         KindSkill,
		"technical proficienc": KindSkill,
		"competencies":         KindSkill,
		"education":            KindEducation,
		"academic":             KindEducation,
		"summary":              KindObjective,
		"objective":            KindObjective,
		"about me":             KindObjective,
		"profile":              KindObjective,
	}
}

// DefaultPriority orders the kinds tried for a header. Kinds left out are never
// matched by keyword.
func DefaultPriority() []Kind {
	return []Kind{KindWorkExperience, KindProject, KindSkill, KindEducation, KindObjective}
}

func DefaultConfig() Config {
	return Config{
		MaxHeaderWords:  5,
		Keywords:        DefaultKeywords(),
		Priority:        DefaultPriority(),
		UpperCaseCustom: true,
	}
}
