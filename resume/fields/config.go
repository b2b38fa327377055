package fields

// Weights are the per-feature-class score contributions.
type Weights struct {
	Regex       float64 `yaml:"regex" json:"regex"`
	Positional  float64 `yaml:"positional" json:"positional"`
	Typographic float64 `yaml:"typographic" json:"typographic"`
	Keyword     float64 `yaml:"keyword" json:"keyword"`
}

// Config tunes field extraction.
type Config struct {
	Weights Weights `yaml:"weights" json:"weights"`
	// MinScore is the lowest total a candidate needs to fill a field.
	MinScore float64 `yaml:"min_score" json:"minScore"`
	// RegexMinScore applies to fields whose only evidence is a pattern match.
	RegexMinScore float64 `yaml:"regex_min_score" json:"regexMinScore"`
	// SummaryMinWords is the shortest leftover profile line taken as a summary.
	SummaryMinWords int `yaml:"summary_min_words" json:"summaryMinWords"`
	// MergeAdjacentSubHeaders keeps consecutive sub-header lines in one entry.
	MergeAdjacentSubHeaders bool     `yaml:"merge_adjacent_sub_headers" json:"mergeAdjacentSubHeaders"`
	Patterns                Patterns `yaml:"patterns" json:"patterns"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Regex:       4,
			Positional:  2,
			Typographic: 2,
			Keyword:     2,
		},
		MinScore:        2,
		RegexMinScore:   4,
		SummaryMinWords: 6,
		Patterns:        DefaultPatterns(),
	}
}
