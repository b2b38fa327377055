package skills

import (
	"strings"

	"resume-parser/resume/model"
)

// DefaultMaxFeatured caps featured skills when the caller passes no limit.
const DefaultMaxFeatured = 6

// ApplyFeatured sets the resume's featured skills from a caller-curated list.
// Duplicates are dropped case-insensitively keeping the first spelling, ratings
// are clamped to the 0-5 scale, and at most limit entries are kept.
func ApplyFeatured(resume *model.Resume, curated []model.FeaturedSkill, limit int) {
	if resume == nil {
		return
	}
	resume.Skills.FeaturedSkills = BuildFeatured(curated, limit)
}

// BuildFeatured normalizes a curated featured skill list.
func BuildFeatured(curated []model.FeaturedSkill, limit int) []model.FeaturedSkill {
	if limit <= 0 {
		limit = DefaultMaxFeatured
	}
	out := make([]model.FeaturedSkill, 0, min(len(curated), limit))
	seen := make(map[string]struct{}, len(curated))
	for _, fs := range curated {
		name := strings.Join(strings.Fields(fs.Skill), " ")
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, model.FeaturedSkill{Skill: name, Rating: clampRating(fs.Rating)})
		if len(out) == limit {
			break
		}
	}
	return out
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > model.MaxSkillRating {
		return model.MaxSkillRating
	}
	return r
}
