// Package sections splits visual lines into labeled résumé sections.
package sections

import (
	"fmt"
	"strings"
)

// Kind labels a section. The set is closed.
type Kind int

const (
	KindProfile Kind = iota
	KindObjective
	KindWorkExperience
	KindEducation
	KindProject
	KindSkill
	KindCustom
)

var kindNames = map[Kind]string{
	KindProfile:        "profile",
	KindObjective:      "objective",
	KindWorkExperience: "work_experience",
	KindEducation:      "education",
	KindProject:        "project",
	KindSkill:          "skill",
	KindCustom:         "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind from its name.
func ParseKind(s string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for kind, name := range kindNames {
		if name == needle {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown section kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MultiEntry reports whether sections of this kind hold a list of entries.
func (k Kind) MultiEntry() bool {
	switch k {
	case KindWorkExperience, KindEducation, KindProject:
		return true
	default:
		return false
	}
}
