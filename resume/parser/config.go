package parser

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resume-parser/resume/fields"
	"resume-parser/resume/layout"
	"resume-parser/resume/sections"
)

// Config aggregates the tunables of every pipeline stage.
type Config struct {
	Layout   layout.Config   `yaml:"layout" json:"layout"`
	Sections sections.Config `yaml:"sections" json:"sections"`
	Fields   fields.Config   `yaml:"fields" json:"fields"`
}

// DefaultConfig returns the defaults of every stage.
func DefaultConfig() Config {
	return Config{
		Layout:   layout.DefaultConfig(),
		Sections: sections.DefaultConfig(),
		Fields:   fields.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the file keep
// their default values and keyword entries are added to the default dictionary.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read parser config: %w", err)
	}
	return DecodeConfig(data)
}

// DecodeConfig decodes YAML bytes over the defaults.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode parser config: %w", err)
	}
	return cfg, nil
}
