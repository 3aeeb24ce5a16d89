// Package config holds the recognized parsing options and their YAML
// representation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PageRange is an inclusive page range override.
type PageRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// SectionOverrides pins explicit page ranges for the three sections,
// bypassing anchor-based detection. All three must be set together.
type SectionOverrides struct {
	Questions    PageRange `yaml:"questions"`
	AnswerKey    PageRange `yaml:"answer_key"`
	Explanations PageRange `yaml:"explanations"`
}

// Config collects the recognized parsing options.
type Config struct {
	// ExpectedTotal is the number of questions the document should
	// contain; coverage is reported against it.
	ExpectedTotal int `yaml:"expected_total"`

	// OptionLetters is the ordered set of answer-choice letters a
	// complete question must carry.
	OptionLetters []string `yaml:"option_letters"`

	// MarkerDelimiters are the punctuation characters accepted after an
	// id or option letter, e.g. ".)" accepts both "47." and "47)".
	MarkerDelimiters string `yaml:"marker_delimiters"`

	// Strict promotes missing explanations from warnings to per-id skips.
	Strict bool `yaml:"strict"`

	// RunningHeader is a repeated page header stripped before parsing.
	RunningHeader string `yaml:"running_header"`

	// AnswerKeyAnchors and ExplanationAnchors are the phrases that mark
	// the start of their sections.
	AnswerKeyAnchors   []string `yaml:"answer_key_anchors"`
	ExplanationAnchors []string `yaml:"explanation_anchors"`

	// Sections, when set, bypasses anchor detection entirely.
	Sections *SectionOverrides `yaml:"sections,omitempty"`
}

// Default returns the configuration for a standard 100-question practice
// test with options A through D.
func Default() *Config {
	return &Config{
		ExpectedTotal:      100,
		OptionLetters:      []string{"A", "B", "C", "D"},
		MarkerDelimiters:   ".)",
		RunningHeader:      "Medical Coding Ace",
		AnswerKeyAnchors:   []string{"Answer Key"},
		ExplanationAnchors: []string{"Explanations"},
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option consistency.
func (c *Config) Validate() error {
	if c.ExpectedTotal < 1 {
		return fmt.Errorf("expected_total must be at least 1, got %d", c.ExpectedTotal)
	}
	if len(c.OptionLetters) < 2 {
		return fmt.Errorf("at least two option letters are required")
	}
	seen := make(map[string]bool)
	for _, letter := range c.OptionLetters {
		if len(letter) != 1 {
			return fmt.Errorf("option letter %q must be a single character", letter)
		}
		if seen[letter] {
			return fmt.Errorf("duplicate option letter %q", letter)
		}
		seen[letter] = true
	}
	if c.MarkerDelimiters == "" {
		return fmt.Errorf("marker_delimiters must not be empty")
	}
	if len(c.AnswerKeyAnchors) == 0 {
		return fmt.Errorf("at least one answer key anchor is required")
	}
	if len(c.ExplanationAnchors) == 0 {
		return fmt.Errorf("at least one explanation anchor is required")
	}
	if c.Sections != nil {
		for _, r := range []struct {
			name string
			rng  PageRange
		}{
			{"questions", c.Sections.Questions},
			{"answer_key", c.Sections.AnswerKey},
			{"explanations", c.Sections.Explanations},
		} {
			if r.rng.Start < 1 || r.rng.End < r.rng.Start {
				return fmt.Errorf("invalid %s page range %d-%d", r.name, r.rng.Start, r.rng.End)
			}
		}
	}
	return nil
}
