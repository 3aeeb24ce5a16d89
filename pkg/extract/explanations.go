package extract

import (
	"fmt"
	"strings"
)

// explanationLeadIn is the label some documents place between the id
// marker and the explanation body.
const explanationLeadIn = "Explanation:"

// ExplanationParser extracts the id to explanation-text mapping from the
// explanations line stream. It reuses the whitespace-bounded id-marker
// heuristic because explanation prose is full of numbers (code values,
// measurements) that must not start a new block.
type ExplanationParser struct {
	markers *Markers
}

// NewExplanationParser builds a parser over the given marker heuristics.
func NewExplanationParser(markers *Markers) *ExplanationParser {
	return &ExplanationParser{markers: markers}
}

// Parse accumulates text between id markers into single normalized
// paragraphs. Internal line breaks are not preserved. Duplicate ids keep
// the later occurrence with a warning.
func (p *ExplanationParser) Parse(lines []string) (map[int]string, []string) {
	explanations := make(map[int]string)
	var warnings []string

	curID := 0
	var parts []string

	finish := func() {
		if curID == 0 {
			return
		}
		text := normalizeExplanation(strings.Join(parts, " "))
		if text == "" {
			warnings = append(warnings, fmt.Sprintf("empty explanation block for id %d", curID))
		} else {
			if _, dup := explanations[curID]; dup {
				warnings = append(warnings, fmt.Sprintf("duplicate explanation for id %d; keeping the later occurrence", curID))
			}
			explanations[curID] = text
		}
		curID = 0
		parts = nil
	}

	for _, line := range lines {
		if id, rest, ok := p.markers.MatchID(line); ok {
			finish()
			curID = id
			if rest != "" {
				parts = append(parts, rest)
			}
			continue
		}
		if curID != 0 {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}
	finish()

	return explanations, warnings
}

// normalizeExplanation collapses whitespace and drops everything up to an
// optional "Explanation:" lead-in. Some documents restate the question and
// its options before the lead-in; only the text after it is the
// explanation proper.
func normalizeExplanation(text string) string {
	text = collapse(text)
	if i := strings.Index(text, explanationLeadIn); i >= 0 {
		text = strings.TrimSpace(text[i+len(explanationLeadIn):])
	}
	return text
}
