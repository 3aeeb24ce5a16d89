package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Markers compiles the line-start heuristics shared by the segment
// parsers. An id marker is an integer at the start of a line followed by
// one of the configured delimiters and then whitespace or end of line, so
// numbers embedded in running text (measurements, code values) never
// trigger a new block.
type Markers struct {
	id     *regexp.Regexp
	option *regexp.Regexp
	key    *regexp.Regexp
}

// NewMarkers builds the marker patterns for the given delimiter set and
// ordered option letters.
func NewMarkers(delimiters string, letters []string) *Markers {
	delims := regexp.QuoteMeta(delimiters)
	letterClass := regexp.QuoteMeta(strings.Join(letters, ""))

	return &Markers{
		id: regexp.MustCompile(`^\s*(\d+)[` + delims + `](?:\s+(.*))?$`),
		option: regexp.MustCompile(`^\s*([` + letterClass + `])[` + delims + `](?:\s+(.*))?$`),
		// Answer-key lines optionally carry a checkbox prefix and the
		// answer text after the letter.
		key: regexp.MustCompile(`^\s*(?:\[\s*\]\s*)?(\d+)[` + delims + `]\s*([` + letterClass + `])(?:[` + delims + `]\s*(.*))?\s*$`),
	}
}

// MatchID reports the question id and any trailing text when the line is
// an id marker.
func (m *Markers) MatchID(line string) (id int, rest string, ok bool) {
	groups := m.id.FindStringSubmatch(line)
	if groups == nil {
		return 0, "", false
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil || id < 1 {
		return 0, "", false
	}
	return id, strings.TrimSpace(groups[2]), true
}

// MatchOption reports the option letter and any trailing text when the
// line is an option marker.
func (m *Markers) MatchOption(line string) (letter, rest string, ok bool) {
	groups := m.option.FindStringSubmatch(line)
	if groups == nil {
		return "", "", false
	}
	return groups[1], strings.TrimSpace(groups[2]), true
}

// MatchKey reports the id and letter when the line is an answer-key entry.
func (m *Markers) MatchKey(line string) (id int, letter string, ok bool) {
	groups := m.key.FindStringSubmatch(line)
	if groups == nil {
		return 0, "", false
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil || id < 1 {
		return 0, "", false
	}
	return id, groups[2], true
}
