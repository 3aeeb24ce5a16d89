package extract

import (
	"fmt"
	"sort"
	"strings"
)

// KeyParser extracts the id to correct-letter mapping from the answer-key
// line stream.
type KeyParser struct {
	markers  *Markers
	expected int
}

// NewKeyParser builds a parser that reports gaps against the expected
// question total.
func NewKeyParser(markers *Markers, expected int) *KeyParser {
	return &KeyParser{markers: markers, expected: expected}
}

// Parse scans for answer-key entries and returns the id to letter map
// plus warnings. On duplicate ids the later occurrence wins. Ids expected
// but never seen are reported as a gap warning; gaps are not fatal here,
// assembly decides their fate per id.
func (p *KeyParser) Parse(lines []string) (map[int]string, []string) {
	key := make(map[int]string)
	var warnings []string

	for _, line := range lines {
		id, letter, ok := p.markers.MatchKey(line)
		if !ok {
			continue
		}
		if prev, dup := key[id]; dup && prev != letter {
			warnings = append(warnings, fmt.Sprintf("duplicate answer-key entry for id %d; replacing %s with %s", id, prev, letter))
		} else if dup {
			warnings = append(warnings, fmt.Sprintf("duplicate answer-key entry for id %d", id))
		}
		key[id] = letter
	}

	if gaps := missingIDs(key, p.expected); len(gaps) > 0 {
		warnings = append(warnings, fmt.Sprintf("answer key covers %d of %d expected ids; missing %s",
			len(key), p.expected, formatIDs(gaps)))
	}

	return key, warnings
}

// missingIDs returns the ids in 1..expected absent from the map.
func missingIDs(key map[int]string, expected int) []int {
	var gaps []int
	for id := 1; id <= expected; id++ {
		if _, ok := key[id]; !ok {
			gaps = append(gaps, id)
		}
	}
	sort.Ints(gaps)
	return gaps
}

// formatIDs renders an id list compactly, truncating long lists.
func formatIDs(ids []int) string {
	const max = 20
	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if i == max {
			parts = append(parts, fmt.Sprintf("and %d more", len(ids)-max))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}
