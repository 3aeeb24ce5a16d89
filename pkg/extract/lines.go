// Package extract segments PDF-extracted practice-test text into question
// blocks, answer-key entries, and explanation paragraphs.
package extract

import (
	"regexp"
	"strings"

	"github.com/medcodeprep/qbank/pkg/section"
	"github.com/medcodeprep/qbank/pkg/source"
)

// standalonePageNumberPattern matches lines containing only a page number.
var standalonePageNumberPattern = regexp.MustCompile(`^\d+\s*$`)

// Cleaner strips artifacts of PDF text extraction from a line stream:
// the repeated running header and standalone page-number lines.
type Cleaner struct {
	runningHeader string
}

// NewCleaner builds a Cleaner that drops lines equal to the given running
// header. An empty header disables header stripping.
func NewCleaner(runningHeader string) *Cleaner {
	return &Cleaner{runningHeader: strings.TrimSpace(runningHeader)}
}

// Keep reports whether a line should survive cleaning.
func (c *Cleaner) Keep(line string) bool {
	trimmed := strings.TrimSpace(line)
	if c.runningHeader != "" && trimmed == c.runningHeader {
		return false
	}
	if standalonePageNumberPattern.MatchString(trimmed) {
		return false
	}
	return true
}

// Lines flattens the pages inside the range into a single cleaned line
// stream. Page boundaries do not interrupt the stream, so blocks spanning
// pages are accumulated seamlessly.
func Lines(pages []source.Page, r section.Range, c *Cleaner) []string {
	var lines []string
	for _, page := range pages {
		if !r.Contains(page.Number) {
			continue
		}
		for _, line := range strings.Split(page.Text, "\n") {
			if c.Keep(line) {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// collapse normalizes internal whitespace to single spaces and trims.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
