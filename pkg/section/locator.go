// Package section locates the questions, answer-key, and explanation page
// ranges of a practice-test document using anchor-text matching.
package section

import (
	"fmt"
	"strings"

	"github.com/medcodeprep/qbank/pkg/source"
)

// Kind identifies one of the three document sections.
type Kind string

const (
	KindQuestions    Kind = "questions"
	KindAnswerKey    Kind = "answer_key"
	KindExplanations Kind = "explanations"
)

// Range is an inclusive page range.
type Range struct {
	Start int
	End   int
}

// Contains reports whether the page number falls inside the range.
func (r Range) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// Layout holds the located page ranges for the three sections.
type Layout struct {
	Questions    Range
	AnswerKey    Range
	Explanations Range
}

// NotFoundError indicates a section anchor was never found during the
// forward scan. It aborts the whole run.
type NotFoundError struct {
	Kind Kind
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s", e.Kind)
}

// Matcher decides whether a line marks the start of a section. Detection
// rules are pluggable so they can be tested apart from the scanning loop.
type Matcher interface {
	TryMatch(line string) (Kind, bool)
}

// AnchorMatcher matches sections by anchor phrases appearing in a line.
// Answer-key anchors take precedence so a heading like "Answer Key
// Explanations" is not mistaken for the explanations section.
type AnchorMatcher struct {
	answerKey    []string
	explanations []string
}

// NewAnchorMatcher builds a matcher from anchor phrase lists.
func NewAnchorMatcher(answerKey, explanations []string) *AnchorMatcher {
	return &AnchorMatcher{answerKey: answerKey, explanations: explanations}
}

// TryMatch reports the section kind a line anchors, if any.
func (m *AnchorMatcher) TryMatch(line string) (Kind, bool) {
	for _, anchor := range m.answerKey {
		if strings.Contains(line, anchor) {
			return KindAnswerKey, true
		}
	}
	for _, anchor := range m.explanations {
		if strings.Contains(line, anchor) {
			return KindExplanations, true
		}
	}
	return "", false
}

// Locate scans pages strictly forward for the answer-key and explanation
// anchors and derives three non-overlapping page ranges. The questions
// section runs from the first page to the page before the answer-key
// anchor. A missing anchor, or an anchor placement that leaves an earlier
// section without any pages, yields a NotFoundError.
func Locate(pages []source.Page, m Matcher) (*Layout, error) {
	if len(pages) == 0 {
		return nil, &NotFoundError{Kind: KindQuestions}
	}

	keyStart := findAnchor(pages, 0, m, KindAnswerKey)
	if keyStart < 0 {
		return nil, &NotFoundError{Kind: KindAnswerKey}
	}
	if keyStart == 0 {
		// The answer key cannot open the document; there would be no
		// questions section at all.
		return nil, &NotFoundError{Kind: KindQuestions}
	}

	explStart := findAnchor(pages, keyStart+1, m, KindExplanations)
	if explStart < 0 {
		return nil, &NotFoundError{Kind: KindExplanations}
	}

	last := pages[len(pages)-1].Number
	return &Layout{
		Questions:    Range{Start: pages[0].Number, End: pages[keyStart-1].Number},
		AnswerKey:    Range{Start: pages[keyStart].Number, End: pages[explStart-1].Number},
		Explanations: Range{Start: pages[explStart].Number, End: last},
	}, nil
}

// findAnchor returns the index of the first page at or after from whose
// text contains a line matching the wanted kind, or -1.
func findAnchor(pages []source.Page, from int, m Matcher, want Kind) int {
	for i := from; i < len(pages); i++ {
		for _, line := range strings.Split(pages[i].Text, "\n") {
			if kind, ok := m.TryMatch(line); ok && kind == want {
				return i
			}
		}
	}
	return -1
}
