// Package model defines the question and dataset records produced by the
// extraction pipeline, along with their JSONL serialization.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalLetters is the default ordered set of answer-choice letters.
var CanonicalLetters = []string{"A", "B", "C", "D"}

// Question represents a single practice-test question with its answer
// choices, correct answer, and explanation.
type Question struct {
	ID                  int               `json:"id"`
	Stem                string            `json:"stem"`
	Options             map[string]string `json:"options"`
	CorrectAnswerLetter string            `json:"correct_answer_letter"`
	CorrectAnswerText   string            `json:"correct_answer_text"`
	Explanation         string            `json:"explanation"`

	// ExplanationMissing marks questions assembled without an explanation
	// in non-strict mode.
	ExplanationMissing bool `json:"explanation_missing,omitempty"`
}

// Validate checks the question invariants against the given ordered letter
// set: every letter present with non-empty text, no extra letters, the
// correct answer letter among them, and the correct answer text matching
// the chosen option.
func (q *Question) Validate(letters []string) error {
	if q.ID < 1 {
		return fmt.Errorf("question id must be positive, got %d", q.ID)
	}
	if strings.TrimSpace(q.Stem) == "" {
		return fmt.Errorf("question %d: stem is empty", q.ID)
	}
	if len(q.Options) != len(letters) {
		return fmt.Errorf("question %d: expected %d options, got %d", q.ID, len(letters), len(q.Options))
	}
	for _, letter := range letters {
		text, ok := q.Options[letter]
		if !ok {
			return fmt.Errorf("question %d: missing option %s", q.ID, letter)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("question %d: option %s is empty", q.ID, letter)
		}
	}
	if _, ok := q.Options[q.CorrectAnswerLetter]; !ok {
		return fmt.Errorf("question %d: answer letter %s not among options", q.ID, q.CorrectAnswerLetter)
	}
	if q.CorrectAnswerText != q.Options[q.CorrectAnswerLetter] {
		return fmt.Errorf("question %d: answer text does not match option %s", q.ID, q.CorrectAnswerLetter)
	}
	return nil
}

// Prompt formats the question for presentation, optionally including the
// lettered answer choices in canonical order.
func (q *Question) Prompt(includeOptions bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %d: %s", q.ID, q.Stem)

	if includeOptions {
		b.WriteString("\n")
		letters := make([]string, 0, len(q.Options))
		for letter := range q.Options {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		for _, letter := range letters {
			fmt.Fprintf(&b, "\n%s. %s", letter, q.Options[letter])
		}
	}
	return b.String()
}

// NormalizeStem collapses runs of whitespace and ensures the stem ends
// with terminal punctuation. Interrogative stems get a question mark,
// everything else a period.
func NormalizeStem(stem string) string {
	cleaned := strings.Join(strings.Fields(stem), " ")
	if cleaned == "" {
		return cleaned
	}
	if strings.HasSuffix(cleaned, ".") || strings.HasSuffix(cleaned, "?") ||
		strings.HasSuffix(cleaned, "!") || strings.HasSuffix(cleaned, ":") {
		return cleaned
	}

	questionWords := []string{"which", "what", "when", "where", "who", "why", "how"}
	lower := strings.ToLower(cleaned)
	for _, w := range questionWords {
		if strings.HasPrefix(lower, w) {
			return cleaned + "?"
		}
	}
	return cleaned + "."
}
