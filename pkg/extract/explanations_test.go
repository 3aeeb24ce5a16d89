package extract

import (
	"strings"
	"testing"
)

func newTestExplanationParser() *ExplanationParser {
	return NewExplanationParser(NewMarkers(".)", testLetters))
}

func TestExplanationParser_Basic(t *testing.T) {
	lines := []string{
		"Explanations",
		"1. 70551 is the correct CPT code for MRI",
		"of the brain without contrast.",
		"2. The documented visit supports 99213.",
	}

	explanations, warnings := newTestExplanationParser().Parse(lines)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(explanations) != 2 {
		t.Fatalf("got %d explanations, want 2", len(explanations))
	}
	want := "70551 is the correct CPT code for MRI of the brain without contrast."
	if explanations[1] != want {
		t.Errorf("explanation 1 = %q, want %q", explanations[1], want)
	}
}

func TestExplanationParser_LeadInStripped(t *testing.T) {
	lines := []string{
		"5. Which code covers the excision? A. 40800 B. 41105",
		"Explanation: CPT code 41105 specifically covers excision",
		"of lesions on the floor of the mouth.",
	}

	explanations, _ := newTestExplanationParser().Parse(lines)
	want := "CPT code 41105 specifically covers excision of lesions on the floor of the mouth."
	if explanations[5] != want {
		t.Errorf("explanation 5 = %q, want %q", explanations[5], want)
	}
}

func TestExplanationParser_EmbeddedNumbersDoNotSplit(t *testing.T) {
	lines := []string{
		"9. The lesion measured 3.1 cm before excision,",
		"which places it in the 2.1 to 3.0 cm bracket per CPT guidance.",
	}

	explanations, _ := newTestExplanationParser().Parse(lines)
	if len(explanations) != 1 {
		t.Fatalf("embedded decimals split the block: %d explanations", len(explanations))
	}
	if !strings.Contains(explanations[9], "3.1 cm") {
		t.Errorf("explanation lost embedded measurement: %q", explanations[9])
	}
}

func TestExplanationParser_WhitespaceNormalized(t *testing.T) {
	lines := []string{
		"2.   Multiple   spaces",
		"",
		"  and blank lines   collapse.  ",
	}

	explanations, _ := newTestExplanationParser().Parse(lines)
	want := "Multiple spaces and blank lines collapse."
	if explanations[2] != want {
		t.Errorf("explanation 2 = %q, want %q", explanations[2], want)
	}
}

func TestExplanationParser_DuplicateLaterWins(t *testing.T) {
	lines := []string{
		"3. First explanation.",
		"3. Second explanation.",
	}

	explanations, warnings := newTestExplanationParser().Parse(lines)
	if explanations[3] != "Second explanation." {
		t.Errorf("explanation 3 = %q, want later occurrence", explanations[3])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "duplicate") {
		t.Errorf("expected duplicate warning, got %v", warnings)
	}
}

func TestExplanationParser_EmptyBlockWarned(t *testing.T) {
	lines := []string{
		"4.",
		"5. A real explanation.",
	}

	explanations, warnings := newTestExplanationParser().Parse(lines)
	if _, ok := explanations[4]; ok {
		t.Error("empty block should not produce an entry")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "empty") {
		t.Errorf("expected empty-block warning, got %v", warnings)
	}
}
