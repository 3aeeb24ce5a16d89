package extract

import (
	"strings"
	"testing"
)

var testLetters = []string{"A", "B", "C", "D"}

func newTestBlockParser() *BlockParser {
	return NewBlockParser(NewMarkers(".)", testLetters), testLetters)
}

func TestBlockParser_WellFormed(t *testing.T) {
	lines := strings.Split(`47. Which CPT code describes an MRI of the brain without contrast?
A. 70551
B. 70552
C. 70553
D. 70554`, "\n")

	results, warnings := newTestBlockParser().Parse(lines)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if !res.Valid() {
		t.Fatalf("block invalid: %s", res.Reason)
	}
	if res.Block.ID != 47 {
		t.Errorf("ID = %d, want 47", res.Block.ID)
	}
	if res.Block.Stem != "Which CPT code describes an MRI of the brain without contrast?" {
		t.Errorf("unexpected stem: %q", res.Block.Stem)
	}
	if res.Block.Options["A"] != "70551" || res.Block.Options["D"] != "70554" {
		t.Errorf("unexpected options: %v", res.Block.Options)
	}
}

func TestBlockParser_MultiLineStemAndOptions(t *testing.T) {
	lines := []string{
		"12. A patient presents with chest pain",
		"and shortness of breath lasting two days.",
		"Which ICD-10-CM code applies?",
		"A. R07.9 chest pain,",
		"unspecified",
		"B. R06.02",
		"C. I20.9",
		"D. R07.89",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 1 || !results[0].Valid() {
		t.Fatalf("expected one valid block, got %+v", results)
	}

	block := results[0].Block
	wantStem := "A patient presents with chest pain and shortness of breath lasting two days. Which ICD-10-CM code applies?"
	if block.Stem != wantStem {
		t.Errorf("stem = %q, want %q", block.Stem, wantStem)
	}
	if block.Options["A"] != "R07.9 chest pain, unspecified" {
		t.Errorf("option A = %q", block.Options["A"])
	}
}

func TestBlockParser_ParenthesisDelimiter(t *testing.T) {
	lines := []string{
		"3) Which HCPCS code covers a standard wheelchair?",
		"A) K0001",
		"B) K0002",
		"C) K0003",
		"D) K0004",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 1 || !results[0].Valid() {
		t.Fatalf("expected one valid block, got %+v", results)
	}
	if results[0].Block.ID != 3 {
		t.Errorf("ID = %d, want 3", results[0].Block.ID)
	}
}

func TestBlockParser_EmbeddedNumbersDoNotSplit(t *testing.T) {
	lines := []string{
		"8. A lesion measuring 2.5 cm was excised from the arm.",
		"The specimen weighed 1.2 grams. Which code applies?",
		"A. 11402",
		"B. 11403",
		"C. 11404",
		"D. 11406",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 1 {
		t.Fatalf("embedded decimals split the block: %d results", len(results))
	}
	if !results[0].Valid() {
		t.Fatalf("block invalid: %s", results[0].Reason)
	}
	if !strings.Contains(results[0].Block.Stem, "2.5 cm") {
		t.Errorf("stem lost embedded measurement: %q", results[0].Block.Stem)
	}
}

func TestBlockParser_IncompleteBlockIsInvalid(t *testing.T) {
	lines := []string{
		"5. First question with only two options?",
		"A. yes",
		"B. no",
		"6. Second question, complete?",
		"A. one",
		"B. two",
		"C. three",
		"D. four",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Valid() {
		t.Error("block 5 should be invalid")
	}
	if results[0].ID != 5 || !strings.Contains(results[0].Reason, "2 of 4") {
		t.Errorf("unexpected invalid result: %+v", results[0])
	}
	if !results[1].Valid() {
		t.Errorf("block 6 should be valid, got reason %q", results[1].Reason)
	}
}

func TestBlockParser_MissingStem(t *testing.T) {
	lines := []string{
		"9.",
		"A. one",
		"B. two",
		"C. three",
		"D. four",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Valid() {
		t.Fatal("block without stem should be invalid")
	}
	if !strings.Contains(results[0].Reason, "stem") {
		t.Errorf("reason = %q, want stem mention", results[0].Reason)
	}
}

func TestBlockParser_DuplicateIDWarns(t *testing.T) {
	lines := []string{
		"4. First version?",
		"A. a", "B. b", "C. c", "D. d",
		"4. Second version?",
		"A. w", "B. x", "C. y", "D. z",
	}

	results, warnings := newTestBlockParser().Parse(lines)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "duplicate") {
		t.Errorf("expected duplicate warning, got %v", warnings)
	}
	// Both occurrences are emitted; the assembler keeps the later one.
	if results[1].Block.Options["A"] != "w" {
		t.Errorf("later occurrence not preserved: %v", results[1].Block.Options)
	}
}

func TestBlockParser_LeadingProseIgnored(t *testing.T) {
	lines := []string{
		"Section 1: Surgery",
		"Answer all questions.",
		"1. Which code?",
		"A. a", "B. b", "C. c", "D. d",
	}

	results, _ := newTestBlockParser().Parse(lines)
	if len(results) != 1 || !results[0].Valid() {
		t.Fatalf("expected one valid block, got %+v", results)
	}
}
