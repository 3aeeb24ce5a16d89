package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonlRecord is the flattened on-disk form of a Question: one
// self-contained object per line, options spread into fixed fields for
// easier downstream processing.
type jsonlRecord struct {
	ID                  int    `json:"id"`
	Stem                string `json:"stem"`
	OptionA             string `json:"option_a"`
	OptionB             string `json:"option_b"`
	OptionC             string `json:"option_c"`
	OptionD             string `json:"option_d"`
	CorrectAnswerLetter string `json:"correct_answer_letter"`
	CorrectAnswerText   string `json:"correct_answer_text"`
	Explanation         string `json:"explanation"`
	ExplanationMissing  bool   `json:"explanation_missing,omitempty"`
}

func toRecord(q Question) (jsonlRecord, error) {
	if err := q.Validate(CanonicalLetters); err != nil {
		return jsonlRecord{}, err
	}
	return jsonlRecord{
		ID:                  q.ID,
		Stem:                q.Stem,
		OptionA:             q.Options["A"],
		OptionB:             q.Options["B"],
		OptionC:             q.Options["C"],
		OptionD:             q.Options["D"],
		CorrectAnswerLetter: q.CorrectAnswerLetter,
		CorrectAnswerText:   q.CorrectAnswerText,
		Explanation:         q.Explanation,
		ExplanationMissing:  q.ExplanationMissing,
	}, nil
}

func (r jsonlRecord) toQuestion() Question {
	return Question{
		ID:   r.ID,
		Stem: r.Stem,
		Options: map[string]string{
			"A": r.OptionA,
			"B": r.OptionB,
			"C": r.OptionC,
			"D": r.OptionD,
		},
		CorrectAnswerLetter: r.CorrectAnswerLetter,
		CorrectAnswerText:   r.CorrectAnswerText,
		Explanation:         r.Explanation,
		ExplanationMissing:  r.ExplanationMissing,
	}
}

// Export writes the questions to path as newline-delimited JSON, one
// record per line in ascending id order. The write is atomic: content
// goes to a temporary file in the target directory first and is renamed
// into place only on success, so a failed export never leaves a partial
// artifact behind.
func (d *Dataset) Export(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".qbank-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary export file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeRecords(tmp, d.Questions); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish export file: %w", err)
	}
	return nil
}

func writeRecords(f *os.File, questions []Question) error {
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, q := range questions {
		rec, err := toRecord(q)
		if err != nil {
			return fmt.Errorf("failed to serialize question: %w", err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode question %d: %w", q.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// ExportSummary writes the run summary as an indented JSON object,
// atomically like Export.
func (d *Dataset) ExportSummary(path string) error {
	data, err := json.MarshalIndent(d.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".qbank-summary-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary summary file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush summary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish summary file: %w", err)
	}
	return nil
}

// LoadQuestions reads a JSONL artifact produced by Export back into
// Question records in file order.
func LoadQuestions(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var questions []Question
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode record: %w", lineNum, err)
		}
		questions = append(questions, rec.toQuestion())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return questions, nil
}

// Load reads a JSONL artifact and rebuilds a Dataset around it. The
// summary is recomputed from the loaded records with the expected total
// equal to the record count, since skip information is not part of the
// exported record stream.
func Load(path string) (*Dataset, error) {
	questions, err := LoadQuestions(path)
	if err != nil {
		return nil, err
	}
	return NewDataset(questions, nil, nil, len(questions)), nil
}
