package model

import (
	"sort"
)

// SkipReason identifies why a question id was excluded from the dataset.
type SkipReason string

const (
	// SkipMalformedQuestionBlock marks ids whose question block could not
	// be parsed into a stem and a full option set.
	SkipMalformedQuestionBlock SkipReason = "malformed_question_block"

	// SkipAnswerKeyGap marks ids with no entry in the answer key.
	SkipAnswerKeyGap SkipReason = "answer_key_gap"

	// SkipAnswerMismatch marks ids whose answer-key letter is not among
	// the parsed options.
	SkipAnswerMismatch SkipReason = "answer_mismatch"

	// SkipIncompleteRecord marks ids dropped in strict mode for missing
	// an explanation.
	SkipIncompleteRecord SkipReason = "incomplete_record"
)

// Skip records a single excluded question id and the reason.
type Skip struct {
	ID     int        `json:"id"`
	Reason SkipReason `json:"reason"`
}

// Summary reports how much of the expected question set was recovered.
type Summary struct {
	TotalExpected      int     `json:"total_expected"`
	ParsedSuccessfully int     `json:"parsed_successfully"`
	Skipped            []Skip  `json:"skipped"`
	CoverageRatio      float64 `json:"coverage_ratio"`
}

// Dataset is the final artifact of a parse run: the recovered questions in
// ascending id order plus coverage accounting and non-fatal warnings.
type Dataset struct {
	Questions []Question `json:"questions"`
	Summary   Summary    `json:"summary"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// NewDataset builds a Dataset from assembled questions, sorting them by id
// and computing the summary against the expected total.
func NewDataset(questions []Question, skipped []Skip, warnings []string, expected int) *Dataset {
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].ID < skipped[j].ID })

	ratio := 0.0
	if expected > 0 {
		ratio = float64(len(questions)) / float64(expected)
	}

	return &Dataset{
		Questions: questions,
		Summary: Summary{
			TotalExpected:      expected,
			ParsedSuccessfully: len(questions),
			Skipped:            skipped,
			CoverageRatio:      ratio,
		},
		Warnings: warnings,
	}
}

// Statistics describes the content of a dataset.
type Statistics struct {
	TotalQuestions           int            `json:"total_questions"`
	AnswerDistribution       map[string]int `json:"answer_distribution"`
	AvgStemLength            float64        `json:"avg_stem_length"`
	AvgExplanationLength     float64        `json:"avg_explanation_length"`
	QuestionsWithExplanation int            `json:"questions_with_explanations"`
}

// Statistics computes answer-letter distribution and average text lengths
// over the dataset.
func (d *Dataset) Statistics() Statistics {
	stats := Statistics{
		TotalQuestions:     len(d.Questions),
		AnswerDistribution: make(map[string]int),
	}
	if len(d.Questions) == 0 {
		return stats
	}

	var stemLen, explLen int
	for _, q := range d.Questions {
		stats.AnswerDistribution[q.CorrectAnswerLetter]++
		stemLen += len(q.Stem)
		explLen += len(q.Explanation)
		if q.Explanation != "" {
			stats.QuestionsWithExplanation++
		}
	}
	stats.AvgStemLength = float64(stemLen) / float64(len(d.Questions))
	stats.AvgExplanationLength = float64(explLen) / float64(len(d.Questions))
	return stats
}
