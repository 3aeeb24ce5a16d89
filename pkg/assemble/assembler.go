// Package assemble joins the outputs of the three segment parsers into a
// validated dataset.
package assemble

import (
	"fmt"
	"sort"

	"github.com/medcodeprep/qbank/pkg/config"
	"github.com/medcodeprep/qbank/pkg/extract"
	"github.com/medcodeprep/qbank/pkg/model"
)

// Assembler joins question blocks, answer-key entries, and explanations
// by id and enforces the record invariants.
type Assembler struct {
	cfg *config.Config
}

// New builds an Assembler over the given configuration.
func New(cfg *config.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble produces the final dataset. Every id encountered in any of the
// three inputs ends up either as a Question or in the skip list with a
// reason, never both and never neither. Per-id problems are recorded and
// assembly continues; nothing here aborts the run.
func (a *Assembler) Assemble(blocks []extract.BlockResult, key map[int]string, explanations map[int]string, warnings []string) *model.Dataset {
	// Later blocks win on duplicate ids; the parser has already warned.
	byID := make(map[int]extract.BlockResult)
	for _, res := range blocks {
		byID[res.ID] = res
	}

	ids := unionIDs(byID, key, explanations)

	var questions []model.Question
	var skipped []model.Skip

	for _, id := range ids {
		res, ok := byID[id]
		if !ok || !res.Valid() {
			if ok && res.Reason != "" {
				warnings = append(warnings, fmt.Sprintf("question %d: %s", id, res.Reason))
			}
			skipped = append(skipped, model.Skip{ID: id, Reason: model.SkipMalformedQuestionBlock})
			continue
		}
		block := res.Block

		letter, ok := key[id]
		if !ok {
			skipped = append(skipped, model.Skip{ID: id, Reason: model.SkipAnswerKeyGap})
			continue
		}

		answerText, ok := block.Options[letter]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("question %d: answer letter %s not among parsed options", id, letter))
			skipped = append(skipped, model.Skip{ID: id, Reason: model.SkipAnswerMismatch})
			continue
		}

		explanation, hasExplanation := explanations[id]
		if !hasExplanation {
			if a.cfg.Strict {
				skipped = append(skipped, model.Skip{ID: id, Reason: model.SkipIncompleteRecord})
				continue
			}
			warnings = append(warnings, fmt.Sprintf("question %d: no explanation found", id))
		}

		questions = append(questions, model.Question{
			ID:                  id,
			Stem:                model.NormalizeStem(block.Stem),
			Options:             block.Options,
			CorrectAnswerLetter: letter,
			CorrectAnswerText:   answerText,
			Explanation:         explanation,
			ExplanationMissing:  !hasExplanation,
		})
	}

	return model.NewDataset(questions, skipped, warnings, a.cfg.ExpectedTotal)
}

// unionIDs collects every id present in any input, ascending.
func unionIDs(blocks map[int]extract.BlockResult, key map[int]string, explanations map[int]string) []int {
	set := make(map[int]bool)
	for id := range blocks {
		set[id] = true
	}
	for id := range key {
		set[id] = true
	}
	for id := range explanations {
		set[id] = true
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
