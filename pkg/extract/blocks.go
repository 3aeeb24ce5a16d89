package extract

import (
	"fmt"
	"strings"
)

// Block is a fully parsed question block: stem plus the complete set of
// lettered options.
type Block struct {
	ID      int
	Stem    string
	Options map[string]string
}

// BlockResult is the tagged outcome for one question id. Exactly one of
// the two shapes holds: Block is set for a valid block, otherwise Reason
// explains why the block was rejected. Incomplete blocks never masquerade
// as valid data downstream.
type BlockResult struct {
	ID     int
	Block  *Block
	Reason string
}

// Valid reports whether the result carries a complete block.
func (r BlockResult) Valid() bool {
	return r.Block != nil
}

// blockState is the phase of the block-scanning state machine.
type blockState int

const (
	stateSeekMarker blockState = iota
	stateStem
	stateOption
)

// BlockParser segments the questions line stream into per-id blocks.
type BlockParser struct {
	markers *Markers
	letters []string
}

// NewBlockParser builds a parser over the given marker heuristics and
// ordered option letters.
func NewBlockParser(markers *Markers, letters []string) *BlockParser {
	return &BlockParser{markers: markers, letters: letters}
}

// current accumulates one in-progress block.
type current struct {
	id      int
	stem    []string
	letter  string
	options map[string][]string
}

// Parse runs the state machine over the line stream and returns the
// ordered block results plus non-fatal warnings. A new block starts at
// each id marker; lines before the first option marker accumulate into
// the stem, later lines into the active option. A block missing its stem
// or any option is emitted as invalid and parsing continues.
func (p *BlockParser) Parse(lines []string) ([]BlockResult, []string) {
	var results []BlockResult
	var warnings []string
	seen := make(map[int]bool)

	state := stateSeekMarker
	var cur *current

	finish := func() {
		if cur == nil {
			return
		}
		if seen[cur.id] {
			warnings = append(warnings, fmt.Sprintf("duplicate question block for id %d; keeping the later occurrence", cur.id))
		}
		seen[cur.id] = true
		results = append(results, p.finalize(cur))
		cur = nil
	}

	for _, line := range lines {
		if id, rest, ok := p.markers.MatchID(line); ok {
			finish()
			cur = &current{id: id, options: make(map[string][]string)}
			if rest != "" {
				cur.stem = append(cur.stem, rest)
			}
			state = stateStem
			continue
		}

		switch state {
		case stateSeekMarker:
			// Prose before the first question (instructions, headings)
			// is ignored.

		case stateStem:
			if letter, rest, ok := p.markers.MatchOption(line); ok {
				cur.letter = letter
				if rest != "" {
					cur.options[letter] = append(cur.options[letter], rest)
				} else {
					cur.options[letter] = []string{}
				}
				state = stateOption
				continue
			}
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				cur.stem = append(cur.stem, trimmed)
			}

		case stateOption:
			if letter, rest, ok := p.markers.MatchOption(line); ok {
				cur.letter = letter
				if rest != "" {
					cur.options[letter] = append(cur.options[letter], rest)
				} else {
					cur.options[letter] = []string{}
				}
				continue
			}
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				cur.options[cur.letter] = append(cur.options[cur.letter], trimmed)
			}
		}
	}
	finish()

	return results, warnings
}

// finalize validates the accumulated block and produces the tagged result.
func (p *BlockParser) finalize(cur *current) BlockResult {
	stem := collapse(strings.Join(cur.stem, " "))
	if stem == "" {
		return BlockResult{ID: cur.id, Reason: "missing question stem"}
	}

	options := make(map[string]string, len(p.letters))
	for _, letter := range p.letters {
		parts, ok := cur.options[letter]
		if !ok {
			return BlockResult{
				ID:     cur.id,
				Reason: fmt.Sprintf("found %d of %d options (missing %s)", len(cur.options), len(p.letters), letter),
			}
		}
		text := collapse(strings.Join(parts, " "))
		if text == "" {
			return BlockResult{ID: cur.id, Reason: fmt.Sprintf("option %s is empty", letter)}
		}
		options[letter] = text
	}

	return BlockResult{
		ID: cur.id,
		Block: &Block{
			ID:      cur.id,
			Stem:    stem,
			Options: options,
		},
	}
}
