// Package pipeline wires the extraction stages into a whole-document run:
// locate sections, parse the three segments, assemble the dataset.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/medcodeprep/qbank/pkg/assemble"
	"github.com/medcodeprep/qbank/pkg/config"
	"github.com/medcodeprep/qbank/pkg/extract"
	"github.com/medcodeprep/qbank/pkg/model"
	"github.com/medcodeprep/qbank/pkg/section"
	"github.com/medcodeprep/qbank/pkg/source"
)

// Run executes a full parse of the document supplied by the provider.
// Either a complete dataset is returned, possibly with per-id skips and
// warnings, or a fatal error (a missing section, an unusable source) and
// no output. Cancellation applies between whole-document runs; a run in
// progress completes its current stage before the context error surfaces.
func Run(ctx context.Context, provider source.Provider, cfg *config.Config) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := provider.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to read document pages: %w", err)
	}
	if err := source.ValidatePages(pages); err != nil {
		return nil, fmt.Errorf("invalid page stream: %w", err)
	}

	layout, err := locate(pages, cfg)
	if err != nil {
		return nil, err
	}

	cleaner := extract.NewCleaner(cfg.RunningHeader)
	markers := extract.NewMarkers(cfg.MarkerDelimiters, cfg.OptionLetters)

	questionLines := extract.Lines(pages, layout.Questions, cleaner)
	keyLines := extract.Lines(pages, layout.AnswerKey, cleaner)
	explanationLines := extract.Lines(pages, layout.Explanations, cleaner)

	// The three parsers read disjoint line streams and write only their
	// own outputs, so they run in parallel under a join barrier.
	var (
		blocks        []extract.BlockResult
		blockWarnings []string
		key           map[int]string
		keyWarnings   []string
		explanations  map[int]string
		explWarnings  []string
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		blocks, blockWarnings = extract.NewBlockParser(markers, cfg.OptionLetters).Parse(questionLines)
		return nil
	})
	g.Go(func() error {
		key, keyWarnings = extract.NewKeyParser(markers, cfg.ExpectedTotal).Parse(keyLines)
		return nil
	})
	g.Go(func() error {
		explanations, explWarnings = extract.NewExplanationParser(markers).Parse(explanationLines)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	warnings := make([]string, 0, len(blockWarnings)+len(keyWarnings)+len(explWarnings))
	warnings = append(warnings, blockWarnings...)
	warnings = append(warnings, keyWarnings...)
	warnings = append(warnings, explWarnings...)

	return assemble.New(cfg).Assemble(blocks, key, explanations, warnings), nil
}

// locate resolves the three section page ranges, either from explicit
// configuration overrides or by anchor scanning.
func locate(pages []source.Page, cfg *config.Config) (*section.Layout, error) {
	if cfg.Sections != nil {
		return &section.Layout{
			Questions:    section.Range{Start: cfg.Sections.Questions.Start, End: cfg.Sections.Questions.End},
			AnswerKey:    section.Range{Start: cfg.Sections.AnswerKey.Start, End: cfg.Sections.AnswerKey.End},
			Explanations: section.Range{Start: cfg.Sections.Explanations.Start, End: cfg.Sections.Explanations.End},
		}, nil
	}
	matcher := section.NewAnchorMatcher(cfg.AnswerKeyAnchors, cfg.ExplanationAnchors)
	return section.Locate(pages, matcher)
}
