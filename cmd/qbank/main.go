package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/medcodeprep/qbank/pkg/config"
	"github.com/medcodeprep/qbank/pkg/model"
	"github.com/medcodeprep/qbank/pkg/pipeline"
	"github.com/medcodeprep/qbank/pkg/source"
	"github.com/medcodeprep/qbank/pkg/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "qbank",
		Short: "Practice-test question extractor",
		Long: `Qbank turns PDF-extracted practice-test documents into validated
question datasets.

It correlates three independently parsed sections of a document --
question blocks, the answer key, and free-form explanations -- by
question id, enforces the record invariants across the join, and
exports the result as newline-delimited JSON.`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a practice-test document into a question dataset",
		Long: `Parse a practice-test document and export the question dataset.

Supported sources: PDF (requires pdftotext on PATH) and plain text with
form-feed page breaks.

Example:
  qbank parse --source cpc-practice-test.pdf
  qbank parse --source test.txt --output questions.jsonl --strict --stats
  qbank parse --source test.txt --questions-pages 4-35 --key-pages 36-40 --explanation-pages 41-80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcPath, _ := cmd.Flags().GetString("source")
			output, _ := cmd.Flags().GetString("output")
			summaryPath, _ := cmd.Flags().GetString("summary")
			configPath, _ := cmd.Flags().GetString("config")
			strict, _ := cmd.Flags().GetBool("strict")
			expected, _ := cmd.Flags().GetInt("expected")
			showStats, _ := cmd.Flags().GetBool("stats")
			questionsPages, _ := cmd.Flags().GetString("questions-pages")
			keyPages, _ := cmd.Flags().GetString("key-pages")
			explanationPages, _ := cmd.Flags().GetString("explanation-pages")

			if srcPath == "" {
				return fmt.Errorf("--source flag is required")
			}
			if _, err := os.Stat(srcPath); os.IsNotExist(err) {
				return fmt.Errorf("source file not found: %s", srcPath)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}
			if cmd.Flags().Changed("expected") {
				cfg.ExpectedTotal = expected
			}
			if err := applyPageOverrides(cfg, questionsPages, keyPages, explanationPages); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".jsonl"
			}

			fmt.Printf("Parsing practice test from: %s\n", srcPath)
			startTime := time.Now()

			dataset, err := pipeline.Run(cmd.Context(), source.FromPath(srcPath), cfg)
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}

			summary := dataset.Summary
			fmt.Printf("Parsed %d of %d questions (coverage %.1f%%)\n",
				summary.ParsedSuccessfully, summary.TotalExpected, summary.CoverageRatio*100)
			for _, skip := range summary.Skipped {
				fmt.Printf("  skipped %d: %s\n", skip.ID, skip.Reason)
			}
			for _, warning := range dataset.Warnings {
				fmt.Printf("  warning: %s\n", warning)
			}

			if err := dataset.Export(output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Dataset written to: %s\n", output)

			if summaryPath != "" {
				if err := dataset.ExportSummary(summaryPath); err != nil {
					return fmt.Errorf("summary export failed: %w", err)
				}
				fmt.Printf("Summary written to: %s\n", summaryPath)
			}

			if showStats {
				printStatistics(dataset.Statistics())
			}

			fmt.Printf("\nDone in %v\n", time.Since(startTime))
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", "", "Source document path (PDF or text)")
	cmd.Flags().StringP("output", "o", "", "Output JSONL path (default: source path with .jsonl)")
	cmd.Flags().String("summary", "", "Write the run summary JSON to this path")
	cmd.Flags().StringP("config", "c", "", "YAML configuration file")
	cmd.Flags().Bool("strict", false, "Skip questions without explanations instead of warning")
	cmd.Flags().Int("expected", 0, "Expected question count (default from config, 100)")
	cmd.Flags().Bool("stats", false, "Print dataset statistics")
	cmd.Flags().String("questions-pages", "", "Explicit questions page range, e.g. 4-35")
	cmd.Flags().String("key-pages", "", "Explicit answer-key page range, e.g. 36-40")
	cmd.Flags().String("explanation-pages", "", "Explicit explanations page range, e.g. 41-80")

	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for an exported dataset",
		Long: `Load an exported JSONL dataset and print its statistics.

Example:
  qbank stats --input questions.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			if input == "" {
				return fmt.Errorf("--input flag is required")
			}

			dataset, err := model.Load(input)
			if err != nil {
				return err
			}
			printStatistics(dataset.Statistics())
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Exported JSONL dataset path")
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch an intake directory and parse new documents",
		Long: `Watch a directory for newly dropped documents and run the full
pipeline on each one. Datasets are written next to the source files.

Stop with Ctrl-C; the run in progress completes first.

Example:
  qbank watch --dir ./intake`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			configPath, _ := cmd.Flags().GetString("config")
			if dir == "" {
				return fmt.Errorf("--dir flag is required")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			monitor, err := watch.NewMonitor(dir, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				for res := range monitor.Results() {
					if res.Err != nil {
						fmt.Fprintf(os.Stderr, "error: %v\n", res.Err)
						continue
					}
					fmt.Printf("Parsed %s: %d of %d questions -> %s\n",
						res.Path, res.Dataset.Summary.ParsedSuccessfully,
						res.Dataset.Summary.TotalExpected, res.OutputPath)
				}
			}()

			fmt.Printf("Watching %s for documents...\n", dir)
			if err := monitor.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Intake directory to watch")
	cmd.Flags().StringP("config", "c", "", "YAML configuration file")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyPageOverrides fills the section overrides from CLI range flags.
// All three ranges must be given together.
func applyPageOverrides(cfg *config.Config, questions, key, explanations string) error {
	if questions == "" && key == "" && explanations == "" {
		return nil
	}
	if questions == "" || key == "" || explanations == "" {
		return fmt.Errorf("page overrides require all of --questions-pages, --key-pages, and --explanation-pages")
	}

	q, err := parsePageRange(questions)
	if err != nil {
		return fmt.Errorf("invalid --questions-pages: %w", err)
	}
	k, err := parsePageRange(key)
	if err != nil {
		return fmt.Errorf("invalid --key-pages: %w", err)
	}
	e, err := parsePageRange(explanations)
	if err != nil {
		return fmt.Errorf("invalid --explanation-pages: %w", err)
	}

	cfg.Sections = &config.SectionOverrides{Questions: q, AnswerKey: k, Explanations: e}
	return nil
}

func parsePageRange(s string) (config.PageRange, error) {
	var r config.PageRange
	if _, err := fmt.Sscanf(s, "%d-%d", &r.Start, &r.End); err != nil {
		return r, fmt.Errorf("expected START-END, got %q", s)
	}
	if r.Start < 1 || r.End < r.Start {
		return r, fmt.Errorf("range %q is not ascending from 1", s)
	}
	return r, nil
}

func printStatistics(stats model.Statistics) {
	fmt.Println("\nDataset Statistics:")
	fmt.Printf("  Total questions:            %d\n", stats.TotalQuestions)
	for _, letter := range model.CanonicalLetters {
		fmt.Printf("  Answer %s:                   %d\n", letter, stats.AnswerDistribution[letter])
	}
	fmt.Printf("  Avg stem length:            %.1f\n", stats.AvgStemLength)
	fmt.Printf("  Avg explanation length:     %.1f\n", stats.AvgExplanationLength)
	fmt.Printf("  Questions with explanation: %d\n", stats.QuestionsWithExplanation)
}
