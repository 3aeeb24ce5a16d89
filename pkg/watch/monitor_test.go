package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/medcodeprep/qbank/pkg/config"
)

const watchTestDocument = "Practice Test\nInstructions: pick the best answer.\n" +
	"\f" +
	"1. Which CPT code describes an MRI of the brain without contrast?\n" +
	"A. 70551\nB. 70552\nC. 70553\nD. 70554\n" +
	"\f" +
	"Answer Key\n[ ] 1. A. 70551\n" +
	"\f" +
	"Explanations\n1. Explanation: 70551 reports brain MRI without contrast.\n"

func TestNewMonitorMissingDirectory(t *testing.T) {
	_, err := NewMonitor(filepath.Join(t.TempDir(), "absent"), config.Default())
	if err == nil {
		t.Fatal("expected an error for a missing intake directory")
	}
}

func TestNewMonitorNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	_, err := NewMonitor(path, config.Default())
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected not-a-directory error, got %v", err)
	}
}

func TestMonitorProcessesDroppedDocument(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ExpectedTotal = 1
	cfg.RunningHeader = ""

	monitor, err := NewMonitor(dir, cfg)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	docPath := filepath.Join(dir, "exam.txt")
	if err := os.WriteFile(docPath, []byte(watchTestDocument), 0644); err != nil {
		t.Fatalf("failed to drop document: %v", err)
	}

	var res Result
	select {
	case res = <-monitor.Results():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a result")
	}

	if res.Err != nil {
		t.Fatalf("run failed: %v", res.Err)
	}
	if res.Path != docPath {
		t.Errorf("expected path %s, got %s", docPath, res.Path)
	}
	if res.Dataset == nil || len(res.Dataset.Questions) != 1 {
		t.Fatalf("expected one parsed question, got %+v", res.Dataset)
	}
	if want := filepath.Join(dir, "exam.jsonl"); res.OutputPath != want {
		t.Errorf("expected output %s, got %s", want, res.OutputPath)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Errorf("dataset artifact missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "exam.summary.json")); err != nil {
		t.Errorf("summary artifact missing: %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestIsDocument(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"exam.txt", true},
		{"exam.pdf", true},
		{"EXAM.PDF", true},
		{"exam.jsonl", false},
		{"exam.summary.json", false},
		{"notes.md", false},
	}
	for _, tc := range cases {
		if got := isDocument(tc.path); got != tc.want {
			t.Errorf("isDocument(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
