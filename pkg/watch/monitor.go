// Package watch monitors an intake directory and runs the extraction
// pipeline on each newly dropped document.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"

	"github.com/medcodeprep/qbank/pkg/config"
	"github.com/medcodeprep/qbank/pkg/model"
	"github.com/medcodeprep/qbank/pkg/pipeline"
	"github.com/medcodeprep/qbank/pkg/source"
)

// settleDelay gives the writer time to finish the file after the create
// event before the run starts.
const settleDelay = 200 * time.Millisecond

// Result reports the outcome of one whole-document run.
type Result struct {
	// Path is the document that triggered the run.
	Path string

	// Dataset is the parse output; nil when Err is set.
	Dataset *model.Dataset

	// OutputPath is where the dataset artifact was written.
	OutputPath string

	// Err is the fatal error of the run, if any.
	Err error
}

// Monitor watches an intake directory for new documents. Each document
// gets a full pipeline run; the dataset is exported next to the source
// with a .jsonl suffix and the summary with .summary.json.
type Monitor struct {
	dir       string
	cfg       *config.Config
	watcher   *fsnotify.Watcher
	results   chan Result
	seen      map[string]bool
	seenMu    sync.Mutex
	closeOnce sync.Once
}

// NewMonitor creates a monitor for the given directory. The directory
// must exist.
func NewMonitor(dir string, cfg *config.Config) (*Monitor, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat intake directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("intake path %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Monitor{
		dir:     dir,
		cfg:     cfg,
		watcher: watcher,
		results: make(chan Result),
		seen:    make(map[string]bool),
	}, nil
}

// Results delivers one Result per completed run.
func (m *Monitor) Results() <-chan Result {
	return m.results
}

// Run processes filesystem events until the context is cancelled.
// Cancellation takes effect between runs; a run already started finishes
// and its result is delivered before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isDocument(event.Name) || !m.markSeen(event.Name) {
				continue
			}
			time.Sleep(settleDelay)
			res := m.process(ctx, event.Name)
			select {
			case m.results <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.watcher.Close()
		close(m.results)
	})
}

// process runs the pipeline over one document and exports the artifacts.
func (m *Monitor) process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	dataset, err := pipeline.Run(ctx, source.FromPath(path), m.cfg)
	if err != nil {
		res.Err = fmt.Errorf("failed to parse %s: %w", path, err)
		return res
	}
	res.Dataset = dataset

	base := strings.TrimSuffix(path, filepath.Ext(path))
	res.OutputPath = base + ".jsonl"
	if err := dataset.Export(res.OutputPath); err != nil {
		res.Err = fmt.Errorf("failed to export %s: %w", res.OutputPath, err)
		return res
	}
	if err := dataset.ExportSummary(base + ".summary.json"); err != nil {
		res.Err = fmt.Errorf("failed to export summary for %s: %w", path, err)
	}
	return res
}

// markSeen records the path and reports whether it was new. Write events
// following the create of the same file do not retrigger a run.
func (m *Monitor) markSeen(path string) bool {
	m.seenMu.Lock()
	defer m.seenMu.Unlock()
	if m.seen[path] {
		return false
	}
	m.seen[path] = true
	return true
}

// isDocument reports whether the file extension is a supported source.
func isDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".pdf":
		return true
	}
	return false
}
