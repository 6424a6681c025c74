package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gosuri/uilive"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
	"github.com/bond-kaneko/go-calc-watcher/filenotify"
	"github.com/bond-kaneko/go-calc-watcher/log"
	"github.com/bond-kaneko/go-calc-watcher/render"
	"github.com/bond-kaneko/go-calc-watcher/sheet"
)

// LiveWriter is the output the watcher renders into. *uilive.Writer
// satisfies it and redraws its buffer in place on every Flush.
type LiveWriter interface {
	io.Writer
	Flush() error
	Start()
	Stop()
}

// Options configures a SheetWatcher
type Options struct {
	DebounceDelay time.Duration
	// FileFilter decides whether a path is a sheet
	FileFilter func(string) bool
	Poll       bool
	// PollInterval is used by the polling watcher
	PollInterval time.Duration
	Printer      *render.Printer
	// Bell rings the terminal bell when a sheet has failing lines
	Bell bool
	// Writer overrides the live terminal writer
	Writer LiveWriter
}

// SheetWatcher watches calc sheets and re-runs them when they change
type SheetWatcher struct {
	target        string
	isDir         bool
	debounceDelay time.Duration
	fileFilter    func(string) bool
	watcher       filenotify.FileWatcher
	writer        LiveWriter
	printer       *render.Printer
	bell          bool

	// runMu serializes sheet runs started by overlapping timers
	runMu sync.Mutex
	// stopped is set under runMu when Watch returns; later timer runs are dropped
	stopped bool
	// mu guards changedFiles and lastChangedFile, which are touched by the
	// event loop and by the debounce timer
	mu              sync.Mutex
	changedFiles    map[string]bool
	lastChangedFile string
}

// NewSheetWatcher creates a watcher for a sheet file or a directory of sheets
func NewSheetWatcher(target string, opts Options) (*SheetWatcher, error) {
	if target == "" {
		var err error
		target, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	target, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch target: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch target: %w", err)
	}

	watcher, err := filenotify.New(opts.Poll, opts.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize watcher: %w", err)
	}

	writer := opts.Writer
	if writer == nil {
		live := uilive.New()
		live.RefreshInterval = time.Millisecond * 100
		writer = live
	}

	fileFilter := opts.FileFilter
	if fileFilter == nil {
		fileFilter = func(path string) bool {
			return filepath.Ext(path) == ".calc"
		}
	}
	if !info.IsDir() {
		// Only the target itself counts when watching a single sheet
		fileFilter = func(path string) bool {
			return filepath.Clean(path) == target
		}
	}

	printer := opts.Printer
	if printer == nil {
		printer = render.NewPrinter(-1, true)
	}

	debounce := opts.DebounceDelay
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &SheetWatcher{
		target:        target,
		isDir:         info.IsDir(),
		debounceDelay: debounce,
		fileFilter:    fileFilter,
		watcher:       watcher,
		writer:        writer,
		printer:       printer,
		bell:          opts.Bell,
		changedFiles:  make(map[string]bool),
	}, nil
}

// Watch runs every sheet once, then re-runs changed sheets until ctx is done
func (sw *SheetWatcher) Watch(ctx context.Context) error {
	defer sw.watcher.Close()

	if err := sw.addWatches(); err != nil {
		return fmt.Errorf("error setting up watch: %w", err)
	}

	log.Info("Watching for sheet changes. Press Ctrl+C to exit.", "target", sw.target)

	sw.runMu.Lock()
	sw.stopped = false
	sw.runMu.Unlock()

	// Start the live writer
	sw.writer.Start()
	defer sw.writer.Stop()

	// Run everything immediately on startup
	sw.RunSheets()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		// Wait for a run already in progress before the writer stops
		sw.runMu.Lock()
		sw.stopped = true
		sw.runMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-sw.watcher.Events():
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !sw.fileFilter(event.Name) {
				continue
			}

			log.Debug("sheet changed", "path", event.Name, "op", event.Op.String())
			sw.AddChangedFile(event.Name)

			// Debounce so a burst of writes triggers a single run
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(sw.debounceDelay, sw.rerun)

		case err, ok := <-sw.watcher.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

// addWatches registers the target; directories are walked, skipping hidden ones
func (sw *SheetWatcher) addWatches() error {
	if !sw.isDir {
		// Watch the parent so editors that replace the file on save are seen
		return sw.watcher.Add(filepath.Dir(sw.target))
	}

	return filepath.Walk(sw.target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != sw.target && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return sw.watcher.Add(path)
	})
}

// AddChangedFile marks a sheet as changed
func (sw *SheetWatcher) AddChangedFile(file string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.changedFiles[file] = true
	sw.lastChangedFile = file
}

// LastChangedFile returns the most recently changed sheet
func (sw *SheetWatcher) LastChangedFile() string {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	return sw.lastChangedFile
}

// forgetChanged drops the given sheets from the changed set, keeping any
// that changed again after the run was planned
func (sw *SheetWatcher) forgetChanged(sheets []string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	for _, path := range sheets {
		delete(sw.changedFiles, path)
	}
}

// SheetsToRun returns the sheets for the next run in sorted order: the
// changed ones if there are any, otherwise every sheet under the target
func (sw *SheetWatcher) SheetsToRun() ([]string, error) {
	sw.mu.Lock()
	changed := make([]string, 0, len(sw.changedFiles))
	for file := range sw.changedFiles {
		changed = append(changed, file)
	}
	sw.mu.Unlock()

	if len(changed) > 0 {
		sort.Strings(changed)
		return changed, nil
	}

	if !sw.isDir {
		return []string{sw.target}, nil
	}

	var sheets []string
	err := filepath.Walk(sw.target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != sw.target && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if sw.fileFilter(path) {
			sheets = append(sheets, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	sort.Strings(sheets)
	return sheets, nil
}

// rerun is the debounce callback. It does nothing once Watch has returned.
func (sw *SheetWatcher) rerun() {
	sw.runMu.Lock()
	defer sw.runMu.Unlock()

	if sw.stopped {
		return
	}

	// Show which file changed; the run below flushes it
	fmt.Fprintf(sw.writer, "%s changed. Running sheets again.\n", filepath.Base(sw.LastChangedFile()))
	sw.runSheets()
}

// RunSheets runs the pending sheets and renders their reports. It returns
// the number of sheets that had failures or could not be loaded.
func (sw *SheetWatcher) RunSheets() int {
	sw.runMu.Lock()
	defer sw.runMu.Unlock()

	return sw.runSheets()
}

func (sw *SheetWatcher) runSheets() int {
	sheets, err := sw.SheetsToRun()
	if err != nil {
		fmt.Fprintf(sw.writer, "Watch error: %v\n", err)
		sw.writer.Flush()
		return 1
	}

	// Forget these before running so new edits queue another run
	sw.forgetChanged(sheets)

	if len(sheets) == 0 {
		fmt.Fprintf(sw.writer, "No sheets found in %s\n", sw.target)
		sw.writer.Flush()
		return 0
	}

	failed := 0
	for _, path := range sheets {
		if !sw.runSheet(path) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(sw.writer, "%d of %d sheets have errors\n", failed, len(sheets))
		if sw.bell {
			fmt.Print("\a") // Play bell sound
		}
	} else {
		fmt.Fprintf(sw.writer, "ALL SHEETS OK (%d)\n", len(sheets))
	}
	sw.writer.Flush()

	return failed
}

// runSheet loads, runs and renders one sheet, reporting whether it succeeded
func (sw *SheetWatcher) runSheet(path string) bool {
	s, err := sheet.Load(path)
	if err != nil {
		// A sheet deleted after its change event is not an error
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("sheet removed before run", "path", path)
			return true
		}
		sw.printer.Error(sw.writer, err)
		return false
	}

	report := s.Run(calculator.NewCalculator())
	sw.printer.Report(sw.writer, report)
	if !report.OK() {
		log.Debug("sheet has failing lines", "path", path, "failed", report.Failed())
	}
	return report.OK()
}

// Stop stops watching
func (sw *SheetWatcher) Stop() error {
	return sw.watcher.Close()
}
