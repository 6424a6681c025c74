package filenotify

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// errPollerClosed is returned when adding to a closed poller
var errPollerClosed = errors.New("polling watcher is closed")

// PollingWatcher is an implementation of FileWatcher based on polling
type PollingWatcher struct {
	// interval is the time between polling for file changes
	interval time.Duration
	// files is the list of files and directories being watched
	files map[string]fileInfo
	// entries holds the last seen contents of each watched directory
	entries map[string]map[string]fileInfo
	// events is the channel where events are reported
	events chan fsnotify.Event
	// errors is the channel where errors are reported
	errors chan error
	// stop is used to stop the polling
	stop chan struct{}
	// mutex guards access to files and entries
	mutex sync.Mutex
	// done is closed when polling has stopped
	done      chan struct{}
	closeOnce sync.Once
}

type fileInfo struct {
	ModTime time.Time
	Size    int64
	IsDir   bool
}

func newFileInfo(fi os.FileInfo) fileInfo {
	return fileInfo{
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
		IsDir:   fi.IsDir(),
	}
}

func (f fileInfo) changed(other fileInfo) bool {
	return !f.ModTime.Equal(other.ModTime) || f.Size != other.Size
}

// NewPollingWatcher returns a new polling watcher with the given interval
func NewPollingWatcher(interval time.Duration) FileWatcher {
	watcher := &PollingWatcher{
		interval: interval,
		files:    make(map[string]fileInfo),
		entries:  make(map[string]map[string]fileInfo),
		events:   make(chan fsnotify.Event),
		errors:   make(chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go watcher.poll()
	return watcher
}

// Add adds a file or directory to the watch list. Directories are watched
// one level deep, like fsnotify.
func (w *PollingWatcher) Add(name string) error {
	select {
	case <-w.stop:
		return errPollerClosed
	default:
	}

	f, err := os.Stat(name)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.files[name] = newFileInfo(f)
	if f.IsDir() {
		children, err := readEntries(name)
		if err != nil {
			return err
		}
		w.entries[name] = children
	}

	return nil
}

// Remove removes a file or directory from the watch list
func (w *PollingWatcher) Remove(name string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if _, exists := w.files[name]; !exists {
		return errors.New("file or directory is not being watched")
	}

	delete(w.files, name)
	delete(w.entries, name)
	return nil
}

// Events returns the event channel
func (w *PollingWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *PollingWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the polling watcher. It is safe to call more than once.
func (w *PollingWatcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.stop)
		<-w.done
		close(w.events)
		close(w.errors)
	})
	return nil
}

// poll checks for changes to the watched files at the specified interval
func (w *PollingWatcher) poll() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			events, errs := w.checkFiles()
			if !w.deliver(events, errs) {
				return
			}
		case <-w.stop:
			return
		}
	}
}

// deliver sends collected events and errors. It returns false if the
// watcher was stopped while sending.
func (w *PollingWatcher) deliver(events []fsnotify.Event, errs []error) bool {
	for _, event := range events {
		select {
		case w.events <- event:
		case <-w.stop:
			return false
		}
	}
	for _, err := range errs {
		select {
		case w.errors <- err:
		case <-w.stop:
			return false
		}
	}
	return true
}

// checkFiles compares every watched path with its last known state
func (w *PollingWatcher) checkFiles() ([]fsnotify.Event, []error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	var events []fsnotify.Event
	var errs []error

	for name, oldInfo := range w.files {
		current, err := os.Stat(name)
		if err != nil {
			if os.IsNotExist(err) {
				// The path is gone, so stop tracking it
				events = append(events, fsnotify.Event{Name: name, Op: fsnotify.Remove})
				delete(w.files, name)
				delete(w.entries, name)
			} else {
				errs = append(errs, err)
			}
			continue
		}

		currentInfo := newFileInfo(current)
		if !currentInfo.IsDir {
			if currentInfo.changed(oldInfo) {
				events = append(events, fsnotify.Event{Name: name, Op: fsnotify.Write})
				w.files[name] = currentInfo
			}
			continue
		}

		w.files[name] = currentInfo
		dirEvents, err := w.diffDir(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, dirEvents...)
	}

	return events, errs
}

// diffDir reports entries created, modified or removed in a watched directory
func (w *PollingWatcher) diffDir(dir string) ([]fsnotify.Event, error) {
	current, err := readEntries(dir)
	if err != nil {
		return nil, err
	}
	previous := w.entries[dir]

	var events []fsnotify.Event
	for name, info := range current {
		path := filepath.Join(dir, name)
		old, existed := previous[name]
		switch {
		case !existed:
			events = append(events, fsnotify.Event{Name: path, Op: fsnotify.Create})
		case !info.IsDir && info.changed(old):
			events = append(events, fsnotify.Event{Name: path, Op: fsnotify.Write})
		}
	}
	for name := range previous {
		if _, exists := current[name]; !exists {
			events = append(events, fsnotify.Event{Name: filepath.Join(dir, name), Op: fsnotify.Remove})
		}
	}

	w.entries[dir] = current
	return events, nil
}

func readEntries(dir string) (map[string]fileInfo, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	children := make(map[string]fileInfo, len(dirEntries))
	for _, entry := range dirEntries {
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		children[entry.Name()] = newFileInfo(info)
	}
	return children, nil
}
