package filenotify

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher is an implementation of FileWatcher using fsnotify
type EventWatcher struct {
	watcher   *fsnotify.Watcher
	events    chan fsnotify.Event
	errors    chan error
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	// forwarded is closed once the forwarding goroutine has exited
	forwarded chan struct{}
}

// NewEventWatcher returns a new EventWatcher
func NewEventWatcher() (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	eventWatcher := &EventWatcher{
		watcher:   watcher,
		events:    make(chan fsnotify.Event),
		errors:    make(chan error),
		done:      make(chan struct{}),
		forwarded: make(chan struct{}),
	}

	go eventWatcher.forward()

	return eventWatcher, nil
}

// Events returns the event channel
func (w *EventWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *EventWatcher) Errors() <-chan error {
	return w.errors
}

// Add adds a file or directory to the watch list
func (w *EventWatcher) Add(name string) error {
	return w.watcher.Add(name)
}

// Remove removes a file or directory from the watch list
func (w *EventWatcher) Remove(name string) error {
	return w.watcher.Remove(name)
}

// Close closes the watcher. It is safe to call more than once.
func (w *EventWatcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()

		// Channels are closed only after the forwarder can no longer send
		<-w.forwarded
		close(w.events)
		close(w.errors)
	})
	return w.closeErr
}

// forward copies events from the fsnotify watcher to our channels until
// the watcher is closed
func (w *EventWatcher) forward() {
	defer close(w.forwarded)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			select {
			case w.events <- event:
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}
