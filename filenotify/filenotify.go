// Package filenotify provides a mechanism for watching sheet files for changes.
// It abstracts fsnotify, and provides a poll-based notifier for file systems
// where fsnotify does not work (network mounts, some containers).
// Both are wrapped up in a common interface so that either can be used
// interchangeably.
package filenotify

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the polling interval used when none is configured
const DefaultPollInterval = 200 * time.Millisecond

// FileWatcher is an interface for implementing file notification watchers
type FileWatcher interface {
	// Events returns the channel for watching events
	Events() <-chan fsnotify.Event
	// Errors returns the channel for watching errors
	Errors() <-chan error
	// Add starts watching the named file or directory
	Add(name string) error
	// Remove stops watching the named file or directory
	Remove(name string) error
	// Close stops watching and closes the channels
	Close() error
}

// New returns a polling watcher when poll is set. Otherwise it tries to use
// an fs-event watcher, and falls back to the poller if that fails.
func New(poll bool, interval time.Duration) (FileWatcher, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if poll {
		return NewPollingWatcher(interval), nil
	}

	watcher, err := NewEventWatcher()
	if err != nil {
		return NewPollingWatcher(interval), nil
	}
	return watcher, nil
}
