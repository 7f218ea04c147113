// Package watch wraps fsnotify to deliver change notifications for Table
// source files. The compiler driver uses it to re-parse inputs whenever one
// of them is written.
package watch

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event describes a change to a watched file.
type Event struct {
	Path string
}

// Watcher delivers file change events on a channel until closed. Events are
// filtered to writes, creates and renames; chmod-only changes are dropped.
type Watcher struct {
	fw *fsnotify.Watcher

	events chan Event
	errs   chan error

	closeOnce sync.Once
	done      chan struct{}
}

// New starts a watcher. The caller must call Close when done.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		events: make(chan Event, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

func (w *Watcher) loop() {
	defer close(w.events)
	defer close(w.errs)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps == 0 {
				continue
			}
			select {
			case w.events <- Event{Path: ev.Name}:
			case <-w.done:
				return
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			case <-w.done:
				return
			}
		}
	}
}

// Add registers a file or directory with the watcher.
func (w *Watcher) Add(path string) error {
	return w.fw.Add(path)
}

// Events returns the change event channel. It is closed when the watcher
// shuts down.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the watcher's error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}

// Wait blocks until the next relevant event, an error, or context
// cancellation.
func (w *Watcher) Wait(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case err, ok := <-w.errs:
		if !ok {
			return Event{}, context.Canceled
		}
		return Event{}, err
	case ev, ok := <-w.events:
		if !ok {
			return Event{}, context.Canceled
		}
		return ev, nil
	}
}
