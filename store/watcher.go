package store

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports writes to the store file so the UI can reload when
// another process edits it. It watches the parent directory because Save
// replaces the file by rename, which would drop a watch on the file itself.
type Watcher struct {
	fw      *fsnotify.Watcher
	path    string
	changes chan struct{}
	done    chan struct{}

	// mu orders debounce-timer sends against Close; a timer that fires
	// after Close must never touch the closed channel.
	mu     sync.Mutex
	closed bool
}

// NewWatcher starts watching the store file at path, creating the parent
// directory when missing.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:      fw,
		path:    abs,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

// Changes delivers one (coalesced) signal per burst of writes to the file.
// The channel closes when the watcher is closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) watch() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce rapid events
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, w.notify)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Keep watching past transient errors
			_ = err

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher. The changes channel closes under the same lock
// the debounce callback sends under, so a timer still pending at this
// point can never hit a closed channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
		close(w.changes)
	}
	w.mu.Unlock()
	return w.fw.Close()
}
