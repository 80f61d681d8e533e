// Package watcher notices when a tracked document's on-disk content changes
// outside the editor, so its baseline can be re-resolved.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("watcher")

// suppressWindow is how long after an editor-initiated save the resulting
// write event is not reported as an external change.
const suppressWindow = time.Second

// Watcher watches the directories of tracked files and reports external
// writes, debounced per file. Reports arrive on the onInvalidate callback
// from the watcher's own goroutine.
type Watcher struct {
	fw           *fsnotify.Watcher
	onInvalidate func(path string)
	debounce     time.Duration

	mu       sync.Mutex
	files    map[string]struct{}
	dirs     map[string]int // watch refcount per directory
	timers   map[string]*time.Timer
	suppress map[string]time.Time
	closed   bool
}

func New(onInvalidate func(path string), debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}
	w := &Watcher{
		fw:           fw,
		onInvalidate: onInvalidate,
		debounce:     debounce,
		files:        make(map[string]struct{}),
		dirs:         make(map[string]int),
		timers:       make(map[string]*time.Timer),
		suppress:     make(map[string]time.Time),
	}
	go w.run()
	return w, nil
}

// Watch starts reporting external writes to path.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[path] = struct{}{}
	return nil
}

// Unwatch stops reporting for path.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return
	}
	delete(w.files, path)
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fw.Remove(dir); err != nil {
			log.Debugf("unwatching %s: %v", dir, err)
		}
	}
}

// MarkSaved records that the editor itself just wrote path; the write event
// about to arrive is not an external change.
func (w *Watcher) MarkSaved(path string) {
	w.mu.Lock()
	w.suppress[path] = time.Now().Add(suppressWindow)
	w.mu.Unlock()
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleWrite(ev.Name)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warningf("fs watcher error: %v", err)
		}
	}
}

// handleWrite debounces write events per file; the trailing event within the
// window wins.
func (w *Watcher) handleWrite(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}
	// One save can surface as several events; the whole window is
	// suppressed, not just the first event.
	if deadline, ok := w.suppress[path]; ok {
		if time.Now().Before(deadline) {
			return
		}
		delete(w.suppress, path)
	}

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		_, tracked := w.files[path]
		closed := w.closed
		w.mu.Unlock()
		if tracked && !closed {
			log.Infof("external change detected for %s", path)
			w.onInvalidate(path)
		}
	})
}
