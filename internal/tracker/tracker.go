// Package tracker owns per-document tracking sessions and reconciles the
// rendered annotations with the document's current state on every change
// notification.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/FahimAnayet/gutter/internal/baseline"
	"github.com/FahimAnayet/gutter/internal/diff"
)

var log = commonlog.GetLogger("tracker")

// ErrNoIdentity is returned by Enable for documents without a resolvable
// filesystem path; such documents cannot be tracked.
var ErrNoIdentity = errors.New("document has no identity")

const defaultQueueSize = 64

// Options configures a Tracker. Zero values fall back to defaults.
type Options struct {
	// Mode selects the baseline source for every session.
	Mode baseline.Mode
	// QueueSize bounds each document's pending task queue.
	QueueSize int
}

// Tracker is the annotation reconciler. It is safe for concurrent use;
// reconciliation passes for one document are strictly serialized while
// different documents proceed independently.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	renderer Renderer
	provider Provider
	opts     Options
}

func NewTracker(renderer Renderer, provider Provider, opts Options) *Tracker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	return &Tracker{
		sessions: make(map[string]*Session),
		renderer: renderer,
		provider: provider,
		opts:     opts,
	}
}

// Enable starts tracking a document. The current buffer lines are supplied by
// the caller because the tracker has no access to the editing surface. Enable
// is a no-op if the document is already tracked. It fails without creating a
// session when the document has no identity or no baseline can be resolved.
func (t *Tracker) Enable(ctx context.Context, id string, current []string) error {
	if id == "" {
		return ErrNoIdentity
	}

	t.mu.RLock()
	_, exists := t.sessions[id]
	t.mu.RUnlock()
	if exists {
		return nil
	}

	// Resolve outside the lock so a slow provider never stalls other
	// documents.
	baselineLines, err := t.provider.Resolve(ctx, id, t.opts.Mode)
	if err != nil {
		return fmt.Errorf("enable %s: %w", id, err)
	}

	t.mu.Lock()
	if _, exists := t.sessions[id]; exists {
		t.mu.Unlock()
		return nil
	}
	s := newSession(id, baselineLines, t.opts.QueueSize)
	t.sessions[id] = s
	s.queue.enqueue(task{name: "initial", execute: func() { t.pass(s, current) }})
	t.mu.Unlock()

	log.Infof("tracking enabled for %s (%d baseline lines)", id, len(baselineLines))
	return nil
}

// Disable stops tracking a document, discards its session and clears every
// annotation it emitted. Unknown documents are ignored. Any outstanding
// baseline resolution for the session is cancelled and its result discarded.
func (t *Tracker) Disable(id string) {
	t.mu.Lock()
	s, ok := t.sessions[id]
	if ok {
		delete(t.sessions, id)
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	s.cancel()
	s.queue.stop()
	t.renderer.ApplyDelta(id, Delta{Clear: true})
	log.Infof("tracking disabled for %s", id)
}

// Toggle flips the tracking state and reports whether tracking is enabled
// after the call.
func (t *Tracker) Toggle(ctx context.Context, id string, current []string) (bool, error) {
	if t.Enabled(id) {
		t.Disable(id)
		return false, nil
	}
	if err := t.Enable(ctx, id, current); err != nil {
		return false, err
	}
	return true, nil
}

// Enabled reports whether a session exists for the document.
func (t *Tracker) Enabled(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.sessions[id]
	return ok
}

// DocumentChanged schedules a reconciliation pass against the supplied buffer
// lines. Notifications for untracked documents are dropped silently; they are
// an expected race after Disable.
func (t *Tracker) DocumentChanged(id string, lines []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sessions[id]
	if !ok {
		log.Debugf("stale change notification for %s", id)
		return
	}
	// Enqueue while holding the read lock so Disable cannot close the
	// queue between lookup and submit.
	s.queue.enqueue(task{name: "reconcile", execute: func() { t.pass(s, lines) }})
}

// BaselineInvalidated replaces the session's baseline wholesale and schedules
// a reconciliation pass. A nil newBaseline means "re-resolve via the
// provider", used when the on-disk or version-control source changed behind
// the editor's back.
func (t *Tracker) BaselineInvalidated(id string, newBaseline []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sessions[id]
	if !ok {
		return
	}
	s.queue.enqueue(task{name: "refresh", execute: func() {
		lines := newBaseline
		if lines == nil {
			resolved, err := t.provider.Resolve(s.ctx, s.id, t.opts.Mode)
			if err != nil {
				log.Warningf("baseline refresh for %s failed, keeping previous: %v", s.id, err)
				return
			}
			lines = resolved
		}
		s.mu.Lock()
		s.baseline = lines
		s.mu.Unlock()
		t.pass(s, nil)
	}})
}

// Saved refreshes the baseline after the editor wrote the buffer to disk.
// In disk mode the saved lines become the new baseline directly; in
// version-control mode, or when the editor did not include the saved text,
// the baseline is re-resolved.
func (t *Tracker) Saved(id string, savedLines []string) {
	if t.opts.Mode.Source == baseline.FromDisk && savedLines != nil {
		t.BaselineInvalidated(id, savedLines)
		return
	}
	t.BaselineInvalidated(id, nil)
}

// ChangeSet returns a snapshot of the annotations currently rendered for the
// document. The second return is false for untracked documents.
func (t *Tracker) ChangeSet(id string) (diff.ChangeSet, bool) {
	t.mu.RLock()
	s, ok := t.sessions[id]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.snapshot(), true
}

// NextChange returns the first annotated line strictly after line, wrapping
// to the first annotated line in the document.
func (t *Tracker) NextChange(id string, line int) (int, bool) {
	lines, ok := t.sortedLines(id)
	if !ok || len(lines) == 0 {
		return 0, false
	}
	for _, l := range lines {
		if l > line {
			return l, true
		}
	}
	return lines[0], true
}

// PrevChange returns the last annotated line strictly before line, wrapping
// to the last annotated line in the document.
func (t *Tracker) PrevChange(id string, line int) (int, bool) {
	lines, ok := t.sortedLines(id)
	if !ok || len(lines) == 0 {
		return 0, false
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] < line {
			return lines[i], true
		}
	}
	return lines[len(lines)-1], true
}

func (t *Tracker) sortedLines(id string) ([]int, bool) {
	cs, ok := t.ChangeSet(id)
	if !ok {
		return nil, false
	}
	lines := make([]int, 0, len(cs))
	for line := range cs {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines, true
}

// Close disables every tracked document. Used at shutdown.
func (t *Tracker) Close() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		t.Disable(id)
	}
}

// pass runs one reconciliation: diff baseline against the current lines,
// derive the delta from what is rendered, and emit it. A nil current reuses
// the lines from the previous pass. Runs only on the session's queue.
func (t *Tracker) pass(s *Session, current []string) {
	s.mu.Lock()
	if current == nil {
		current = s.current
	}
	changes := diff.Compute(s.baseline, current)
	delta := deltaBetween(s.last, changes)
	s.last = changes
	s.current = current
	s.mu.Unlock()

	t.renderer.ApplyDelta(s.id, delta)
}
