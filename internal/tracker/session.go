package tracker

import (
	"context"
	"sync"

	"github.com/FahimAnayet/gutter/internal/diff"
)

// Session holds the tracking state for one document. It exists exactly while
// tracking is enabled for that document and is owned by a single Tracker.
type Session struct {
	id string

	mu       sync.RWMutex
	baseline []string       // immutable snapshot, replaced wholesale
	current  []string       // most recent buffer lines seen
	last     diff.ChangeSet // annotations currently rendered

	queue  *queue
	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(id string, baselineLines []string, queueSize int) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:       id,
		baseline: baselineLines,
		last:     diff.ChangeSet{},
		queue:    newQueue(queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// snapshot returns a copy of the rendered ChangeSet.
func (s *Session) snapshot() diff.ChangeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := make(diff.ChangeSet, len(s.last))
	for line, rec := range s.last {
		cs[line] = rec
	}
	return cs
}
