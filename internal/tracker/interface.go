package tracker

import (
	"context"

	"github.com/FahimAnayet/gutter/internal/baseline"
	"github.com/FahimAnayet/gutter/internal/diff"
)

// Delta is the minimal set of rendering changes moving the displayed
// annotations from one ChangeSet to the next. Add entries are sorted by line,
// Remove is sorted ascending. Clear wipes every annotation for the document
// before Add is applied.
type Delta struct {
	Add    []diff.Record
	Remove []int
	Clear  bool
}

// Empty reports whether applying the delta would change nothing.
func (d Delta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0 && !d.Clear
}

// Renderer receives annotation deltas. Implementations own all visual
// representation; the tracker only ever speaks in line numbers and kinds.
type Renderer interface {
	ApplyDelta(id string, delta Delta)
}

// Provider resolves the reference line sequence for a document. A failed
// resolution is reported as baseline.ErrUnavailable.
type Provider interface {
	Resolve(ctx context.Context, id string, mode baseline.Mode) ([]string, error)
}
