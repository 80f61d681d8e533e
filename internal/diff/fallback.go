package diff

import (
	"fmt"
	"sync/atomic"
)

// algorithmError reports a failure of the primary diff algorithm.
type algorithmError struct {
	reason    string
	recovered any
}

func (e *algorithmError) Error() string {
	if e.recovered != nil {
		return fmt.Sprintf("diff algorithm panicked: %v", e.recovered)
	}
	return "diff algorithm failed: " + e.reason
}

var fallbackCount atomic.Int64

func recordFallback() {
	fallbackCount.Add(1)
}

// FallbackCount returns how many times the positional fallback substituted
// for the primary algorithm since process start. Diagnostic only.
func FallbackCount() int64 {
	return fallbackCount.Load()
}

// computeFallback compares the two sequences position by position, with no
// alignment. A single inserted line therefore turns every following line into
// a modification; the degraded behavior is intentional and not masked as
// equivalent to the primary mode.
func computeFallback(baseline, current []string) ChangeSet {
	changes := make(ChangeSet)

	for i, line := range current {
		if i < len(baseline) {
			if line != baseline[i] {
				changes[i+1] = Record{Line: i + 1, Kind: Modified}
			}
		} else {
			changes[i+1] = Record{Line: i + 1, Kind: Added}
		}
	}

	if len(baseline) > len(current) && len(current) > 0 {
		last := len(current)
		changes[last] = Record{Line: last, Kind: Deleted}
	}

	return changes
}
