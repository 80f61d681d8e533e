// Package diff computes line-level change classifications between a baseline
// line sequence and the current line sequence of a document.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("diff")

// Kind classifies a changed line.
type Kind int

const (
	Added Kind = iota
	Deleted
	Modified
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Record marks one line of the current sequence. Line is 1-based. For Deleted
// the record sits on the current line immediately preceding the deletion
// point, clamped into [1, len(current)].
type Record struct {
	Line int
	Kind Kind
}

// ChangeSet maps a 1-based current line number to its Record. Unchanged lines
// are never materialized.
type ChangeSet map[int]Record

// Equal reports whether two ChangeSets mark the same lines with the same kinds.
func (cs ChangeSet) Equal(other ChangeSet) bool {
	if len(cs) != len(other) {
		return false
	}
	for line, rec := range cs {
		if o, ok := other[line]; !ok || o != rec {
			return false
		}
	}
	return true
}

// Compute diffs baseline against current and returns the resulting ChangeSet.
// A nil baseline means no baseline is established yet; the result is empty and
// the caller must not read it as "no changes". The primary algorithm is a
// Myers line diff; if its output fails the consistency check against the input
// lengths, the positional fallback takes over.
func Compute(baseline, current []string) ChangeSet {
	if baseline == nil {
		return ChangeSet{}
	}

	changes, err := computeMyers(baseline, current)
	if err != nil {
		recordFallback()
		log.Warningf("primary diff failed, using positional fallback: %v", err)
		return computeFallback(baseline, current)
	}
	return changes
}

// joinLines rebuilds the newline-terminated text the line differ expects.
// Every line gets a trailing newline so that line counts of diff chunks can
// be recovered by counting newlines.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func computeMyers(baseline, current []string) (changes ChangeSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			changes, err = nil, &algorithmError{recovered: r}
		}
	}()

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(joinLines(baseline), joinLines(current))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	changes = make(ChangeSet)

	// Walk the edit script hunk by hunk. A hunk is a maximal run of
	// non-equal chunks between two equal runs.
	curLine := 0  // current lines consumed so far
	baseLine := 0 // baseline lines consumed so far
	i := 0
	for i < len(diffs) {
		if diffs[i].Type == diffmatchpatch.DiffEqual {
			n := strings.Count(diffs[i].Text, "\n")
			curLine += n
			baseLine += n
			i++
			continue
		}

		removed, inserted := 0, 0
		hunkStart := curLine
		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			n := strings.Count(diffs[i].Text, "\n")
			if diffs[i].Type == diffmatchpatch.DiffDelete {
				removed += n
				baseLine += n
			} else {
				inserted += n
				curLine += n
			}
			i++
		}

		switch {
		case removed == 0 && inserted > 0:
			for l := hunkStart + 1; l <= hunkStart+inserted; l++ {
				changes[l] = Record{Line: l, Kind: Added}
			}
		case removed > 0 && inserted == 0:
			if anchor, ok := deletionAnchor(hunkStart, len(current)); ok {
				changes[anchor] = Record{Line: anchor, Kind: Deleted}
			}
		case removed > 0 && inserted > 0:
			for l := hunkStart + 1; l <= hunkStart+inserted; l++ {
				changes[l] = Record{Line: l, Kind: Modified}
			}
		}
	}

	if curLine != len(current) || baseLine != len(baseline) {
		return nil, &algorithmError{
			reason: "edit script does not account for all input lines",
		}
	}
	return changes, nil
}

// deletionAnchor picks the line a deletion record attaches to: the current
// line immediately preceding the deletion point, clamped into range. With an
// empty current sequence there is no anchor.
func deletionAnchor(precedingLines, currentLen int) (int, bool) {
	if currentLen == 0 {
		return 0, false
	}
	anchor := precedingLines
	if anchor < 1 {
		anchor = 1
	}
	if anchor > currentLen {
		anchor = currentLen
	}
	return anchor, true
}
