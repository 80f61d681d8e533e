package tracker

import (
	"sort"

	"github.com/FahimAnayet/gutter/internal/diff"
)

// deltaBetween computes the minimal rendering changes that move the displayed
// annotations from old to new: records to add or re-kind, and lines whose
// annotation must go away. Output ordering is fixed so identical inputs
// always yield an identical delta.
func deltaBetween(old, new diff.ChangeSet) Delta {
	var delta Delta

	for line, rec := range new {
		if prev, ok := old[line]; !ok || prev.Kind != rec.Kind {
			delta.Add = append(delta.Add, rec)
		}
	}
	for line := range old {
		if _, ok := new[line]; !ok {
			delta.Remove = append(delta.Remove, line)
		}
	}

	sort.Slice(delta.Add, func(i, j int) bool { return delta.Add[i].Line < delta.Add[j].Line })
	sort.Ints(delta.Remove)

	return delta
}
