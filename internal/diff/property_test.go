package diff

import (
	"testing"

	"pgregory.net/rapid"
)

// genLines draws a line sequence from a small alphabet so that generated
// documents actually share lines and exercise real alignments.
func genLines(t *rapid.T, label string) []string {
	return genLinesN(t, label, 0)
}

func genLinesN(t *rapid.T, label string, min int) []string {
	n := rapid.IntRange(min, 30).Draw(t, label+"_len")
	lines := make([]string, n)
	for i := range lines {
		lines[i] = rapid.SampledFrom([]string{
			"alpha", "bravo", "charlie", "delta", "echo", "", "x", "y",
		}).Draw(t, label+"_line")
	}
	return lines
}

func TestComputeDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseline := genLines(t, "baseline")
		current := genLines(t, "current")

		first := Compute(baseline, current)
		second := Compute(baseline, current)
		if !first.Equal(second) {
			t.Fatalf("two runs disagree: %v vs %v", first, second)
		}
	})
}

func TestComputeSelfIsEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := genLines(t, "lines")
		if changes := Compute(lines, lines); len(changes) != 0 {
			t.Fatalf("diff of a sequence against itself is %v, want empty", changes)
		}
	})
}

func TestComputeLinesInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseline := genLines(t, "baseline")
		current := genLines(t, "current")

		for line, rec := range Compute(baseline, current) {
			if line < 1 || line > len(current) {
				t.Fatalf("line %d outside [1, %d]", line, len(current))
			}
			if rec.Line != line {
				t.Fatalf("record under key %d carries line %d", line, rec.Line)
			}
		}
	})
}

func TestComputeAppendAgreesWithFallback(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseline := genLines(t, "baseline")
		appended := genLinesN(t, "appended", 1)
		current := append(append([]string{}, baseline...), appended...)

		primary := Compute(baseline, current)
		fallback := computeFallback(baseline, current)
		if !primary.Equal(fallback) {
			t.Fatalf("append-only disagreement: primary %v, fallback %v", primary, fallback)
		}
	})
}

func TestFallbackLinesInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseline := genLines(t, "baseline")
		current := genLines(t, "current")

		for line := range computeFallback(baseline, current) {
			if line < 1 || line > len(current) {
				t.Fatalf("line %d outside [1, %d]", line, len(current))
			}
		}
	})
}
