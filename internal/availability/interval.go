package availability

import (
	"slices"
)

// Clip restricts iv to window. The second result is false when nothing of iv
// lies inside the window.
func Clip(iv, window Interval) (Interval, bool) {
	clipped := Interval{Start: max(iv.Start, window.Start), End: min(iv.End, window.End)}
	if clipped.End <= clipped.Start {
		return Interval{}, false
	}
	return clipped, true
}

// Merge sorts intervals by (start, end) and merges overlapping and touching
// intervals into a minimal, ordered, pairwise disjoint set. The input is not
// modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			last.End = max(last.End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FreeGaps returns the parts of window not covered by busy. busy must be the
// output of Merge. Busy time outside the window is ignored, so the result and
// the busy set clipped to the window partition the window exactly.
func FreeGaps(busy []Interval, window Interval) []Interval {
	var free []Interval
	cursor := window.Start
	for _, b := range busy {
		if cursor >= window.End {
			break
		}
		if b.Start > cursor {
			free = append(free, Interval{Start: cursor, End: min(b.Start, window.End)})
		}
		cursor = max(cursor, b.End)
	}
	if cursor < window.End {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

// BusyIntervals clips every event of every person to window and merges the
// result.
func BusyIntervals(people []Person, window Interval) []Interval {
	var all []Interval
	for _, p := range people {
		for _, ev := range p.Events {
			if clipped, ok := Clip(ev.Interval, window); ok {
				all = append(all, clipped)
			}
		}
	}
	return Merge(all)
}
