// Package availability implements the slot-finding pipeline for a group of
// calendar owners.
//
// All times are integer minutes relative to a single reference origin. The
// pipeline is strictly linear and every stage is a pure function:
//
//	busy := Merge(intervals)
//	free := FreeGaps(busy, window)
//	candidates := GenerateCandidates(free, duration, grid)
//	scored := scorer.ScoreAll(candidates)
//	top := SelectTopK(scored, k)
//
// FindOptimalSlots runs the whole pipeline for a Request. The package performs
// no I/O and keeps no state between calls, so it is safe to call concurrently.
//
// Example usage:
//
//	slots, err := availability.FindOptimalSlots(availability.Request{
//	    People:       people,
//	    Window:       availability.Interval{Start: 540, End: 1020},
//	    Duration:     60,
//	    LocationType: availability.LocationVirtual,
//	    Settings:     settings,
//	    TopK:         5,
//	})
package availability
