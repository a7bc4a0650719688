package availability

// GenerateCandidates slices each free gap into slots of the given duration
// whose start is a multiple of intervalMinutes relative to the origin. Slots
// are emitted in gap order, then by ascending start; the selector relies on
// this order to break ties.
func GenerateCandidates(free []Interval, duration, intervalMinutes int) []Interval {
	if duration <= 0 || intervalMinutes <= 0 {
		return nil
	}

	var candidates []Interval
	for _, gap := range free {
		for current := ceilToGrid(gap.Start, intervalMinutes); current+duration <= gap.End; current += intervalMinutes {
			candidates = append(candidates, Interval{Start: current, End: current + duration})
		}
	}
	return candidates
}

// ceilToGrid returns the smallest multiple of step that is >= v.
func ceilToGrid(v, step int) int {
	return -floorDiv(-v, step) * step
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns a modulo b with the sign of b.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
