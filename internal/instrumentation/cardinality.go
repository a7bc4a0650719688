package instrumentation

import (
	"github.com/teemow/meetslot/internal/availability"
)

// Cardinality helpers keep metric label values to a small fixed set.

// LocationLabel returns lt when it is a known location type and "unknown"
// otherwise, so free-form input never becomes a label value.
func LocationLabel(lt string) string {
	switch availability.LocationType(lt) {
	case availability.LocationVirtual, availability.LocationInPerson, availability.LocationHybrid:
		return lt
	case "":
		return string(availability.LocationVirtual)
	default:
		return "unknown"
	}
}

// AttendeeBucket groups attendee counts into "0", "1", "2-3", "4-7" and "8+".
func AttendeeBucket(n int) string {
	switch {
	case n <= 0:
		return "0"
	case n == 1:
		return "1"
	case n <= 3:
		return "2-3"
	case n <= 7:
		return "4-7"
	default:
		return "8+"
	}
}
