// Package tzcache resolves IANA time zone names with an in-memory cache so
// that repeated requests do not reread the zoneinfo database.
package tzcache

import (
	"fmt"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

// DefaultSize is the number of zones kept when New is given a non-positive size.
const DefaultSize = 512

// Cache maps zone names to locations. It is safe for concurrent use.
type Cache struct {
	locations *otter.Cache[string, *time.Location]
	load      func(string) (*time.Location, error)
}

// New returns a cache holding at most size zones.
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		locations: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize:     size,
			InitialCapacity: min(size, 64),
		}),
		load: time.LoadLocation,
	}
}

// Location returns the location for name. "UTC", "Local" and the empty
// string resolve like time.LoadLocation. Failed lookups are not cached.
func (c *Cache) Location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if loc, ok := c.locations.GetIfPresent(name); ok {
		return loc, nil
	}

	loc, err := c.load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", name, err)
	}
	c.locations.Set(name, loc)
	return loc, nil
}

// MustLocation is Location for names known to be valid; it falls back to
// UTC on error.
func (c *Cache) MustLocation(name string) *time.Location {
	loc, err := c.Location(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Len returns the approximate number of cached zones.
func (c *Cache) Len() int {
	return c.locations.EstimatedSize()
}
