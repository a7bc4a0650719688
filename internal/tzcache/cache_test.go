package tzcache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Location(t *testing.T) {
	c := New(0)

	loc, err := c.Location("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	again, err := c.Location(" Europe/Berlin ")
	require.NoError(t, err)
	assert.Same(t, loc, again)

	_, err = c.Location("Not/AZone")
	assert.Error(t, err)
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	c := New(8)
	calls := 0
	c.load = func(name string) (*time.Location, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return time.UTC, nil
	}

	_, err := c.Location("Flaky/Zone")
	require.Error(t, err)

	loc, err := c.Location("Flaky/Zone")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, 2, calls)
}

func TestCache_LoadsOnce(t *testing.T) {
	c := New(8)
	calls := 0
	c.load = func(name string) (*time.Location, error) {
		calls++
		return time.FixedZone(name, 0), nil
	}

	for range 5 {
		_, err := c.Location("Fixed/Zone")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestCache_MustLocation(t *testing.T) {
	c := New(4)
	assert.Equal(t, time.UTC, c.MustLocation("Invalid/Zone"))
	assert.Equal(t, "Asia/Tokyo", c.MustLocation("Asia/Tokyo").String())
}

func TestCache_Concurrent(t *testing.T) {
	c := New(16)
	zones := []string{"UTC", "America/New_York", "Europe/London", "Asia/Kolkata"}

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Location(zones[i%len(zones)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
