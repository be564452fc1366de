package fleetforecast

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores completed pipeline results keyed by dataset fingerprint and
// run parameters. Concurrent requests for a missing key share a single
// computation, and results are kept until the process exits.
type Cache struct {
	group singleflight.Group

	mu      sync.RWMutex
	results map[string]*Result
}

func NewCache() *Cache {
	return &Cache{
		results: make(map[string]*Result),
	}
}

// Key derives the cache key for a dataset fingerprint and run parameters.
func Key(fingerprint string, params Params) string {
	return fmt.Sprintf("%s|%s|%d|%d", fingerprint, params.Strategy, params.TestDays, params.FuturePeriods)
}

// GetOrRun returns the stored result for the key, or computes it with fn.
// At most one computation per key runs at a time and failed computations are
// not stored. The returned bool reports whether the result came from the
// cache.
func (c *Cache) GetOrRun(key string, fn func() (*Result, error)) (*Result, bool, error) {
	c.mu.RLock()
	res, exists := c.results[key]
	c.mu.RUnlock()
	if exists {
		return res, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// a finished flight may have stored the result already
		c.mu.RLock()
		res, exists := c.results[key]
		c.mu.RUnlock()
		if exists {
			return res, nil
		}

		res, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.results[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Result), false, nil
}

// Get returns the stored result for the key without computing anything.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, exists := c.results[key]
	return res, exists
}

// Len returns the number of stored results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
