// Package cache provides caching utilities for the MCP server.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/itchyny/gojq"
)

// ProgramCache provides thread-safe LRU caching for compiled jq programs,
// keyed by expression text. Query results are never cached.
type ProgramCache struct {
	cache  *lru.Cache[string, *gojq.Code]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewProgramCache creates a new LRU cache with the specified maximum number of items.
func NewProgramCache(maxItems int) (*ProgramCache, error) {
	c, err := lru.New[string, *gojq.Code](maxItems)
	if err != nil {
		return nil, err
	}
	return &ProgramCache{cache: c}, nil
}

// Get retrieves a compiled program by its expression.
// Returns the program and true if found, nil and false otherwise.
func (c *ProgramCache) Get(expression string) (*gojq.Code, bool) {
	code, ok := c.cache.Get(expression)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return code, ok
}

// Put adds or updates a compiled program in the cache.
func (c *ProgramCache) Put(expression string, code *gojq.Code) {
	c.cache.Add(expression, code)
}

// Len returns the current number of items in the cache.
func (c *ProgramCache) Len() int {
	return c.cache.Len()
}

// Stats returns the hit and miss counts since creation.
func (c *ProgramCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
