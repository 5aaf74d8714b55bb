package registry

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Cache memoizes resolved calculators per identifier. Reads of a resolved
// entry never lock; the first callers for an unseen identifier share one
// resolution through singleflight, so every caller observes the same
// instance. Failed resolutions are not stored and are retried on the next
// call.
type Cache struct {
	resolver Resolver
	entries  sync.Map // score.ID -> ports.Calculator
	group    singleflight.Group
}

// NewCache creates a Cache delegating misses to resolver.
func NewCache(resolver Resolver) *Cache {
	return &Cache{resolver: resolver}
}

// GetOrResolve returns the cached calculator for id, resolving it on first use.
func (c *Cache) GetOrResolve(ctx context.Context, id score.ID) (ports.Calculator, error) {
	if calc, ok := c.load(id); ok {
		return calc, nil
	}

	v, err, _ := c.group.Do(string(id), func() (interface{}, error) {
		if calc, ok := c.load(id); ok {
			return calc, nil
		}
		calc, err := c.resolver.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		actual, _ := c.entries.LoadOrStore(id, calc)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.Calculator), nil
}

// Cached reports whether id already has a resolved entry.
func (c *Cache) Cached(id score.ID) bool {
	_, ok := c.entries.Load(id)
	return ok
}

// Len returns the number of resolved entries.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Reset drops every resolved entry so the next request re-resolves. A
// resolution already in flight may still store its result.
func (c *Cache) Reset() {
	c.entries.Clear()
}

func (c *Cache) load(id score.ID) (ports.Calculator, bool) {
	v, ok := c.entries.Load(id)
	if !ok {
		return nil, false
	}
	return v.(ports.Calculator), true
}
