package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Catalog is the static table mapping score identifiers to calculator
// factories. Calculator packages populate the default catalog from init();
// the registry resolves identifiers against it.
type Catalog struct {
	mu        sync.RWMutex
	factories map[score.ID]ports.CalculatorFactory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[score.ID]ports.CalculatorFactory)}
}

// Register adds a factory for the provided identifier.
func (c *Catalog) Register(id score.ID, factory ports.CalculatorFactory) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("register calculator: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("calculator factory is nil for '%s'", id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[id]; exists {
		return fmt.Errorf("calculator '%s' already registered", id)
	}
	c.factories[id] = factory
	return nil
}

// Lookup returns the factory registered for id.
func (c *Catalog) Lookup(id score.ID) (ports.CalculatorFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	factory, ok := c.factories[id]
	return factory, ok
}

// IDs returns the registered identifiers in sorted order.
func (c *Catalog) IDs() []score.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]score.ID, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered factories.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.factories)
}

var _ ports.CalculatorSource = (*Catalog)(nil)

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog populated by calculator packages.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds a factory to the default catalog.
func Register(id score.ID, factory ports.CalculatorFactory) error {
	return defaultCatalog.Register(id, factory)
}

// MustRegister is Register for use in init(); it panics on error.
func MustRegister(id score.ID, factory ports.CalculatorFactory) {
	if err := Register(id, factory); err != nil {
		panic(err)
	}
}
