// Package catalog holds the in-memory registry of cube definitions.
package catalog

import (
	"sync"

	"cubedeck/internal/domain"
)

// Catalog is the registry of cube definitions. Registration is rare
// (startup-time), so a single read-write lock guards the whole registry.
// Definitions are immutable once registered; re-registering a name requires
// an explicit Replace.
type Catalog struct {
	mu    sync.RWMutex
	cubes map[string]*domain.CubeDefinition
	order []string
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{cubes: make(map[string]*domain.CubeDefinition)}
}

// Register validates and adds a cube definition. It fails with a
// ConflictError when the name is taken and a SchemaError when the definition
// is inconsistent.
func (c *Catalog) Register(def *domain.CubeDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cubes[def.Name]; ok {
		return domain.ErrConflict("cube %q is already registered", def.Name)
	}
	c.cubes[def.Name] = def
	c.order = append(c.order, def.Name)
	return nil
}

// Replace validates and swaps the definition registered under def.Name,
// keeping its registration-order slot. The name must already exist.
func (c *Catalog) Replace(def *domain.CubeDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cubes[def.Name]; !ok {
		return domain.ErrSemantic(domain.UnknownCube, def.Name)
	}
	c.cubes[def.Name] = def
	return nil
}

// Get returns the definition registered under the exact, case-sensitive name.
func (c *Catalog) Get(name string) (*domain.CubeDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.cubes[name]
	return def, ok
}

// List returns all definitions in registration order.
func (c *Catalog) List() []*domain.CubeDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	defs := make([]*domain.CubeDefinition, 0, len(c.order))
	for _, name := range c.order {
		defs = append(defs, c.cubes[name])
	}
	return defs
}
