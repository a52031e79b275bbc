// Package catalog holds the recipe-name -> Recipe mapping (spec §4.B).
// Recipes are immutable once added and are destroyed only by explicit
// removal, and only when no active order references them.
package catalog

import (
	"github.com/mrossi/pasticceria/internal/simerr"
	"github.com/mrossi/pasticceria/internal/store"
)

// Requirement is one ingredient line of a recipe: the quantity of an
// ingredient needed per unit of the recipe produced.
type Requirement struct {
	Ingredient string
	QtyPerUnit int32
}

// Recipe is an immutable name plus its ingredient requirements.
type Recipe struct {
	Name         string
	Requirements []Requirement
}

// Catalog is the recipe-name -> *Recipe store, built on internal/store the
// same way kitchen.go indexes shelves by supported order type.
type Catalog struct {
	recipes *store.Store[string, *Recipe]
	// refcount tracks how many live orders (ready or waiting) reference a
	// recipe, so Remove can enforce spec §3 invariant 5.
	refcount map[string]int
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		recipes:  store.NewStore[string, *Recipe](),
		refcount: make(map[string]int),
	}
}

// Lookup returns the recipe for name, if it exists.
func (c *Catalog) Lookup(name string) (*Recipe, bool) {
	return c.recipes.Get(name)
}

// Add inserts a new recipe. Returns false if a recipe with that name
// already exists (caller should respond "ignorato" per spec §4.G).
func (c *Catalog) Add(recipe *Recipe) bool {
	if len(recipe.Requirements) == 0 {
		// An empty recipe is ill-formed input; spec §4.E treats this as a
		// structural impossibility the scheduler should never see.
		panic(simerr.NewFatal("recipe %q has no ingredient requirements", recipe.Name))
	}
	if _, exists := c.recipes.Get(recipe.Name); exists {
		return false
	}
	c.recipes.Put(recipe.Name, recipe)
	return true
}

// RemoveResult enumerates the three possible outcomes of Remove, matching
// the three distinct acknowledgement tokens in spec §4.G.
type RemoveResult int

const (
	// RemoveNotPresent: no such recipe exists.
	RemoveNotPresent RemoveResult = iota
	// RemovePending: the recipe exists but has orders referencing it.
	RemovePending
	// RemoveOK: the recipe was removed.
	RemoveOK
)

// Remove deletes a recipe by name, refusing when orders still reference
// it (spec §3 invariant 5).
func (c *Catalog) Remove(name string) RemoveResult {
	if _, exists := c.recipes.Get(name); !exists {
		return RemoveNotPresent
	}
	if c.refcount[name] > 0 {
		return RemovePending
	}
	c.recipes.Remove(name)
	delete(c.refcount, name)
	return RemoveOK
}

// Reference increments the count of live orders referencing name. Called
// once per accepted order, when it first enters the ready or wait queue.
func (c *Catalog) Reference(name string) {
	c.refcount[name]++
}

// Release decrements the reference count. Called when an order for that
// recipe is dispatched; promotion from the wait queue to the ready queue
// leaves the count unchanged (see scheduler.go).
func (c *Catalog) Release(name string) {
	if c.refcount[name] <= 0 {
		return
	}
	c.refcount[name]--
	if c.refcount[name] == 0 {
		delete(c.refcount, name)
	}
}
