package client

import (
	"sync"

	"github.com/edqe14/hefs/pkg/hefs"
)

// entityCache is the resolve half shared by managers and nested
// collections. writes serializes cache updates that also mutate cached
// entities in place.
type entityCache[E hefs.Entity] struct {
	cache  *hefs.Collection[E]
	writes *sync.Mutex
}

func newEntityCache[E hefs.Entity](entries ...E) entityCache[E] {
	return entityCache[E]{
		cache:  hefs.NewCollection(entries...),
		writes: &sync.Mutex{},
	}
}

// Cache returns the backing collection.
func (c entityCache[E]) Cache() *hefs.Collection[E] {
	return c.cache
}

// Resolve returns a live entity as-is and looks identifiers up in the cache.
// Unknown identifiers resolve to the zero value.
func (c entityCache[E]) Resolve(r hefs.Resolvable[E]) E {
	if entity, ok := r.Entity(); ok {
		return entity
	}

	entity, _ := c.cache.Get(r.Key())

	return entity
}

// ResolveID returns the identifier of a live entity, or of the cached entity
// stored under the given identifier.
func (c entityCache[E]) ResolveID(r hefs.Resolvable[E]) (string, bool) {
	if entity, ok := r.Entity(); ok {
		return entity.EntityID(), true
	}

	entity, ok := c.cache.Get(r.Key())
	if !ok {
		return "", false
	}

	return entity.EntityID(), true
}
