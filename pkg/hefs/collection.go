package hefs

import "sync"

// Collection is an insertion-ordered map from identifier to entity, safe for
// concurrent use. Re-setting an existing key keeps its original position.
type Collection[E Entity] struct {
	mutex   sync.RWMutex
	keys    []string
	entries map[string]E
}

// NewCollection creates a collection holding entries in order.
func NewCollection[E Entity](entries ...E) *Collection[E] {
	c := &Collection[E]{
		entries: make(map[string]E, len(entries)),
	}

	for _, e := range entries {
		c.Set(e.EntityID(), e)
	}

	return c
}

// Get returns the entity stored under key.
func (c *Collection[E]) Get(key string) (E, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.entries[key]

	return e, ok
}

// Has reports whether key is present.
func (c *Collection[E]) Has(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, ok := c.entries[key]

	return ok
}

// Set stores entity under key. The last writer wins.
func (c *Collection[E]) Set(key string, entity E) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}

	c.entries[key] = entity
}

// Delete removes key and reports whether it was present.
func (c *Collection[E]) Delete(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}

	delete(c.entries, key)

	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)

			break
		}
	}

	return true
}

// Len returns the number of entries.
func (c *Collection[E]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.keys)
}

// Keys returns a snapshot of the keys in insertion order.
func (c *Collection[E]) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, len(c.keys))
	copy(keys, c.keys)

	return keys
}

// Values returns a snapshot of the entities in insertion order.
func (c *Collection[E]) Values() []E {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	values := make([]E, 0, len(c.keys))
	for _, k := range c.keys {
		values = append(values, c.entries[k])
	}

	return values
}

// First returns the earliest inserted entity.
func (c *Collection[E]) First() (E, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var zero E
	if len(c.keys) == 0 {
		return zero, false
	}

	return c.entries[c.keys[0]], true
}

// Filter returns the entities for which keep returns true, in order.
func (c *Collection[E]) Filter(keep func(E) bool) []E {
	values := c.Values()
	out := values[:0]

	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}

	return out
}

// Clear removes every entry.
func (c *Collection[E]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.keys = nil
	c.entries = make(map[string]E)
}
