// Package view holds per-screen collections that are seeded by a fetch and
// then patched locally after mutations, instead of refetching every time.
package view

// Collection is an ordered sequence of entities local to one screen.
// Identity within a collection is unique by ID; order is whatever the last
// seed returned, with appends and removals applied in place.
type Collection[T any] struct {
	items []T
	id    func(T) int
}

// NewCollection creates an empty collection keyed by the given ID function.
func NewCollection[T any](id func(T) int) *Collection[T] {
	return &Collection[T]{id: id}
}

// Seed replaces the contents with a fresh fetch result.
func (c *Collection[T]) Seed(items []T) {
	c.items = append(c.items[:0:0], items...)
}

// Append adds a server-returned created entity to the end. No re-sort.
func (c *Collection[T]) Append(item T) {
	c.items = append(c.items, item)
}

// Remove deletes the entity with the matching ID and reports whether one was
// found. A missing ID is a no-op.
func (c *Collection[T]) Remove(id int) bool {
	for i, item := range c.items {
		if c.id(item) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the entity with the matching ID.
func (c *Collection[T]) Get(id int) (T, bool) {
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the collection contents in order.
func (c *Collection[T]) Items() []T {
	return c.items
}

// Len returns the number of entities held.
func (c *Collection[T]) Len() int {
	return len(c.items)
}
