package value

import (
	"sync"
)

// Table tracks every live value an engine has issued. It wraps a Store with
// kind-checked access and lifecycle observers.
type Table struct {
	store     *Store
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table backed by an in-memory store.
func NewTable() *Table {
	return &Table{
		store: NewStore(),
	}
}

// Insert boxes a cell and returns its handle.
func (t *Table) Insert(c Cell) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.store.Create(c)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Cell:   c,
	})

	return handle
}

// Get retrieves a cell by handle.
func (t *Table) Get(handle Handle) (Cell, bool) {
	return t.store.Get(handle)
}

// GetKind retrieves a cell only if it has the expected kind.
func (t *Table) GetKind(handle Handle, kind Kind) (Cell, bool) {
	c, ok := t.store.Get(handle)
	if !ok || c.Kind != kind {
		return Cell{}, false
	}
	return c, true
}

// Remove releases a handle and returns its cell. Valid exactly once per
// handle.
func (t *Table) Remove(handle Handle) (Cell, bool) {
	cell, ok := t.store.Drop(handle)
	if !ok {
		return Cell{}, false
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		Cell:   cell,
	})

	return cell, true
}

// Released reports whether handle was issued and later released.
func (t *Table) Released(handle Handle) bool {
	return t.store.Released(handle)
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live values.
func (t *Table) Len() int {
	return t.store.Len()
}

// Each iterates over all live values.
func (t *Table) Each(fn func(Handle, Cell) bool) {
	t.store.Each(fn)
}

// Clear releases all values, notifying observers for each.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the store lock during Remove
	var handles []Handle
	t.store.Each(func(h Handle, c Cell) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all values and stops accepting operations.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.store.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnValueEvent(e)
	}
}
