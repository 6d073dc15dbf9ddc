package value

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("value store closed")

// Store is the slice-backed cell storage with handle reuse.
// Handles index into the entry slice; released slots go on a free list.
type Store struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	cell     Cell
	live     bool
	released bool
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores a cell and returns its handle.
func (s *Store) Create(c Cell) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	e := entry{cell: c, live: true}

	if len(s.freeList) > 0 {
		handle := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
		return handle, nil
	}

	s.entries = append(s.entries, e)
	return Handle(len(s.entries)), nil
}

// Get retrieves a cell by handle.
func (s *Store) Get(handle Handle) (Cell, bool) {
	if handle == 0 {
		return Cell{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return Cell{}, false
	}

	e := s.entries[idx]
	if !e.live {
		return Cell{}, false
	}
	return e.cell, true
}

// Drop removes a cell and returns it. The second return reports whether the
// handle was live.
func (s *Store) Drop(handle Handle) (Cell, bool) {
	if handle == 0 {
		return Cell{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return Cell{}, false
	}

	e := &s.entries[idx]
	if !e.live {
		return Cell{}, false
	}

	cell := e.cell
	e.live = false
	e.released = true
	e.cell = Cell{}
	s.freeList = append(s.freeList, handle)

	return cell, true
}

// Released reports whether handle was issued and later dropped. Used to
// distinguish use-after-release from a handle that never existed. The flag
// is cleared when the slot is reused for a new value.
func (s *Store) Released(handle Handle) bool {
	if handle == 0 {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return false
	}
	return s.entries[idx].released
}

// Len returns the number of live cells.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.live {
			count++
		}
	}
	return count
}

// Each iterates over all live cells.
func (s *Store) Each(fn func(Handle, Cell) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.live {
			if !fn(Handle(i+1), e.cell) {
				break
			}
		}
	}
}

// Close drops all cells and stops accepting operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for i := range s.entries {
		if s.entries[i].live {
			s.entries[i].live = false
			s.entries[i].released = true
			s.entries[i].cell = Cell{}
		}
	}

	s.entries = nil
	s.freeList = nil
	return nil
}
