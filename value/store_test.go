package value

import (
	"testing"
)

func TestStore_CreateGet(t *testing.T) {
	s := NewStore()

	h, err := s.Create(IntegerCell(42))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	c, ok := s.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if c.Kind != KindInteger || c.Int != 42 {
		t.Fatalf("Expected integer 42, got %+v", c)
	}
}

func TestStore_HandleZeroInvalid(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get(0); ok {
		t.Fatal("Get(0) should fail")
	}
	if _, ok := s.Drop(0); ok {
		t.Fatal("Drop(0) should fail")
	}
}

func TestStore_DropOnce(t *testing.T) {
	s := NewStore()

	h, _ := s.Create(IntegerCell(1))

	if _, ok := s.Drop(h); !ok {
		t.Fatal("First Drop should succeed")
	}
	if _, ok := s.Drop(h); ok {
		t.Fatal("Second Drop should fail")
	}
	if !s.Released(h) {
		t.Fatal("Released should report dropped handle")
	}
}

func TestStore_HandleReuse(t *testing.T) {
	s := NewStore()

	h1, _ := s.Create(IntegerCell(1))
	s.Drop(h1)

	h2, _ := s.Create(IntegerCell(2))
	if h2 != h1 {
		t.Fatalf("Expected slot reuse, got %d and %d", h1, h2)
	}
	if s.Released(h2) {
		t.Fatal("Reused slot should no longer report released")
	}

	c, ok := s.Get(h2)
	if !ok || c.Int != 2 {
		t.Fatalf("Expected integer 2, got %+v", c)
	}
}

func TestStore_Len(t *testing.T) {
	s := NewStore()

	h1, _ := s.Create(IntegerCell(1))
	s.Create(DecimalCell(2.5))

	if s.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", s.Len())
	}

	s.Drop(h1)
	if s.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", s.Len())
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore()
	s.Create(IntegerCell(1))

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := s.Create(IntegerCell(2)); err != ErrClosed {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Second Close should be a no-op, got %v", err)
	}
}
