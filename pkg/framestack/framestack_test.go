package framestack

import (
	"testing"

	"mterp/pkg/constants"
	"mterp/pkg/errors"
)

func TestPushPopReusesZeroedSlots(t *testing.T) {
	s, err := New(constants.MinStackSlots)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Free()

	a, err := s.Push(4)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	a[3] = Slot{Bits: 0xdeadbeef, Ref: true}
	b, err := s.Push(2)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if s.Used() != 6 {
		t.Errorf("Used() = %d, want 6", s.Used())
	}
	if cap(b) != 2 {
		t.Errorf("cap(frame) = %d, want 2", cap(b))
	}
	s.Pop(2)
	s.Pop(4)

	c, err := s.Push(4)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if c[3] != (Slot{}) {
		t.Errorf("reused slot = %+v, want zero", c[3])
	}
}

func TestPushOverflow(t *testing.T) {
	s, err := New(constants.MinStackSlots)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Free()

	if _, err := s.Push(s.Capacity()); err != nil {
		t.Fatalf("Push(capacity): %v", err)
	}
	if _, err := s.Push(1); !errors.Is(err, errors.ErrStackOverflow) {
		t.Fatalf("Push past capacity = %v, want ErrStackOverflow", err)
	}
}

func TestNewRejectsTinyStacks(t *testing.T) {
	if _, err := New(16); err == nil {
		t.Fatalf("New(16) succeeded")
	}
}
