package framestack

import (
	"fmt"

	"mterp/pkg/constants"
	"mterp/pkg/errors"
)

// Slot is one virtual register: 32 bits of payload and whether those bits
// are a heap reference. It contains no Go pointers, so slots may live in
// memory the Go collector does not scan.
type Slot struct {
	Bits uint32
	Ref  bool
}

// Stack is a per-thread LIFO arena from which register files are carved,
// one per method invocation. It is owned by a single interpreter thread.
type Stack struct {
	slots   []Slot
	top     int
	release func() error
}

// New reserves numSlots slots. Zero selects constants.DefaultStackSlots.
func New(numSlots int) (*Stack, error) {
	if numSlots == 0 {
		numSlots = constants.DefaultStackSlots
	}
	if numSlots < constants.MinStackSlots {
		return nil, fmt.Errorf("stack of %d slots is below the minimum of %d", numSlots, constants.MinStackSlots)
	}
	slots, release, err := reserve(numSlots)
	if err != nil {
		return nil, err
	}
	return &Stack{slots: slots, release: release}, nil
}

// Push returns n zeroed slots on top of the stack.
func (s *Stack) Push(n int) ([]Slot, error) {
	if n < 0 || s.top+n > len(s.slots) {
		return nil, errors.Wrapf(errors.ErrStackOverflow, "need %d slots, %d free", n, len(s.slots)-s.top)
	}
	frame := s.slots[s.top : s.top+n : s.top+n]
	clear(frame)
	s.top += n
	return frame, nil
}

// Pop releases the n slots most recently pushed.
func (s *Stack) Pop(n int) {
	if n > s.top {
		panic(fmt.Sprintf("framestack: pop %d with %d in use", n, s.top))
	}
	s.top -= n
}

// Used returns the number of slots currently pushed.
func (s *Stack) Used() int {
	return s.top
}

func (s *Stack) Capacity() int {
	return len(s.slots)
}

// Free returns the arena's memory. The stack must not be used afterwards.
func (s *Stack) Free() error {
	if s.slots == nil {
		return nil
	}
	s.slots = nil
	s.top = 0
	return s.release()
}
