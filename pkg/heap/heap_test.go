package heap

import (
	"testing"

	"mterp/pkg/types"
)

func TestCollectFreesUnreachable(t *testing.T) {
	h := New(0)
	arr := h.Alloc(NewArray("[Ljava/lang/Object;", types.KindObject, 2))
	kept := h.Alloc(NewInstance("LKept;"))
	dropped := h.Alloc(NewInstance("LDropped;"))
	h.Get(arr).SetElement(1, types.RefValue(kept))

	inner := h.Alloc(NewInstance("LInner;"))
	h.Get(kept).Fields["next"] = types.RefValue(inner)

	stats := h.Collect(func(visit func(types.HeapRef)) { visit(arr) })
	if stats.Live != 3 || stats.Freed != 1 {
		t.Fatalf("got %+v, want 3 live and 1 freed", stats)
	}
	if h.Get(dropped) != nil {
		t.Errorf("unreachable object survived")
	}
	if h.Get(inner) == nil {
		t.Errorf("object reachable through a field was freed")
	}

	reused := h.Alloc(NewInstance("LNew;"))
	if reused != dropped {
		t.Errorf("got ref %d, want freed slot %d reused", reused, dropped)
	}
}

func TestNeedsCollectionAfterThreshold(t *testing.T) {
	h := New(3)
	for i := 0; i < 2; i++ {
		h.Alloc(NewInstance("LA;"))
	}
	if h.NeedsCollection() {
		t.Fatalf("collection requested after 2 of 3 allocations")
	}
	h.Alloc(NewInstance("LA;"))
	if !h.NeedsCollection() {
		t.Fatalf("collection not requested at threshold")
	}
	h.Collect(func(func(types.HeapRef)) {})
	if h.NeedsCollection() || h.Live() != 0 {
		t.Errorf("after collect: needs=%t live=%d, want false and 0", h.NeedsCollection(), h.Live())
	}
}

func TestElementsNarrowToArrayKind(t *testing.T) {
	a := NewArray("[B", types.KindByte, 1)
	a.SetElement(0, types.IntValue(0x1ff))
	if got := a.Element(0).Int(); got != -1 {
		t.Errorf("byte element = %d, want -1", got)
	}
	c := NewArray("[C", types.KindChar, 1)
	c.SetElement(0, types.IntValue(-1))
	if got := c.Element(0).Int(); got != 0xffff {
		t.Errorf("char element = %d, want 65535", got)
	}
}
