package interp

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/types"
)

func TestRegisterStoresMaintainShadow(t *testing.T) {
	r := NewRegisterFile(make([]VReg, 6))

	r.SetRef(0, 42)
	if got := r.Shadow(0); got != 42 {
		t.Fatalf("shadow after reference store = %d, want 42", got)
	}
	r.SetInt(0, 42)
	if got := r.Shadow(0); !got.IsNull() {
		t.Errorf("shadow after int store = %d, want null", got)
	}

	r.SetRef(1, 7)
	r.SetFloat(1, 1.5)
	if got := r.Shadow(1); !got.IsNull() {
		t.Errorf("shadow after float store = %d, want null", got)
	}

	r.SetRef(2, types.NullRef)
	if r.Slot(2).Ref {
		t.Errorf("null reference store left slot tagged")
	}
}

func TestWideStoreClearsBothShadowSlots(t *testing.T) {
	r := NewRegisterFile(make([]VReg, 4))
	r.SetRef(1, 100)
	r.SetRef(2, 200)

	r.SetLong(1, -1)
	if got := r.Shadow(1); !got.IsNull() {
		t.Errorf("low half shadow = %d, want null", got)
	}
	if got := r.Shadow(2); !got.IsNull() {
		t.Errorf("high half shadow = %d, want null", got)
	}
	if got := r.GetLong(1); got != -1 {
		t.Errorf("GetLong = %d, want -1", got)
	}
	if got := r.Get(1); got != 0xffffffff {
		t.Errorf("low word = %#x, want 0xffffffff", got)
	}
}

func TestCopyKeepsTagAndMoveDropsIt(t *testing.T) {
	r := NewRegisterFile(make([]VReg, 3))
	r.SetRef(0, 9)

	r.Copy(1, 0)
	if got := r.Shadow(1); got != 9 {
		t.Errorf("move-object shadow = %d, want 9", got)
	}
	r.Set(2, r.Get(0))
	if got := r.Shadow(2); !got.IsNull() {
		t.Errorf("move shadow = %d, want null", got)
	}
}

func TestVisitRefsSeesExactlyTaggedSlots(t *testing.T) {
	r := NewRegisterFile(make([]VReg, 5))
	r.SetRef(0, 3)
	r.SetInt(1, 3)
	r.SetRef(3, 11)
	r.SetWide(3, 0)
	r.SetRef(4, 12)

	var got []types.HeapRef
	r.VisitRefs(func(ref types.HeapRef) { got = append(got, ref) })
	if diff := cmp.Diff([]types.HeapRef{3, 12}, got); diff != "" {
		t.Errorf("VisitRefs mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreNarrowsSubIntKinds(t *testing.T) {
	r := NewRegisterFile(make([]VReg, 1))
	tests := []struct {
		kind types.PrimitiveKind
		in   uint32
		want int32
	}{
		{types.KindByte, 0x80, -128},
		{types.KindChar, 0xffff8000, 0x8000},
		{types.KindShort, 0x18000, -32768},
		{types.KindBoolean, 3, 1},
		{types.KindInt, 0xffffffff, -1},
	}
	for _, tt := range tests {
		r.Store(0, tt.kind, types.JValue{Bits: uint64(tt.in)})
		if got := r.GetInt(0); got != tt.want {
			t.Errorf("Store(%s, %#x) = %d, want %d", tt.kind, tt.in, got, tt.want)
		}
	}
}
