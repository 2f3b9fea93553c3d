package bitsequence

import "testing"

func TestSetAndTest(t *testing.T) {
	bs := New(19)
	for _, i := range []int{0, 3, 8, 18} {
		bs.Set(i)
	}
	if got := bs.Len(); got != 19 {
		t.Fatalf("Len() = %d, want 19", got)
	}
	if !bs.Test(18) || bs.Test(17) {
		t.Errorf("unexpected bits around the tail: 17=%v 18=%v", bs.Test(17), bs.Test(18))
	}
	if bs.Test(19) || bs.Test(-1) {
		t.Errorf("out-of-range positions must read as false")
	}
	if !bs.BitAt(3) || bs.BitAt(4) || !bs.BitAt(8) {
		t.Errorf("BitAt(3,4,8) = %v %v %v, want true false true", bs.BitAt(3), bs.BitAt(4), bs.BitAt(8))
	}
}

func TestSetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Set past the end did not panic")
		}
	}()
	New(4).Set(4)
}
