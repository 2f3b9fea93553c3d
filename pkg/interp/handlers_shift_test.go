package interp

import "testing"

var shiftValues = []uint64{
	0,
	1,
	0x8000000000000000,
	0xffffffffffffffff,
	0x0123456789abcdef,
	0xfedcba9876543210,
	0x00000000ffffffff,
	0xffffffff00000000,
}

func TestWideShiftsMatchNativeShifts(t *testing.T) {
	for _, v := range shiftValues {
		for s := uint32(0); s < 64; s++ {
			if got, want := ShlLong(v, s), v<<s; got != want {
				t.Errorf("ShlLong(%#x, %d) = %#x, want %#x", v, s, got, want)
			}
			if got, want := ShrLong(v, s), uint64(int64(v)>>s); got != want {
				t.Errorf("ShrLong(%#x, %d) = %#x, want %#x", v, s, got, want)
			}
			if got, want := UshrLong(v, s), v>>s; got != want {
				t.Errorf("UshrLong(%#x, %d) = %#x, want %#x", v, s, got, want)
			}
		}
	}
}

func TestWideShiftBoundaries(t *testing.T) {
	const v = 0x8000000180000001
	tests := []struct {
		s              uint32
		shl, shr, ushr uint64
	}{
		{0, v, v, v},
		{31, 0xc000000080000000, 0xffffffff00000003, 0x0000000100000003},
		{32, 0x8000000100000000, 0xffffffff80000001, 0x0000000080000001},
		{63, 0x8000000000000000, 0xffffffffffffffff, 0x0000000000000001},
	}
	for _, tt := range tests {
		if got := ShlLong(v, tt.s); got != tt.shl {
			t.Errorf("shl-long by %d: got %#x, want %#x", tt.s, got, tt.shl)
		}
		if got := ShrLong(v, tt.s); got != tt.shr {
			t.Errorf("shr-long by %d: got %#x, want %#x", tt.s, got, tt.shr)
		}
		if got := UshrLong(v, tt.s); got != tt.ushr {
			t.Errorf("ushr-long by %d: got %#x, want %#x", tt.s, got, tt.ushr)
		}
	}
}

func TestWideShiftAmountIsMasked(t *testing.T) {
	for _, v := range shiftValues {
		for _, pair := range [][2]uint32{{64, 0}, {96, 32}, {127, 63}, {0xffffffff, 63}, {0x80000021, 33}} {
			big, small := pair[0], pair[1]
			if ShlLong(v, big) != ShlLong(v, small) {
				t.Errorf("ShlLong(%#x, %d) differs from shift by %d", v, big, small)
			}
			if ShrLong(v, big) != ShrLong(v, small) {
				t.Errorf("ShrLong(%#x, %d) differs from shift by %d", v, big, small)
			}
			if UshrLong(v, big) != UshrLong(v, small) {
				t.Errorf("UshrLong(%#x, %d) differs from shift by %d", v, big, small)
			}
		}
	}
}
