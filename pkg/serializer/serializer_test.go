package serializer

import (
	"bytes"
	"testing"
)

func TestGeneralNaturalBoundaries(t *testing.T) {
	tests := []struct {
		x    uint64
		size int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{1<<14 - 1, 2},
		{1 << 14, 3},
		{1<<56 - 1, 8},
		{1 << 56, 9},
		{^uint64(0), 9},
	}
	for _, tt := range tests {
		enc := EncodeGeneralNatural(tt.x)
		if len(enc) != tt.size {
			t.Errorf("EncodeGeneralNatural(%d) is %d bytes, want %d", tt.x, len(enc), tt.size)
		}
		got, n, ok := DecodeGeneralNatural(enc)
		if !ok || n != len(enc) || got != tt.x {
			t.Errorf("DecodeGeneralNatural(%x) = %d, %d, %v, want %d", enc, got, n, ok, tt.x)
		}
	}
}

func TestReaderConsumesWriterOutput(t *testing.T) {
	var w Writer
	w.Natural(300)
	w.Fixed(4, 0xdeadbeef)
	w.String("mterp")
	w.Units([]uint16{0x0012, 0xff0e})
	w.Raw([]byte{7})

	r := NewReader(w.Bytes())
	if got := r.Natural(); got != 300 {
		t.Errorf("Natural() = %d, want 300", got)
	}
	if got := r.Fixed(4); got != 0xdeadbeef {
		t.Errorf("Fixed(4) = %x, want deadbeef", got)
	}
	if got := r.String(); got != "mterp" {
		t.Errorf("String() = %q, want %q", got, "mterp")
	}
	if got := r.Units(); len(got) != 2 || got[0] != 0x0012 || got[1] != 0xff0e {
		t.Errorf("Units() = %x", got)
	}
	if got := r.Raw(1); !bytes.Equal(got, []byte{7}) {
		t.Errorf("Raw(1) = %x, want 07", got)
	}
	if r.Err() != nil || r.Remaining() != 0 {
		t.Fatalf("err = %v, remaining = %d", r.Err(), r.Remaining())
	}
}

func TestReaderErrorsAreSticky(t *testing.T) {
	var w Writer
	w.Natural(1000)
	r := NewReader(w.Bytes())
	if got := r.Count(4); got != 0 {
		t.Errorf("Count(4) = %d on an empty tail, want 0", got)
	}
	if r.Err() == nil {
		t.Fatal("expected an error for a count past the end")
	}
	if got := r.Natural(); got != 0 {
		t.Errorf("Natural() after failure = %d, want 0", got)
	}
}
