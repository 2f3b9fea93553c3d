package interp

import (
	"math"
	"testing"
)

func TestDoubleToLong(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int64
	}{
		{"zero", 0.0, 0},
		{"negative zero", math.Copysign(0, -1), 0},
		{"truncates toward zero", -2.9, -2},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), math.MaxInt64},
		{"-Inf", math.Inf(-1), math.MinInt64},
		{"large in range", 9.2e18, 9200000000000000000},
		{"just past 2^63", 9.3e18, math.MaxInt64},
		{"2^63", 9223372036854775808.0, math.MaxInt64},
		{"-2^63", -9223372036854775808.0, math.MinInt64},
		{"1e300", 1e300, math.MaxInt64},
		{"-1e300", -1e300, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DoubleToLong(math.Float64bits(tt.in)); got != tt.want {
				t.Errorf("DoubleToLong(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNarrowConversionsSaturate(t *testing.T) {
	if got := DoubleToInt(math.Float64bits(3e10)); got != math.MaxInt32 {
		t.Errorf("d2i(3e10) = %d, want %d", got, int32(math.MaxInt32))
	}
	if got := DoubleToInt(math.Float64bits(-3e10)); got != math.MinInt32 {
		t.Errorf("d2i(-3e10) = %d, want %d", got, int32(math.MinInt32))
	}
	if got := DoubleToInt(math.Float64bits(-7.5)); got != -7 {
		t.Errorf("d2i(-7.5) = %d, want -7", got)
	}
	if got := DoubleToInt(math.Float64bits(math.NaN())); got != 0 {
		t.Errorf("d2i(NaN) = %d, want 0", got)
	}

	nan32 := math.Float32bits(float32(math.NaN()))
	if got := FloatToInt(nan32); got != 0 {
		t.Errorf("f2i(NaN) = %d, want 0", got)
	}
	if got := FloatToInt(math.Float32bits(float32(math.Inf(-1)))); got != math.MinInt32 {
		t.Errorf("f2i(-Inf) = %d, want %d", got, int32(math.MinInt32))
	}
	if got := FloatToInt(math.Float32bits(123.9)); got != 123 {
		t.Errorf("f2i(123.9) = %d, want 123", got)
	}
	if got := FloatToLong(nan32); got != 0 {
		t.Errorf("f2l(NaN) = %d, want 0", got)
	}
	if got := FloatToLong(math.Float32bits(1e20)); got != math.MaxInt64 {
		t.Errorf("f2l(1e20) = %d, want %d", got, int64(math.MaxInt64))
	}
	if got := FloatToLong(math.Float32bits(-1e20)); got != math.MinInt64 {
		t.Errorf("f2l(-1e20) = %d, want %d", got, int64(math.MinInt64))
	}
}
