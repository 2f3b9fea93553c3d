package interp

import "math"

// Floating-point to integer conversions. Go leaves out-of-range conversions
// implementation-defined, so anything whose magnitude might not fit is
// handled here: NaN converts to 0, everything else saturates.

// DoubleToLong converts the double with the given bit pattern to a long.
func DoubleToLong(bits uint64) int64 {
	exp := (bits >> 52) & 0x7ff
	if exp < 0x43e {
		return int64(math.Float64frombits(bits))
	}
	if exp == 0x7ff && bits&(1<<52-1) != 0 {
		return 0
	}
	// MaxInt64 plus the sign bit wraps to MinInt64 for negative inputs.
	return int64(uint64(math.MaxInt64) + bits>>63)
}

// DoubleToInt converts the double with the given bit pattern to an int.
func DoubleToInt(bits uint64) int32 {
	exp := (bits >> 52) & 0x7ff
	if exp < 0x41e {
		return int32(math.Float64frombits(bits))
	}
	if exp == 0x7ff && bits&(1<<52-1) != 0 {
		return 0
	}
	return int32(uint32(math.MaxInt32) + uint32(bits>>63))
}

// FloatToLong converts the float with the given bit pattern to a long.
func FloatToLong(bits uint32) int64 {
	exp := (bits >> 23) & 0xff
	if exp < 0xbe {
		return int64(math.Float32frombits(bits))
	}
	if exp == 0xff && bits&(1<<23-1) != 0 {
		return 0
	}
	return int64(uint64(math.MaxInt64) + uint64(bits>>31))
}

// FloatToInt converts the float with the given bit pattern to an int.
func FloatToInt(bits uint32) int32 {
	exp := (bits >> 23) & 0xff
	if exp < 0x9e {
		return int32(math.Float32frombits(bits))
	}
	if exp == 0xff && bits&(1<<23-1) != 0 {
		return 0
	}
	return int32(uint32(math.MaxInt32) + bits>>31)
}
