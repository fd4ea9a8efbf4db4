package abi

import "math"

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

// Fits reports whether [offset, offset+width) lies within length without
// computing a sum that could wrap.
func Fits(offset, width, length uint32) bool {
	return offset <= length && length-offset >= width
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func IsPow2(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// DiscriminantSize returns the byte size of a variant or enum discriminant.
func DiscriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	}
	if numCases <= 65536 {
		return 2
	}
	return 4
}
