package view

import (
	"encoding/binary"
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Byte order selectors for the littleEndian accessor argument.
const (
	BigEndian    = false
	LittleEndian = true
)

var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Reverse reverses the byte order of v across its full width.
func Reverse[T constraints.Unsigned](v T) T {
	switch unsafe.Sizeof(v) {
	case 2:
		return T(bits.ReverseBytes16(uint16(v)))
	case 4:
		return T(bits.ReverseBytes32(uint32(v)))
	case 8:
		return T(bits.ReverseBytes64(uint64(v)))
	default:
		return v
	}
}

// orient converts between host order and the requested order.
func orient[T constraints.Unsigned](v T, littleEndian bool) T {
	if littleEndian != hostLittleEndian {
		return Reverse(v)
	}
	return v
}
