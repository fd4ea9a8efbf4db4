package linmem

// DefaultMaxByteLength is the largest extent a single view may cover: the
// payload limit of one runtime block on wasm32.
const DefaultMaxByteLength uint32 = 1<<30 - 16

// Buffer is a fixed-length, byte-addressable memory region.
type Buffer interface {
	// Bytes returns the data region starting at buffer offset 0. The returned
	// slice aliases the buffer and is at least ByteLength bytes long.
	Bytes() []byte
	// ByteLength returns the buffer length, fixed at creation.
	ByteLength() uint32
}
