package view

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/internal/abi"
)

// DataView is a typed window over a buffer.
// The view keeps its buffer reachable for as long as the view itself is.
type DataView struct {
	buf        linmem.Buffer
	byteOffset uint32
	byteLength uint32
}

// Buffer returns the buffer the view reads and writes.
func (v *DataView) Buffer() linmem.Buffer {
	return v.buf
}

// ByteOffset returns the start of the view within its buffer.
func (v *DataView) ByteOffset() uint32 {
	return v.byteOffset
}

// ByteLength returns the length of the view.
func (v *DataView) ByteLength() uint32 {
	return v.byteLength
}

// Bytes returns the window covered by the view. The slice aliases the buffer.
// It returns nil if the buffer has shrunk below the window.
func (v *DataView) Bytes() []byte {
	start := v.byteOffset
	end := start + v.byteLength
	data := v.buf.Bytes()
	if uint64(len(data)) < uint64(end) {
		return nil
	}
	return data[start:end:end]
}

func (v *DataView) String() string {
	return fmt.Sprintf("DataView(offset=%d, length=%d)", v.byteOffset, v.byteLength)
}

// word returns the width bytes at byteOffset, or an out of bounds error.
func (v *DataView) word(byteOffset, width uint32, typ string) ([]byte, error) {
	if !abi.Fits(byteOffset, width, v.byteLength) {
		return nil, errors.OutOfBounds(typ, byteOffset, width, v.byteLength)
	}
	start := v.byteOffset + byteOffset
	end := start + width
	data := v.buf.Bytes()
	if uint64(len(data)) < uint64(end) {
		// buffer shorter than it reported at construction
		return nil, errors.OutOfBounds(typ, byteOffset, width, v.byteLength)
	}
	return data[start:end:end], nil
}

func (v *DataView) load8(byteOffset uint32, typ string) (uint8, error) {
	b, err := v.word(byteOffset, 1, typ)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (v *DataView) load16(byteOffset uint32, littleEndian bool, typ string) (uint16, error) {
	b, err := v.word(byteOffset, 2, typ)
	if err != nil {
		return 0, err
	}
	return orient(binary.NativeEndian.Uint16(b), littleEndian), nil
}

func (v *DataView) load32(byteOffset uint32, littleEndian bool, typ string) (uint32, error) {
	b, err := v.word(byteOffset, 4, typ)
	if err != nil {
		return 0, err
	}
	return orient(binary.NativeEndian.Uint32(b), littleEndian), nil
}

func (v *DataView) load64(byteOffset uint32, littleEndian bool, typ string) (uint64, error) {
	b, err := v.word(byteOffset, 8, typ)
	if err != nil {
		return 0, err
	}
	return orient(binary.NativeEndian.Uint64(b), littleEndian), nil
}

func (v *DataView) store8(byteOffset uint32, value uint8, typ string) error {
	b, err := v.word(byteOffset, 1, typ)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (v *DataView) store16(byteOffset uint32, value uint16, littleEndian bool, typ string) error {
	b, err := v.word(byteOffset, 2, typ)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint16(b, orient(value, littleEndian))
	return nil
}

func (v *DataView) store32(byteOffset uint32, value uint32, littleEndian bool, typ string) error {
	b, err := v.word(byteOffset, 4, typ)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(b, orient(value, littleEndian))
	return nil
}

func (v *DataView) store64(byteOffset uint32, value uint64, littleEndian bool, typ string) error {
	b, err := v.word(byteOffset, 8, typ)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(b, orient(value, littleEndian))
	return nil
}

// GetInt8 reads the signed 8-bit integer at byteOffset.
func (v *DataView) GetInt8(byteOffset uint32) (int8, error) {
	b, err := v.load8(byteOffset, "i8")
	return int8(b), err
}

// GetUint8 reads the unsigned 8-bit integer at byteOffset.
func (v *DataView) GetUint8(byteOffset uint32) (uint8, error) {
	return v.load8(byteOffset, "u8")
}

// SetInt8 writes value as a signed 8-bit integer at byteOffset.
func (v *DataView) SetInt8(byteOffset uint32, value int8) error {
	return v.store8(byteOffset, uint8(value), "i8")
}

// SetUint8 writes value as an unsigned 8-bit integer at byteOffset.
func (v *DataView) SetUint8(byteOffset uint32, value uint8) error {
	return v.store8(byteOffset, value, "u8")
}

// GetInt16 reads the signed 16-bit integer at byteOffset in the given byte order.
func (v *DataView) GetInt16(byteOffset uint32, littleEndian bool) (int16, error) {
	w, err := v.load16(byteOffset, littleEndian, "i16")
	return int16(w), err
}

// GetUint16 reads the unsigned 16-bit integer at byteOffset in the given byte order.
func (v *DataView) GetUint16(byteOffset uint32, littleEndian bool) (uint16, error) {
	return v.load16(byteOffset, littleEndian, "u16")
}

// SetInt16 writes value as a signed 16-bit integer at byteOffset in the given byte order.
func (v *DataView) SetInt16(byteOffset uint32, value int16, littleEndian bool) error {
	return v.store16(byteOffset, uint16(value), littleEndian, "i16")
}

// SetUint16 writes value as an unsigned 16-bit integer at byteOffset in the given byte order.
func (v *DataView) SetUint16(byteOffset uint32, value uint16, littleEndian bool) error {
	return v.store16(byteOffset, value, littleEndian, "u16")
}

// GetInt32 reads the signed 32-bit integer at byteOffset in the given byte order.
func (v *DataView) GetInt32(byteOffset uint32, littleEndian bool) (int32, error) {
	w, err := v.load32(byteOffset, littleEndian, "i32")
	return int32(w), err
}

// GetUint32 reads the unsigned 32-bit integer at byteOffset in the given byte order.
func (v *DataView) GetUint32(byteOffset uint32, littleEndian bool) (uint32, error) {
	return v.load32(byteOffset, littleEndian, "u32")
}

// SetInt32 writes value as a signed 32-bit integer at byteOffset in the given byte order.
func (v *DataView) SetInt32(byteOffset uint32, value int32, littleEndian bool) error {
	return v.store32(byteOffset, uint32(value), littleEndian, "i32")
}

// SetUint32 writes value as an unsigned 32-bit integer at byteOffset in the given byte order.
func (v *DataView) SetUint32(byteOffset uint32, value uint32, littleEndian bool) error {
	return v.store32(byteOffset, value, littleEndian, "u32")
}

// GetFloat32 reads the 32-bit float at byteOffset in the given byte order. It
// reverses the raw bits before reinterpreting, never the float value.
func (v *DataView) GetFloat32(byteOffset uint32, littleEndian bool) (float32, error) {
	w, err := v.load32(byteOffset, littleEndian, "f32")
	return math.Float32frombits(w), err
}

// SetFloat32 writes value as a 32-bit float at byteOffset in the given byte order.
func (v *DataView) SetFloat32(byteOffset uint32, value float32, littleEndian bool) error {
	return v.store32(byteOffset, math.Float32bits(value), littleEndian, "f32")
}

// GetInt64 reads the signed 64-bit integer at byteOffset in the given byte order.
func (v *DataView) GetInt64(byteOffset uint32, littleEndian bool) (int64, error) {
	w, err := v.load64(byteOffset, littleEndian, "i64")
	return int64(w), err
}

// GetUint64 reads the unsigned 64-bit integer at byteOffset in the given byte order.
func (v *DataView) GetUint64(byteOffset uint32, littleEndian bool) (uint64, error) {
	return v.load64(byteOffset, littleEndian, "u64")
}

// SetInt64 writes value as a signed 64-bit integer at byteOffset in the given byte order.
func (v *DataView) SetInt64(byteOffset uint32, value int64, littleEndian bool) error {
	return v.store64(byteOffset, uint64(value), littleEndian, "i64")
}

// SetUint64 writes value as an unsigned 64-bit integer at byteOffset in the given byte order.
func (v *DataView) SetUint64(byteOffset uint32, value uint64, littleEndian bool) error {
	return v.store64(byteOffset, value, littleEndian, "u64")
}

// GetFloat64 reads the 64-bit float at byteOffset in the given byte order.
func (v *DataView) GetFloat64(byteOffset uint32, littleEndian bool) (float64, error) {
	w, err := v.load64(byteOffset, littleEndian, "f64")
	return math.Float64frombits(w), err
}

// SetFloat64 writes value as a 64-bit float at byteOffset in the given byte order.
func (v *DataView) SetFloat64(byteOffset uint32, value float64, littleEndian bool) error {
	return v.store64(byteOffset, math.Float64bits(value), littleEndian, "f64")
}
