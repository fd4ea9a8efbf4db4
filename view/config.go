package view

import (
	"go.uber.org/zap"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/internal/abi"
)

// Config holds the limits applied when constructing views.
type Config struct {
	// MaxByteLength caps the extent of a single view.
	// 0 means linmem.DefaultMaxByteLength.
	MaxByteLength uint32
}

// DefaultConfig is used by the package-level constructors.
var DefaultConfig = &Config{MaxByteLength: linmem.DefaultMaxByteLength}

func (c *Config) maxByteLength() uint32 {
	if c == nil || c.MaxByteLength == 0 {
		return linmem.DefaultMaxByteLength
	}
	return c.MaxByteLength
}

// New creates a view over the whole buffer.
func New(buf linmem.Buffer) (*DataView, error) {
	return DefaultConfig.NewAt(buf, 0)
}

// NewAt creates a view from byteOffset to the end of the buffer.
func NewAt(buf linmem.Buffer, byteOffset uint32) (*DataView, error) {
	return DefaultConfig.NewAt(buf, byteOffset)
}

// NewRange creates a view of byteLength bytes starting at byteOffset.
func NewRange(buf linmem.Buffer, byteOffset, byteLength uint32) (*DataView, error) {
	return DefaultConfig.NewRange(buf, byteOffset, byteLength)
}

// New creates a view over the whole buffer.
func (c *Config) New(buf linmem.Buffer) (*DataView, error) {
	return c.NewAt(buf, 0)
}

// NewAt creates a view from byteOffset to the end of the buffer.
func (c *Config) NewAt(buf linmem.Buffer, byteOffset uint32) (*DataView, error) {
	if buf == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "nil buffer")
	}
	bufferLength := buf.ByteLength()
	if byteOffset > bufferLength {
		err := errors.New(errors.PhaseConstruct, errors.KindInvalidRange).
			Value(byteOffset).
			Detail("invalid offset %d beyond buffer length %d", byteOffset, bufferLength).
			Build()
		logRejected(err)
		return nil, err
	}
	return c.NewRange(buf, byteOffset, bufferLength-byteOffset)
}

// NewRange creates a view of byteLength bytes starting at byteOffset.
func (c *Config) NewRange(buf linmem.Buffer, byteOffset, byteLength uint32) (*DataView, error) {
	if buf == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "nil buffer")
	}
	if limit := c.maxByteLength(); byteLength > limit {
		err := errors.InvalidByteLength(byteLength, limit)
		logRejected(err)
		return nil, err
	}
	bufferLength := buf.ByteLength()
	end, ok := abi.SafeAddU32(byteOffset, byteLength)
	if !ok || end > bufferLength {
		err := errors.InvalidRange(byteOffset, byteLength, bufferLength)
		logRejected(err)
		return nil, err
	}
	return &DataView{
		buf:        buf,
		byteOffset: byteOffset,
		byteLength: byteLength,
	}, nil
}

func logRejected(err error) {
	linmem.Logger().Debug("view rejected", zap.Error(err))
}
