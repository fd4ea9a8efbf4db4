package buffer

import (
	"math"

	"github.com/wippyai/linmem/errors"
)

// Owned is a buffer backed by a Go byte slice.
type Owned struct {
	data []byte
}

// New allocates a zeroed buffer of n bytes.
func New(n uint32) *Owned {
	return &Owned{data: make([]byte, n)}
}

// FromBytes wraps b without copying. The caller must not resize b afterwards.
func FromBytes(b []byte) (*Owned, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseConstruct, nil, len(b), "u32")
	}
	return &Owned{data: b}, nil
}

// Bytes returns the backing slice.
func (o *Owned) Bytes() []byte {
	return o.data
}

// ByteLength returns the buffer length.
func (o *Owned) ByteLength() uint32 {
	return uint32(len(o.data))
}
