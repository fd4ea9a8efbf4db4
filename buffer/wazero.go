package buffer

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/linmem/errors"
)

// WrapMemory wraps a wazero api.Memory as a fixed-length buffer covering the
// memory as it is sized now.
func WrapMemory(mem api.Memory) (*Wazero, error) {
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "nil memory")
	}
	return &Wazero{Mem: mem, size: mem.Size()}, nil
}

// Wazero adapts wazero api.Memory to linmem.Buffer.
//
// The length is captured when the memory is wrapped; later memory.grow does not
// extend it. Bytes re-resolves the backing slice on every call because growth
// may move guest memory. A nil *Wazero is an empty buffer.
type Wazero struct {
	Mem  api.Memory
	size uint32
}

// Bytes returns the wrapped region of guest memory.
func (m *Wazero) Bytes() []byte {
	if m == nil || m.Mem == nil {
		return nil
	}
	data, ok := m.Mem.Read(0, m.size)
	if !ok {
		return nil
	}
	return data
}

// ByteLength returns the memory size captured at wrap time.
func (m *Wazero) ByteLength() uint32 {
	if m == nil || m.Mem == nil {
		return 0
	}
	return m.size
}
