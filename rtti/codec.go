package rtti

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/internal/abi"
)

const (
	// HeaderSize is the size of the count word.
	HeaderSize = 4
	// RecordSize is the size of one {flags, base} record.
	RecordSize = 8
)

// maxPrealloc bounds the capacity reserved from an untrusted count.
const maxPrealloc = 1024

// EncodedSize returns the number of bytes a table of count records occupies.
func EncodedSize(count uint32) (uint32, bool) {
	body, ok := abi.SafeMulU32(count, RecordSize)
	if !ok {
		return 0, false
	}
	return abi.SafeAddU32(body, HeaderSize)
}

// Decode parses a table from its wire form. Trailing bytes are ignored.
func Decode(data []byte) (*Table, error) {
	if len(data) < HeaderSize {
		return nil, errors.Truncated("rtti header", HeaderSize, len(data))
	}
	count := binary.LittleEndian.Uint32(data)
	size, ok := EncodedSize(count)
	if !ok {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"count"}, count, "u32")
	}
	if uint64(len(data)) < uint64(size) {
		return nil, errors.Truncated("rtti table", int(size), len(data))
	}

	records := make([]Typeinfo, count)
	for i := range records {
		off := HeaderSize + i*RecordSize
		records[i] = Typeinfo{
			Flags: Flags(binary.LittleEndian.Uint32(data[off:])),
			Base:  binary.LittleEndian.Uint32(data[off+4:]),
		}
	}
	t := &Table{records: records}
	assertWellFormed(t)
	return t, nil
}

// WordReader reads u32 words at byte offsets. *view.DataView implements it.
type WordReader interface {
	GetUint32(byteOffset uint32, littleEndian bool) (uint32, error)
}

// Read loads a table located at base from r. When r also reports its
// ByteLength, a count that cannot fit is rejected before any record is read.
func Read(r WordReader, base uint32) (*Table, error) {
	count, err := r.GetUint32(base, true)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformed, err, "read rtti count")
	}
	size, ok := EncodedSize(count)
	if !ok {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"count"}, count, "u32")
	}
	end, ok := abi.SafeAddU32(base, size)
	if !ok {
		return nil, errors.Overflow(errors.PhaseDecode, []string{"base"}, base, "u32")
	}
	if sized, ok := r.(interface{ ByteLength() uint32 }); ok && end > sized.ByteLength() {
		have := int64(sized.ByteLength()) - int64(base)
		return nil, errors.Truncated("rtti table", int(size), int(max(have, 0)))
	}

	records := make([]Typeinfo, 0, min(count, maxPrealloc))
	off := base + HeaderSize
	for id := uint32(0); id < count; id++ {
		flags, err := r.GetUint32(off, true)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformed, err, "read rtti flags")
		}
		baseID, err := r.GetUint32(off+4, true)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformed, err, "read rtti base")
		}
		records = append(records, Typeinfo{Flags: Flags(flags), Base: baseID})
		off += RecordSize
	}

	linmem.Logger().Debug("rtti table loaded",
		zap.Uint32("base", base),
		zap.Uint32("count", count))

	t := &Table{records: records}
	assertWellFormed(t)
	return t, nil
}

// AppendBinary appends the wire form of t to b.
func (t *Table) AppendBinary(b []byte) ([]byte, error) {
	if uint64(len(t.records)) > uint64(^uint32(0)) {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"count"}, len(t.records), "u32")
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(t.records)))
	for _, r := range t.records {
		b = binary.LittleEndian.AppendUint32(b, uint32(r.Flags))
		b = binary.LittleEndian.AppendUint32(b, r.Base)
	}
	return b, nil
}

// MarshalBinary returns the wire form of t.
func (t *Table) MarshalBinary() ([]byte, error) {
	size, _ := EncodedSize(uint32(len(t.records)))
	return t.AppendBinary(make([]byte, 0, size))
}

// UnmarshalBinary replaces t with the table decoded from data.
func (t *Table) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	t.records = decoded.records
	return nil
}
