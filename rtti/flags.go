package rtti

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/wippyai/linmem/errors"
)

// Flags is the packed flag word of a type record.
type Flags uint32

const (
	None          Flags = 0
	Array         Flags = 1 << 0
	Set           Flags = 1 << 1
	Map           Flags = 1 << 2
	Acyclic       Flags = 1 << 3
	ValueAlign0   Flags = 1 << 4 // 1 byte
	ValueAlign1   Flags = 1 << 5 // 2 bytes
	ValueAlign2   Flags = 1 << 6 // 4 bytes
	ValueAlign3   Flags = 1 << 7 // 8 bytes
	ValueAlign4   Flags = 1 << 8 // 16 bytes
	ValueNullable Flags = 1 << 9
	ValueManaged  Flags = 1 << 10
	KeyAlign0     Flags = 1 << 11 // 1 byte
	KeyAlign1     Flags = 1 << 12 // 2 bytes
	KeyAlign2     Flags = 1 << 13 // 4 bytes
	KeyAlign3     Flags = 1 << 14 // 8 bytes
	KeyAlign4     Flags = 1 << 15 // 16 bytes
	KeyNullable   Flags = 1 << 16
	KeyManaged    Flags = 1 << 17
)

const (
	shapeMask      = Array | Set | Map
	valueAlignMask = ValueAlign0 | ValueAlign1 | ValueAlign2 | ValueAlign3 | ValueAlign4
	keyAlignMask   = KeyAlign0 | KeyAlign1 | KeyAlign2 | KeyAlign3 | KeyAlign4
	keyMask        = keyAlignMask | KeyNullable | KeyManaged
	definedMask    = shapeMask | Acyclic | valueAlignMask | ValueNullable | ValueManaged | keyMask
	reservedMask   = ^definedMask
)

// Shape is the container category of a type.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeArray
	ShapeSet
	ShapeMap
)

var shapeOrder = [...]struct {
	bit   Flags
	shape Shape
}{
	{Array, ShapeArray},
	{Set, ShapeSet},
	{Map, ShapeMap},
}

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeArray:
		return "array"
	case ShapeSet:
		return "set"
	case ShapeMap:
		return "map"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// ParseShape parses the names returned by Shape.String.
func ParseShape(s string) (Shape, bool) {
	switch strings.ToLower(s) {
	case "", "none", "plain":
		return ShapeNone, true
	case "array":
		return ShapeArray, true
	case "set":
		return ShapeSet, true
	case "map":
		return ShapeMap, true
	}
	return ShapeNone, false
}

// Align is a slot alignment in bytes. AlignNone means no alignment bit is set.
type Align uint8

const (
	AlignNone Align = 0
	Align1    Align = 1
	Align2    Align = 2
	Align4    Align = 4
	Align8    Align = 8
	Align16   Align = 16
)

var alignOrder = [...]Align{Align1, Align2, Align4, Align8, Align16}

// Bytes returns the alignment as a byte count.
func (a Align) Bytes() uint32 {
	return uint32(a)
}

func (a Align) String() string {
	if a == AlignNone {
		return "-"
	}
	return fmt.Sprintf("%d", uint8(a))
}

// ParseAlign maps a byte count to an Align. 0 maps to AlignNone.
func ParseAlign(n uint32) (Align, bool) {
	if n == 0 {
		return AlignNone, true
	}
	for _, a := range alignOrder {
		if uint32(a) == n {
			return a, true
		}
	}
	return AlignNone, false
}

// alignBits returns the one-hot offset of a within its group.
func alignBits(a Align) (Flags, bool) {
	for i, c := range alignOrder {
		if c == a {
			return 1 << i, true
		}
	}
	return 0, false
}

func decodeAlign(f Flags, first Flags) Align {
	for i, a := range alignOrder {
		if f&(first<<i) != 0 {
			return a
		}
	}
	return AlignNone
}

// Slot describes the value or key position of a container.
type Slot struct {
	Align    Align
	Nullable bool
	Managed  bool
}

func (s Slot) String() string {
	var b strings.Builder
	b.WriteString("align=")
	b.WriteString(s.Align.String())
	if s.Nullable {
		b.WriteString(" nullable")
	}
	if s.Managed {
		b.WriteString(" managed")
	}
	return b.String()
}

// Shape decodes the shape group.
func (f Flags) Shape() Shape {
	for _, c := range shapeOrder {
		if f&c.bit != 0 {
			return c.shape
		}
	}
	return ShapeNone
}

func (f Flags) IsAcyclic() bool       { return f&Acyclic != 0 }
func (f Flags) ValueAlign() Align     { return decodeAlign(f, ValueAlign0) }
func (f Flags) IsValueNullable() bool { return f&ValueNullable != 0 }
func (f Flags) IsValueManaged() bool  { return f&ValueManaged != 0 }
func (f Flags) KeyAlign() Align       { return decodeAlign(f, KeyAlign0) }
func (f Flags) IsKeyNullable() bool   { return f&KeyNullable != 0 }
func (f Flags) IsKeyManaged() bool    { return f&KeyManaged != 0 }

// Value decodes the value slot.
func (f Flags) Value() Slot {
	return Slot{Align: f.ValueAlign(), Nullable: f.IsValueNullable(), Managed: f.IsValueManaged()}
}

// Key decodes the key slot.
func (f Flags) Key() Slot {
	return Slot{Align: f.KeyAlign(), Nullable: f.IsKeyNullable(), Managed: f.IsKeyManaged()}
}

// Pack builds a flag word from decoded fields.
func Pack(shape Shape, acyclic bool, value, key Slot) (Flags, error) {
	var f Flags
	switch shape {
	case ShapeNone:
	case ShapeArray:
		f |= Array
	case ShapeSet:
		f |= Set
	case ShapeMap:
		f |= Map
	default:
		return 0, errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("unknown shape %d", shape))
	}
	if acyclic {
		f |= Acyclic
	}

	vf, err := packSlot(value, ValueAlign0, ValueNullable, ValueManaged, "value")
	if err != nil {
		return 0, err
	}
	kf, err := packSlot(key, KeyAlign0, KeyNullable, KeyManaged, "key")
	if err != nil {
		return 0, err
	}
	return f | vf | kf, nil
}

func packSlot(s Slot, alignBase, nullable, managed Flags, name string) (Flags, error) {
	var f Flags
	if s.Align != AlignNone {
		bit, ok := alignBits(s.Align)
		if !ok {
			return 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(name, "align").
				Value(uint8(s.Align)).
				Detail("alignment %d is not one of 1, 2, 4, 8, 16", uint8(s.Align)).
				Build()
		}
		f |= alignBase * bit
	}
	if s.Nullable {
		f |= nullable
	}
	if s.Managed {
		f |= managed
	}
	return f, nil
}

// Validate reports every layout rule the flag word breaks.
func (f Flags) Validate() error {
	return f.validate(nil)
}

func (f Flags) validate(path []string) error {
	var errs []error
	at := func(field string) []string {
		return append(append([]string(nil), path...), field)
	}

	if n := bits.OnesCount32(uint32(f & shapeMask)); n > 1 {
		errs = append(errs, errors.Malformed(at("shape"), fmt.Sprintf("%d shape bits set", n), uint32(f&shapeMask)))
	}
	if n := bits.OnesCount32(uint32(f & valueAlignMask)); n > 1 {
		errs = append(errs, errors.Malformed(at("value"), fmt.Sprintf("%d alignment bits set", n), uint32(f&valueAlignMask)))
	}
	if n := bits.OnesCount32(uint32(f & keyAlignMask)); n > 1 {
		errs = append(errs, errors.Malformed(at("key"), fmt.Sprintf("%d alignment bits set", n), uint32(f&keyAlignMask)))
	}
	if f&keyMask != 0 && f&Map == 0 {
		errs = append(errs, errors.Malformed(at("key"), "key fields set on a non-map type", uint32(f&keyMask)))
	}
	if f&reservedMask != 0 {
		errs = append(errs, errors.Malformed(at("flags"), fmt.Sprintf("reserved bits set: %#x", uint32(f&reservedMask)), uint32(f)))
	}
	return errors.Join(errs...)
}

func (f Flags) String() string {
	if f == None {
		return "NONE"
	}
	names := []struct {
		bit  Flags
		name string
	}{
		{Array, "ARRAY"}, {Set, "SET"}, {Map, "MAP"}, {Acyclic, "ACYCLIC"},
		{ValueAlign0, "VALUE_ALIGN_0"}, {ValueAlign1, "VALUE_ALIGN_1"}, {ValueAlign2, "VALUE_ALIGN_2"},
		{ValueAlign3, "VALUE_ALIGN_3"}, {ValueAlign4, "VALUE_ALIGN_4"},
		{ValueNullable, "VALUE_NULLABLE"}, {ValueManaged, "VALUE_MANAGED"},
		{KeyAlign0, "KEY_ALIGN_0"}, {KeyAlign1, "KEY_ALIGN_1"}, {KeyAlign2, "KEY_ALIGN_2"},
		{KeyAlign3, "KEY_ALIGN_3"}, {KeyAlign4, "KEY_ALIGN_4"},
		{KeyNullable, "KEY_NULLABLE"}, {KeyManaged, "KEY_MANAGED"},
	}
	var parts []string
	for _, n := range names {
		if f&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := f & reservedMask; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}
