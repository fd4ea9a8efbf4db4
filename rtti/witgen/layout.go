package witgen

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/linmem/internal/abi"
)

// layoutInfo is the Canonical ABI size and alignment of a type.
type layoutInfo struct {
	Size  uint32
	Align uint32
}

type layoutCalculator struct {
	cache map[*wit.TypeDef]layoutInfo
}

func newLayoutCalculator() *layoutCalculator {
	return &layoutCalculator{
		cache: make(map[*wit.TypeDef]layoutInfo),
	}
}

func (c *layoutCalculator) calculate(t wit.Type) layoutInfo {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return layoutInfo{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return layoutInfo{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return layoutInfo{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return layoutInfo{Size: 8, Align: 8}
	case wit.String:
		return layoutInfo{Size: 8, Align: 4} // [ptr: u32, len: u32]
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return layoutInfo{Size: 0, Align: 1}
	}
}

func (c *layoutCalculator) calculateTypeDef(t *wit.TypeDef) layoutInfo {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info layoutInfo
	switch kind := t.Kind.(type) {
	case *wit.Record:
		fields := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			fields[i] = f.Type
		}
		info = c.sequence(fields)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Variant:
		payloads := make([]wit.Type, len(kind.Cases))
		for i, cs := range kind.Cases {
			payloads[i] = cs.Type
		}
		info = c.tagged(abi.DiscriminantSize(len(kind.Cases)), payloads...)
	case *wit.Enum:
		size := abi.DiscriminantSize(len(kind.Cases))
		info = layoutInfo{Size: size, Align: size}
	case *wit.Option:
		info = c.tagged(1, kind.Type)
	case *wit.Result:
		info = c.tagged(1, kind.OK, kind.Err)
	case *wit.Flags:
		info = flagsLayout(len(kind.Flags))
	case *wit.List:
		info = layoutInfo{Size: 8, Align: 4} // [ptr: u32, len: u32]
	case *wit.Own, *wit.Borrow:
		info = layoutInfo{Size: 4, Align: 4} // handle index
	case wit.Type:
		info = c.calculate(kind)
	default:
		info = layoutInfo{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// sequence lays out types one after another with padding.
func (c *layoutCalculator) sequence(types []wit.Type) layoutInfo {
	if len(types) == 0 {
		return layoutInfo{Size: 0, Align: 1}
	}
	maxAlign := uint32(1)
	offset := uint32(0)
	for _, typ := range types {
		elem := c.calculate(typ)
		offset = abi.AlignTo(offset, elem.Align)
		if elem.Align > maxAlign {
			maxAlign = elem.Align
		}
		offset += elem.Size
	}
	return layoutInfo{Size: abi.AlignTo(offset, maxAlign), Align: maxAlign}
}

// tagged lays out a discriminant followed by the largest payload. Nil payloads
// are cases without a value.
func (c *layoutCalculator) tagged(discSize uint32, payloads ...wit.Type) layoutInfo {
	maxAlign := discSize
	maxSize := uint32(0)
	for _, p := range payloads {
		if p == nil {
			continue
		}
		l := c.calculate(p)
		if l.Align > maxAlign {
			maxAlign = l.Align
		}
		if l.Size > maxSize {
			maxSize = l.Size
		}
	}
	payloadOffset := abi.AlignTo(discSize, maxAlign)
	return layoutInfo{Size: abi.AlignTo(payloadOffset+maxSize, maxAlign), Align: maxAlign}
}

func flagsLayout(numFlags int) layoutInfo {
	switch {
	case numFlags == 0:
		return layoutInfo{Size: 0, Align: 1}
	case numFlags <= 8:
		return layoutInfo{Size: 1, Align: 1}
	case numFlags <= 16:
		return layoutInfo{Size: 2, Align: 2}
	default:
		// >32 flags are stored as multiple u32s
		return layoutInfo{Size: uint32((numFlags+31)/32) * 4, Align: 4}
	}
}
