package witgen

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestLayoutPrimitives(t *testing.T) {
	c := newLayoutCalculator()
	tests := []struct {
		typ   wit.Type
		size  uint32
		align uint32
	}{
		{wit.Bool{}, 1, 1},
		{wit.U8{}, 1, 1},
		{wit.S16{}, 2, 2},
		{wit.U32{}, 4, 4},
		{wit.F32{}, 4, 4},
		{wit.Char{}, 4, 4},
		{wit.S64{}, 8, 8},
		{wit.F64{}, 8, 8},
		{wit.String{}, 8, 4},
	}
	for _, tt := range tests {
		got := c.calculate(tt.typ)
		if got.Size != tt.size || got.Align != tt.align {
			t.Errorf("%s: got size=%d align=%d, want size=%d align=%d",
				TypeName(tt.typ), got.Size, got.Align, tt.size, tt.align)
		}
	}
}

func TestLayoutRecordPadding(t *testing.T) {
	c := newLayoutCalculator()
	rec := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "a", Type: wit.U8{}},
		{Name: "b", Type: wit.U32{}},
		{Name: "c", Type: wit.U16{}},
	}}}
	got := c.calculate(rec)
	if got.Size != 12 || got.Align != 4 {
		t.Errorf("got size=%d align=%d, want 12/4", got.Size, got.Align)
	}
}

func TestLayoutTagged(t *testing.T) {
	c := newLayoutCalculator()

	opt := &wit.TypeDef{Kind: &wit.Option{Type: wit.U64{}}}
	if got := c.calculate(opt); got.Size != 16 || got.Align != 8 {
		t.Errorf("option<u64>: got size=%d align=%d, want 16/8", got.Size, got.Align)
	}

	res := &wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}}}
	if got := c.calculate(res); got.Size != 8 || got.Align != 4 {
		t.Errorf("result<u32>: got size=%d align=%d, want 8/4", got.Size, got.Align)
	}

	v := &wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{
		{Name: "none"},
		{Name: "byte", Type: wit.U8{}},
	}}}
	if got := c.calculate(v); got.Size != 2 || got.Align != 1 {
		t.Errorf("variant: got size=%d align=%d, want 2/1", got.Size, got.Align)
	}
}

func TestLayoutHandlesAndLists(t *testing.T) {
	c := newLayoutCalculator()
	for _, typ := range []wit.Type{
		&wit.TypeDef{Kind: &wit.Own{}},
		&wit.TypeDef{Kind: &wit.Borrow{}},
	} {
		if got := c.calculate(typ); got.Size != 4 || got.Align != 4 {
			t.Errorf("%s: got size=%d align=%d, want 4/4", TypeName(typ), got.Size, got.Align)
		}
	}
	list := &wit.TypeDef{Kind: &wit.List{Type: wit.F64{}}}
	if got := c.calculate(list); got.Size != 8 || got.Align != 4 {
		t.Errorf("list: got size=%d align=%d, want 8/4", got.Size, got.Align)
	}
}

func TestFlagsLayout(t *testing.T) {
	tests := []struct {
		n     int
		size  uint32
		align uint32
	}{
		{0, 0, 1},
		{8, 1, 1},
		{9, 2, 2},
		{17, 4, 4},
		{33, 8, 4},
	}
	for _, tt := range tests {
		got := flagsLayout(tt.n)
		if got.Size != tt.size || got.Align != tt.align {
			t.Errorf("flags(%d): got size=%d align=%d, want %d/%d", tt.n, got.Size, got.Align, tt.size, tt.align)
		}
	}
}
