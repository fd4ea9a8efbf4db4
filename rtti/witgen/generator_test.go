package witgen

import (
	stderrors "errors"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/rtti"
)

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

func TestGeneratorString(t *testing.T) {
	g := New()
	id, err := g.Add(wit.String{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	again, err := g.Add(wit.String{})
	if err != nil || again != id {
		t.Fatalf("second Add = %d, %v; want %d", again, err, id)
	}
	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.Count() != 1 {
		t.Fatalf("Count = %d, want 1", tbl.Count())
	}
	if tbl.ShapeKind(id) != rtti.ShapeNone || !tbl.IsAcyclic(id) {
		t.Errorf("string descriptor = %s", tbl.Flags(id))
	}
}

func TestGeneratorArray(t *testing.T) {
	g := New()
	list := &wit.TypeDef{Kind: &wit.List{Type: wit.F64{}}}
	id, err := g.Add(list)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.ShapeKind(id) != rtti.ShapeArray {
		t.Errorf("shape = %s, want array", tbl.ShapeKind(id))
	}
	if tbl.ValueAlignment(id) != rtti.Align8 {
		t.Errorf("value align = %s, want 8", tbl.ValueAlignment(id))
	}
	if tbl.IsValueManaged(id) || tbl.IsValueNullable(id) {
		t.Errorf("list<f64> value should be plain, got %s", tbl.Flags(id))
	}
	if !tbl.IsAcyclic(id) {
		t.Error("list<f64> should be acyclic")
	}
	if got := g.Names()[id]; got != "list<f64>" {
		t.Errorf("name = %q", got)
	}
}

func TestGeneratorNestedRegistersElements(t *testing.T) {
	g := New()
	inner := &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}
	outer := &wit.TypeDef{Kind: &wit.List{Type: inner}}

	id, err := g.Add(outer)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	innerID, ok := g.ID(inner)
	if !ok {
		t.Fatal("inner list not registered")
	}
	strID, ok := g.ID(wit.String{})
	if !ok {
		t.Fatal("string not registered")
	}
	if !(strID < innerID && innerID < id) {
		t.Errorf("ids string=%d inner=%d outer=%d, want dependencies first", strID, innerID, id)
	}

	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if !tbl.IsValueManaged(id) || !tbl.IsValueManaged(innerID) {
		t.Error("lists of references should have managed values")
	}
	if tbl.ValueAlignment(id) != rtti.Align4 {
		t.Errorf("value align = %s, want 4", tbl.ValueAlignment(id))
	}
}

func TestGeneratorMap(t *testing.T) {
	g := New()
	opt := &wit.TypeDef{Kind: &wit.Option{Type: wit.U64{}}}
	entry := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.String{}, opt}}}
	m := named("scores", &wit.List{Type: entry})

	id, err := g.Add(m)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	d := tbl.Descriptor(id)
	if d.Shape != rtti.ShapeMap {
		t.Fatalf("shape = %s, want map", d.Shape)
	}
	if d.Key.Align != rtti.Align4 || !d.Key.Managed || d.Key.Nullable {
		t.Errorf("key slot = %s", d.Key)
	}
	if d.Value.Align != rtti.Align8 || d.Value.Managed || !d.Value.Nullable {
		t.Errorf("value slot = %s", d.Value)
	}
	if got := g.Names()[id]; got != "scores" {
		t.Errorf("name = %q", got)
	}
}

func TestGeneratorHandlesAreCyclic(t *testing.T) {
	g := New()
	res := named("file", &wit.Resource{})
	own := &wit.TypeDef{Kind: &wit.Own{Type: res}}
	rec := named("entry", &wit.Record{Fields: []wit.Field{
		{Name: "handle", Type: own},
		{Name: "size", Type: wit.U32{}},
	}})
	plain := named("point", &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "y", Type: wit.S32{}},
	}})

	recID, err := g.Add(rec)
	if err != nil {
		t.Fatalf("Add(entry): %v", err)
	}
	pointID, err := g.Add(plain)
	if err != nil {
		t.Fatalf("Add(point): %v", err)
	}
	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.IsAcyclic(recID) {
		t.Error("record holding own<file> should not be acyclic")
	}
	if !tbl.IsAcyclic(pointID) {
		t.Error("record of scalars should be acyclic")
	}
	if _, ok := g.ID(res); !ok {
		t.Error("resource not registered")
	}
	if tbl.ShapeKind(recID) != rtti.ShapeNone {
		t.Errorf("record shape = %s", tbl.ShapeKind(recID))
	}
}

func TestGeneratorAliasSharesID(t *testing.T) {
	g := New()
	list := &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	alias := named("bytes", list)

	id, err := g.Add(list)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	aliasID, err := g.Add(alias)
	if err != nil {
		t.Fatalf("Add(alias): %v", err)
	}
	if aliasID != id {
		t.Errorf("alias id = %d, want %d", aliasID, id)
	}
	if n := len(g.Names()); n != 1 {
		t.Errorf("len(Names) = %d, want 1", n)
	}
}

func TestGeneratorScalarAliasElements(t *testing.T) {
	g := New()
	timestamp := named("timestamp", wit.U64{})
	event := named("event", &wit.Record{Fields: []wit.Field{
		{Name: "at", Type: timestamp},
		{Name: "name", Type: wit.String{}},
	}})
	list := &wit.TypeDef{Kind: &wit.List{Type: timestamp}}

	if _, err := g.Add(event); err != nil {
		t.Fatalf("Add(event): %v", err)
	}
	id, err := g.Add(list)
	if err != nil {
		t.Fatalf("Add(list<timestamp>): %v", err)
	}
	if _, ok := g.ID(timestamp); ok {
		t.Error("scalar alias should not be registered")
	}
	tbl, err := g.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if tbl.ShapeKind(id) != rtti.ShapeArray {
		t.Errorf("shape = %s, want array", tbl.ShapeKind(id))
	}
	if tbl.ValueAlignment(id) != rtti.Align8 {
		t.Errorf("value align = %s, want 8", tbl.ValueAlignment(id))
	}
	if tbl.IsValueManaged(id) {
		t.Errorf("list<timestamp> value should be plain, got %s", tbl.Flags(id))
	}

	// a scalar alias on its own still has no descriptor
	if _, err := g.Add(timestamp); err == nil {
		t.Error("Add(timestamp): expected error")
	}
}

func TestGeneratorRejectsScalars(t *testing.T) {
	g := New()
	for _, typ := range []wit.Type{wit.U32{}, wit.Bool{}, wit.F64{}} {
		_, err := g.Add(typ)
		if err == nil {
			t.Errorf("%s: expected error", TypeName(typ))
			continue
		}
		var e *errors.Error
		if !stderrors.As(err, &e) || e.Kind != errors.KindUnsupported || e.Phase != errors.PhaseGenerate {
			t.Errorf("%s: unexpected error %v", TypeName(typ), err)
		}
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		want string
	}{
		{wit.U8{}, "u8"},
		{wit.String{}, "string"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}, "list<u32>"},
		{&wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.String{}}}}, "tuple<u8, string>"},
		{&wit.TypeDef{Kind: &wit.Option{Type: wit.Char{}}}, "option<char>"},
		{&wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}}}, "result<u32, _>"},
		{&wit.TypeDef{Kind: &wit.Own{}}, "own<resource>"},
		{named("point", &wit.Record{}), "point"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.typ); got != tt.want {
			t.Errorf("TypeName = %q, want %q", got, tt.want)
		}
	}
}
