package manifest

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/rtti"
)

const sample = `
[[type]]
name = "object"

[[type]]
name = "string"
acyclic = true

[[type]]
name = "Array<i32>"
shape = "array"
acyclic = true
[type.value]
align = 4

[[type]]
name = "Map<string,Foo|null>"
shape = "map"
[type.key]
align = 4
managed = true
[type.value]
align = 4
nullable = true
managed = true
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tbl := m.Table()
	if tbl.Count() != 4 {
		t.Fatalf("Count = %d, want 4", tbl.Count())
	}

	id, ok := m.ID("Array<i32>")
	if !ok || id != 2 {
		t.Fatalf("ID(Array<i32>) = %d, %v", id, ok)
	}
	if tbl.ShapeKind(id) != rtti.ShapeArray || tbl.ValueAlignment(id) != rtti.Align4 || !tbl.IsAcyclic(id) {
		t.Errorf("Array<i32> = %s", tbl.Flags(id))
	}
	if tbl.BaseTypeID(id) != 0 {
		t.Errorf("base = %d, want 0", tbl.BaseTypeID(id))
	}

	mapID, _ := m.ID("Map<string,Foo|null>")
	d := tbl.Descriptor(mapID)
	if d.Shape != rtti.ShapeMap || d.Acyclic {
		t.Errorf("map descriptor = %+v", d)
	}
	if d.Key != (rtti.Slot{Align: rtti.Align4, Managed: true}) {
		t.Errorf("key = %s", d.Key)
	}
	if d.Value != (rtti.Slot{Align: rtti.Align4, Nullable: true, Managed: true}) {
		t.Errorf("value = %s", d.Value)
	}

	want := []string{"object", "string", "Array<i32>", "Map<string,Foo|null>"}
	for i, name := range m.Names() {
		if name != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, name, want[i])
		}
	}
}

func TestParseForwardBase(t *testing.T) {
	m, err := Parse([]byte(`
[[type]]
name = "derived"
base = "parent"

[[type]]
name = "parent"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.Table().BaseTypeID(0); got != 1 {
		t.Errorf("base = %d, want 1", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind errors.Kind
		want string
	}{
		{
			name: "unknown shape",
			doc:  "[[type]]\nname = \"a\"\nshape = \"tree\"\n",
			kind: errors.KindInvalidInput,
			want: "unknown shape",
		},
		{
			name: "bad alignment",
			doc:  "[[type]]\nname = \"a\"\nshape = \"array\"\n[type.value]\nalign = 3\n",
			kind: errors.KindInvalidInput,
			want: "alignment 3",
		},
		{
			name: "dangling base",
			doc:  "[[type]]\nname = \"a\"\nbase = \"missing\"\n",
			kind: errors.KindNotFound,
			want: "missing",
		},
		{
			name: "base is first type",
			doc:  "[[type]]\nname = \"object\"\n[[type]]\nname = \"a\"\nbase = \"object\"\n",
			kind: errors.KindInvalidInput,
			want: "type[1].base",
		},
		{
			name: "duplicate name",
			doc:  "[[type]]\nname = \"a\"\n[[type]]\nname = \"a\"\n",
			kind: errors.KindInvalidInput,
			want: "duplicate",
		},
		{
			name: "missing name",
			doc:  "[[type]]\nshape = \"set\"\n",
			kind: errors.KindInvalidInput,
			want: "missing name",
		},
		{
			name: "key on array",
			doc:  "[[type]]\nname = \"a\"\nshape = \"array\"\n[type.key]\nalign = 4\n",
			kind: errors.KindInvalidInput,
			want: "key slot",
		},
		{
			name: "unknown key",
			doc:  "[[type]]\nname = \"a\"\ncolour = \"red\"\n",
			kind: errors.KindInvalidInput,
			want: "colour",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if e.Phase != errors.PhaseParse || e.Kind != tt.kind {
				t.Errorf("got %s/%s, want parse/%s", e.Phase, e.Kind, tt.kind)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[[type]\nname ="))
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidInput}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Table().Count() != 4 {
		t.Errorf("Count = %d", m.Table().Count())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := FromTable(m.Table(), m.Names())
	var buf bytes.Buffer
	if err := out.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	back, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(encoded): %v\n%s", err, buf.String())
	}
	want, got := m.Table().Records(), back.Table().Records()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFromTableNames(t *testing.T) {
	tbl := rtti.NewTable([]rtti.Typeinfo{{}, {Flags: rtti.Acyclic, Base: 0}})
	m := FromTable(tbl, []string{"root"})
	if m.Types[0].Name != "root" || m.Types[1].Name != "type1" {
		t.Errorf("names = %q, %q", m.Types[0].Name, m.Types[1].Name)
	}
	if id, ok := m.ID("type1"); !ok || id != 1 {
		t.Errorf("ID(type1) = %d, %v", id, ok)
	}
}
