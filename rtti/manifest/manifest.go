// Package manifest builds descriptor tables from TOML type manifests.
//
// A manifest lists types in id order:
//
//	[[type]]
//	name = "string"
//	acyclic = true
//
//	[[type]]
//	name = "Map<string,i64>"
//	shape = "map"
//	acyclic = true
//	[type.key]
//	align = 4
//	managed = true
//	[type.value]
//	align = 8
//
// Shapes are "none" (the default), "array", "set" and "map". An alignment of
// 0 or an absent slot means the slot is unused. Base types are referenced by
// name and may appear later in the file. The first type has id 0, which the
// table reads as no base, so it cannot be named as a base.
package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/rtti"
)

// Manifest is a decoded type manifest.
type Manifest struct {
	Types []Type `toml:"type"`

	table *rtti.Table
	ids   map[string]uint32
}

// Type is one [[type]] entry.
type Type struct {
	Name    string `toml:"name"`
	Shape   string `toml:"shape,omitempty"`
	Acyclic bool   `toml:"acyclic,omitempty"`
	Base    string `toml:"base,omitempty"`
	Value   *Slot  `toml:"value,omitempty"`
	Key     *Slot  `toml:"key,omitempty"`
}

// Slot describes the value or key slot of a collection.
type Slot struct {
	Align    uint32 `toml:"align"`
	Nullable bool   `toml:"nullable,omitempty"`
	Managed  bool   `toml:"managed,omitempty"`
}

// Load reads and compiles the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("cannot read %s", path), err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and compiles a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.ParseFailed("manifest", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}
	if err := m.compile(); err != nil {
		return nil, err
	}
	linmem.Logger().Debug("manifest compiled")
	return &m, nil
}

// FromTable renders a table as a manifest. names supplies the type names by
// id; missing or empty names become "type<id>".
func FromTable(t *rtti.Table, names []string) *Manifest {
	nameOf := func(id uint32) string {
		if int(id) < len(names) && names[id] != "" {
			return names[id]
		}
		return fmt.Sprintf("type%d", id)
	}
	m := &Manifest{table: t, ids: make(map[string]uint32, t.Count())}
	for _, d := range t.Descriptors() {
		typ := Type{Name: nameOf(d.ID), Acyclic: d.Acyclic}
		if d.Shape != rtti.ShapeNone {
			typ.Shape = d.Shape.String()
		}
		if d.Base != 0 {
			typ.Base = nameOf(d.Base)
		}
		typ.Value = slotOf(d.Value)
		typ.Key = slotOf(d.Key)
		m.Types = append(m.Types, typ)
		m.ids[typ.Name] = d.ID
	}
	return m
}

// Encode writes the manifest as TOML.
func (m *Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}

// Table returns the compiled table.
func (m *Manifest) Table() *rtti.Table {
	return m.table
}

// ID returns the id assigned to name.
func (m *Manifest) ID(name string) (uint32, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Names returns the type names in id order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Types))
	for i, t := range m.Types {
		names[i] = t.Name
	}
	return names
}

func (m *Manifest) compile() error {
	m.ids = make(map[string]uint32, len(m.Types))
	var errs []error
	for i, t := range m.Types {
		switch {
		case t.Name == "":
			errs = append(errs, parseError(i, "name", "missing name"))
		case hasID(m.ids, t.Name):
			errs = append(errs, parseError(i, "name", fmt.Sprintf("duplicate type %q", t.Name)))
		default:
			m.ids[t.Name] = uint32(i)
		}
	}

	b := rtti.NewBuilder()
	for i, t := range m.Types {
		d, err := t.descriptor(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if t.Base != "" {
			base, ok := m.ids[t.Base]
			if !ok {
				errs = append(errs, errors.New(errors.PhaseParse, errors.KindNotFound).
					Path(typePath(i, "base")...).
					Value(t.Base).
					Detail("unknown base type %q", t.Base).
					Build())
				continue
			}
			if base == 0 {
				errs = append(errs, parseError(i, "base", fmt.Sprintf("base %q has id 0, which means no base", t.Base)))
				continue
			}
			d.Base = base
		}
		b.Add(d)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	table, err := b.Build()
	if err != nil {
		return err
	}
	m.table = table
	return nil
}

func (t Type) descriptor(i int) (rtti.Descriptor, error) {
	d := rtti.Descriptor{ID: uint32(i), Acyclic: t.Acyclic}

	shape := rtti.ShapeNone
	if t.Shape != "" {
		s, ok := rtti.ParseShape(t.Shape)
		if !ok {
			return d, parseError(i, "shape", fmt.Sprintf("unknown shape %q", t.Shape))
		}
		shape = s
	}
	d.Shape = shape

	value, err := t.Value.slot(i, "value")
	if err != nil {
		return d, err
	}
	key, err := t.Key.slot(i, "key")
	if err != nil {
		return d, err
	}
	if t.Key != nil && shape != rtti.ShapeMap {
		return d, parseError(i, "key", "key slot on a "+shape.String()+" type")
	}
	d.Value, d.Key = value, key
	return d, nil
}

func (s *Slot) slot(i int, field string) (rtti.Slot, error) {
	if s == nil {
		return rtti.Slot{}, nil
	}
	align := rtti.AlignNone
	if s.Align != 0 {
		a, ok := rtti.ParseAlign(s.Align)
		if !ok {
			return rtti.Slot{}, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(typePath(i, field, "align")...).
				Value(s.Align).
				Detail("alignment %d is not one of 1, 2, 4, 8, 16", s.Align).
				Build()
		}
		align = a
	}
	return rtti.Slot{Align: align, Nullable: s.Nullable, Managed: s.Managed}, nil
}

func slotOf(s rtti.Slot) *Slot {
	if s == (rtti.Slot{}) {
		return nil
	}
	return &Slot{Align: s.Align.Bytes(), Nullable: s.Nullable, Managed: s.Managed}
}

func hasID(ids map[string]uint32, name string) bool {
	_, ok := ids[name]
	return ok
}

func typePath(i int, fields ...string) []string {
	return append([]string{fmt.Sprintf("type[%d]", i)}, fields...)
}

func parseError(i int, field, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Path(typePath(i, field)...).
		Detail("%s", detail).
		Build()
}
