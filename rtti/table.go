package rtti

import (
	"fmt"

	"github.com/wippyai/linmem/errors"
)

// Typeinfo is one record of the table.
type Typeinfo struct {
	Flags Flags
	// Base is the base class id, or 0 if none.
	Base uint32
}

// Descriptor is the decoded form of a record.
type Descriptor struct {
	ID      uint32
	Shape   Shape
	Acyclic bool
	Value   Slot
	Key     Slot
	Base    uint32
}

// Describe decodes a record.
func Describe(id uint32, ti Typeinfo) Descriptor {
	return Descriptor{
		ID:      id,
		Shape:   ti.Flags.Shape(),
		Acyclic: ti.Flags.IsAcyclic(),
		Value:   ti.Flags.Value(),
		Key:     ti.Flags.Key(),
		Base:    ti.Base,
	}
}

// Typeinfo packs the descriptor back into a record.
func (d Descriptor) Typeinfo() (Typeinfo, error) {
	f, err := Pack(d.Shape, d.Acyclic, d.Value, d.Key)
	if err != nil {
		return Typeinfo{}, err
	}
	return Typeinfo{Flags: f, Base: d.Base}, nil
}

// Table is an immutable, id-indexed set of type records.
//
// Query methods index the table directly and panic when id >= Count, like a
// slice. Lookup is the checked form.
type Table struct {
	records []Typeinfo
}

// NewTable builds a table from records. The slice is copied.
func NewTable(records []Typeinfo) *Table {
	t := &Table{records: append([]Typeinfo(nil), records...)}
	assertWellFormed(t)
	return t
}

// Count returns the number of records.
func (t *Table) Count() uint32 {
	return uint32(len(t.records))
}

// Lookup returns the record for id.
func (t *Table) Lookup(id uint32) (Typeinfo, bool) {
	if id >= uint32(len(t.records)) {
		return Typeinfo{}, false
	}
	return t.records[id], true
}

// Flags returns the raw flag word of id.
func (t *Table) Flags(id uint32) Flags {
	return t.records[id].Flags
}

// ShapeKind returns the container shape of id.
func (t *Table) ShapeKind(id uint32) Shape {
	return t.records[id].Flags.Shape()
}

// IsAcyclic reports whether instances of id can never form a cycle, so a
// tracing collector may skip cycle bookkeeping for them.
func (t *Table) IsAcyclic(id uint32) bool {
	return t.records[id].Flags.IsAcyclic()
}

// ValueAlignment returns the value slot alignment of id, AlignNone if unused.
func (t *Table) ValueAlignment(id uint32) Align {
	return t.records[id].Flags.ValueAlign()
}

// KeyAlignment returns the key slot alignment of id, AlignNone if unused.
func (t *Table) KeyAlignment(id uint32) Align {
	return t.records[id].Flags.KeyAlign()
}

// IsValueNullable reports whether the value slot of id may hold null.
func (t *Table) IsValueNullable(id uint32) bool {
	return t.records[id].Flags.IsValueNullable()
}

// IsKeyNullable reports whether the key slot of id may hold null.
func (t *Table) IsKeyNullable(id uint32) bool {
	return t.records[id].Flags.IsKeyNullable()
}

// IsValueManaged reports whether the value slot holds a reference the
// collector must follow.
func (t *Table) IsValueManaged(id uint32) bool {
	return t.records[id].Flags.IsValueManaged()
}

// IsKeyManaged reports whether the key slot of id holds a managed reference.
func (t *Table) IsKeyManaged(id uint32) bool {
	return t.records[id].Flags.IsKeyManaged()
}

// BaseTypeID returns the immediate base type id, 0 if none.
func (t *Table) BaseTypeID(id uint32) uint32 {
	return t.records[id].Base
}

// Descriptor decodes the record for id.
func (t *Table) Descriptor(id uint32) Descriptor {
	return Describe(id, t.records[id])
}

// Descriptors decodes every record in id order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.records))
	for i, r := range t.records {
		out[i] = Describe(uint32(i), r)
	}
	return out
}

// Records returns a copy of the raw records.
func (t *Table) Records() []Typeinfo {
	return append([]Typeinfo(nil), t.records...)
}

// IsInstanceOf reports whether id is superID or derives from it through the
// base chain. The walk is bounded by Count so a cyclic chain terminates.
func (t *Table) IsInstanceOf(id, superID uint32) bool {
	n := uint32(len(t.records))
	for steps := uint32(0); steps <= n; steps++ {
		if id == superID {
			return true
		}
		if id >= n {
			return false
		}
		id = t.records[id].Base
		if id == 0 {
			return false
		}
	}
	return false
}

// Validate reports every record that breaks the layout rules, and base ids
// that point outside the table or at the record itself.
func (t *Table) Validate() error {
	var errs []error
	n := uint32(len(t.records))
	for i, r := range t.records {
		id := uint32(i)
		path := []string{fmt.Sprintf("type %d", id)}
		if err := r.Flags.validate(path); err != nil {
			errs = append(errs, err)
		}
		if r.Base >= n && r.Base != 0 {
			errs = append(errs, errors.Malformed(append(path, "base"),
				fmt.Sprintf("base id %d out of range (count %d)", r.Base, n), r.Base))
		}
		if r.Base == id && id != 0 {
			errs = append(errs, errors.Malformed(append(path, "base"), "type is its own base", r.Base))
		}
	}
	return errors.Join(errs...)
}
