package rtti

import (
	"fmt"

	"github.com/wippyai/linmem/errors"
)

// Builder assembles a table one record at a time, assigning ids in order.
// It is the generator side of the wire contract.
type Builder struct {
	records []Typeinfo
	errs    []error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add packs d and appends it, returning its id. d.ID is ignored.
func (b *Builder) Add(d Descriptor) uint32 {
	id := uint32(len(b.records))
	ti, err := d.Typeinfo()
	if err != nil {
		b.errs = append(b.errs, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path(fmt.Sprintf("type %d", id)).
			Cause(err).
			Detail("pack descriptor").
			Build())
	}
	b.records = append(b.records, ti)
	return id
}

// AddRecord appends a raw record, returning its id.
func (b *Builder) AddRecord(ti Typeinfo) uint32 {
	b.records = append(b.records, ti)
	return uint32(len(b.records) - 1)
}

// SetBase links id to its base type.
func (b *Builder) SetBase(id, base uint32) {
	if id >= uint32(len(b.records)) {
		b.errs = append(b.errs, errors.NotFound(errors.PhaseEncode, "type id", fmt.Sprint(id)))
		return
	}
	b.records[id].Base = base
}

// Len returns the number of records added so far.
func (b *Builder) Len() uint32 {
	return uint32(len(b.records))
}

// Build validates the records and returns the table.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	t := &Table{records: append([]Typeinfo(nil), b.records...)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
