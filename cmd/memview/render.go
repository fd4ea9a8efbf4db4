package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/linmem/rtti"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	shapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// cborEncMode encodes dumps deterministically.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("memview: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type dumpRecord struct {
	Source string       `cbor:"source"`
	Kind   string       `cbor:"kind"`
	Types  []typeRecord `cbor:"types"`
}

type typeRecord struct {
	ID      uint32      `cbor:"id"`
	Name    string      `cbor:"name,omitempty"`
	Flags   uint32      `cbor:"flags"`
	Base    uint32      `cbor:"base"`
	Shape   string      `cbor:"shape"`
	Acyclic bool        `cbor:"acyclic"`
	Value   *slotRecord `cbor:"value,omitempty"`
	Key     *slotRecord `cbor:"key,omitempty"`
}

type slotRecord struct {
	Align    uint32 `cbor:"align"`
	Nullable bool   `cbor:"nullable"`
	Managed  bool   `cbor:"managed"`
}

func toSlotRecord(s rtti.Slot) *slotRecord {
	if s == (rtti.Slot{}) {
		return nil
	}
	return &slotRecord{Align: s.Align.Bytes(), Nullable: s.Nullable, Managed: s.Managed}
}

func toDumpRecord(src *source) dumpRecord {
	d := dumpRecord{Source: src.path, Kind: src.kind}
	for _, desc := range src.table.Descriptors() {
		d.Types = append(d.Types, typeRecord{
			ID:      desc.ID,
			Name:    src.name(desc.ID),
			Flags:   uint32(src.table.Flags(desc.ID)),
			Base:    desc.Base,
			Shape:   desc.Shape.String(),
			Acyclic: desc.Acyclic,
			Value:   toSlotRecord(desc.Value),
			Key:     toSlotRecord(desc.Key),
		})
	}
	return d
}

func marshalCBOR(src *source) ([]byte, error) {
	return cborEncMode.Marshal(toDumpRecord(src))
}

func renderText(w io.Writer, src *source) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("RTTI"))
	fmt.Fprintf(&b, " %s (%s, %d types)\n\n", src.path, src.kind, src.table.Count())
	fmt.Fprintf(&b, "%5s  %-24s %-6s %-8s %-22s %-22s %s\n", "id", "name", "shape", "acyclic", "value", "key", "base")
	for _, d := range src.table.Descriptors() {
		b.WriteString(formatRow(src, d))
		b.WriteByte('\n')
	}
	if err := src.table.Validate(); err != nil {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(err.Error()))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatRow(src *source, d rtti.Descriptor) string {
	base := "-"
	if d.Base != 0 {
		base = src.name(d.Base)
	}
	return fmt.Sprintf("%5d  %s %s %-8t %-22s %-22s %s",
		d.ID,
		nameStyle.Render(fmt.Sprintf("%-24s", src.name(d.ID))),
		shapeStyle.Render(fmt.Sprintf("%-6s", d.Shape)),
		d.Acyclic,
		slotString(d.Value),
		slotString(d.Key),
		base,
	)
}

func slotString(s rtti.Slot) string {
	if s == (rtti.Slot{}) {
		return "-"
	}
	return s.String()
}
