package witgen

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/rtti"
)

// Generator assigns type ids to WIT types and builds their descriptors.
// Types reachable from an added type are registered first, so dependencies
// always have lower ids.
type Generator struct {
	layout   *layoutCalculator
	builder  *rtti.Builder
	ids      map[*wit.TypeDef]uint32
	pending  map[*wit.TypeDef]bool
	stringID uint32
	hasStr   bool
	names    []string
}

func New() *Generator {
	return &Generator{
		layout:  newLayoutCalculator(),
		builder: rtti.NewBuilder(),
		ids:     make(map[*wit.TypeDef]uint32),
		pending: make(map[*wit.TypeDef]bool),
	}
}

// Add registers t and returns its type id. Adding the same type again
// returns the existing id.
func (g *Generator) Add(t wit.Type) (uint32, error) {
	switch typ := t.(type) {
	case wit.String:
		if !g.hasStr {
			g.stringID = g.push("string", rtti.Descriptor{Acyclic: true})
			g.hasStr = true
		}
		return g.stringID, nil
	case *wit.TypeDef:
		return g.addTypeDef(typ)
	default:
		return 0, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Type(TypeName(t)).
			Detail("scalar types have no runtime descriptor").
			Build()
	}
}

// ID returns the id assigned to t, if any.
func (g *Generator) ID(t wit.Type) (uint32, bool) {
	switch typ := t.(type) {
	case wit.String:
		return g.stringID, g.hasStr
	case *wit.TypeDef:
		id, ok := g.ids[typ]
		return id, ok
	}
	return 0, false
}

// Names returns the type name of every id in order.
func (g *Generator) Names() []string {
	return append([]string(nil), g.names...)
}

// Table validates and returns the generated table.
func (g *Generator) Table() (*rtti.Table, error) {
	return g.builder.Build()
}

func (g *Generator) push(name string, d rtti.Descriptor) uint32 {
	g.names = append(g.names, name)
	return g.builder.Add(d)
}

func (g *Generator) addTypeDef(td *wit.TypeDef) (uint32, error) {
	if id, ok := g.ids[td]; ok {
		return id, nil
	}
	if g.pending[td] {
		return 0, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Type(TypeName(td)).
			Detail("recursive type").
			Build()
	}
	g.pending[td] = true
	defer delete(g.pending, td)

	// aliases share the id of their target
	if alias, ok := td.Kind.(wit.Type); ok {
		id, err := g.Add(alias)
		if err != nil {
			return 0, err
		}
		g.ids[td] = id
		return id, nil
	}

	for _, child := range children(td) {
		if !isHeap(child) {
			continue
		}
		if _, err := g.Add(child); err != nil {
			return 0, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
				Path(TypeName(td)).
				Cause(err).
				Detail("register element type").
				Build()
		}
	}

	d, err := g.describe(td)
	if err != nil {
		return 0, err
	}
	id := g.push(TypeName(td), d)
	g.ids[td] = id
	return id, nil
}

func (g *Generator) describe(td *wit.TypeDef) (rtti.Descriptor, error) {
	switch kind := td.Kind.(type) {
	case *wit.List:
		d := rtti.Descriptor{Acyclic: !reachesHandle(td)}
		if k, v, ok := mapEntry(kind.Type); ok {
			key, err := g.slot(k)
			if err != nil {
				return d, err
			}
			value, err := g.slot(v)
			if err != nil {
				return d, err
			}
			d.Shape, d.Key, d.Value = rtti.ShapeMap, key, value
			return d, nil
		}
		value, err := g.slot(kind.Type)
		if err != nil {
			return d, err
		}
		d.Shape, d.Value = rtti.ShapeArray, value
		return d, nil
	case *wit.Record, *wit.Tuple, *wit.Variant, *wit.Enum, *wit.Flags, *wit.Option, *wit.Result,
		*wit.Own, *wit.Borrow, *wit.Resource:
		return rtti.Descriptor{Acyclic: !reachesHandle(td)}, nil
	default:
		return rtti.Descriptor{}, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Type(TypeName(td)).
			Detail("no descriptor for %T", td.Kind).
			Build()
	}
}

func (g *Generator) slot(t wit.Type) (rtti.Slot, error) {
	l := g.layout.calculate(t)
	align, ok := rtti.ParseAlign(l.Align)
	if !ok {
		return rtti.Slot{}, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Type(TypeName(t)).
			Value(l.Align).
			Detail("alignment %d has no flag", l.Align).
			Build()
	}
	return rtti.Slot{
		Align:    align,
		Nullable: isOption(t),
		Managed:  containsRef(t, map[*wit.TypeDef]bool{}),
	}, nil
}

// resolve follows type aliases.
func resolve(t wit.Type) wit.Type {
	for i := 0; i < 64; i++ {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		alias, ok := td.Kind.(wit.Type)
		if !ok {
			return td
		}
		t = alias
	}
	return t
}

func children(td *wit.TypeDef) []wit.Type {
	var out []wit.Type
	add := func(ts ...wit.Type) {
		for _, t := range ts {
			if t != nil {
				out = append(out, t)
			}
		}
	}
	switch kind := td.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			add(f.Type)
		}
	case *wit.Tuple:
		add(kind.Types...)
	case *wit.Variant:
		for _, cs := range kind.Cases {
			add(cs.Type)
		}
	case *wit.Option:
		add(kind.Type)
	case *wit.Result:
		add(kind.OK, kind.Err)
	case *wit.List:
		add(kind.Type)
	case *wit.Own:
		if kind.Type != nil {
			add(kind.Type)
		}
	case *wit.Borrow:
		if kind.Type != nil {
			add(kind.Type)
		}
	case wit.Type:
		add(kind)
	}
	return out
}

// isHeap reports whether t, after following aliases, has a descriptor.
func isHeap(t wit.Type) bool {
	switch resolve(t).(type) {
	case wit.String, *wit.TypeDef:
		return true
	}
	return false
}

func mapEntry(t wit.Type) (key, value wit.Type, ok bool) {
	td, isDef := resolve(t).(*wit.TypeDef)
	if !isDef {
		return nil, nil, false
	}
	tuple, isTuple := td.Kind.(*wit.Tuple)
	if !isTuple || len(tuple.Types) != 2 {
		return nil, nil, false
	}
	return tuple.Types[0], tuple.Types[1], true
}

func isOption(t wit.Type) bool {
	td, ok := resolve(t).(*wit.TypeDef)
	if !ok {
		return false
	}
	_, ok = td.Kind.(*wit.Option)
	return ok
}

// containsRef reports whether values of t hold a pointer or handle.
func containsRef(t wit.Type, seen map[*wit.TypeDef]bool) bool {
	switch typ := resolve(t).(type) {
	case wit.String:
		return true
	case *wit.TypeDef:
		if seen[typ] {
			return false
		}
		seen[typ] = true
		switch typ.Kind.(type) {
		case *wit.List, *wit.Own, *wit.Borrow, *wit.Resource:
			return true
		}
		for _, c := range children(typ) {
			if containsRef(c, seen) {
				return true
			}
		}
	}
	return false
}

// reachesHandle reports whether values of t can refer to a resource.
func reachesHandle(t wit.Type) bool {
	return reaches(t, map[*wit.TypeDef]bool{})
}

func reaches(t wit.Type, seen map[*wit.TypeDef]bool) bool {
	td, ok := resolve(t).(*wit.TypeDef)
	if !ok || seen[td] {
		return false
	}
	seen[td] = true
	switch td.Kind.(type) {
	case *wit.Own, *wit.Borrow, *wit.Resource:
		return true
	}
	for _, c := range children(td) {
		if reaches(c, seen) {
			return true
		}
	}
	return false
}

// TypeName renders a WIT type the way it is written in WIT source.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return kindName(v)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func kindName(td *wit.TypeDef) string {
	join := func(ts []wit.Type) string {
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = TypeName(t)
		}
		return strings.Join(parts, ", ")
	}
	switch kind := td.Kind.(type) {
	case *wit.List:
		return "list<" + TypeName(kind.Type) + ">"
	case *wit.Tuple:
		return "tuple<" + join(kind.Types) + ">"
	case *wit.Option:
		return "option<" + TypeName(kind.Type) + ">"
	case *wit.Result:
		return "result<" + TypeName(kind.OK) + ", " + TypeName(kind.Err) + ">"
	case *wit.Own:
		return "own<" + handleName(kind.Type) + ">"
	case *wit.Borrow:
		return "borrow<" + handleName(kind.Type) + ">"
	case *wit.Record:
		return "record"
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Flags:
		return "flags"
	case *wit.Resource:
		return "resource"
	case wit.Type:
		return TypeName(kind)
	default:
		return fmt.Sprintf("%T", td.Kind)
	}
}

func handleName(td *wit.TypeDef) string {
	if td == nil {
		return "resource"
	}
	return TypeName(td)
}
