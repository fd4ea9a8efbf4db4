// Package linmem provides typed access to flat linear memory and the runtime
// type information tables that describe values stored in it.
//
// A managed runtime compiled to WebAssembly keeps its objects in a single
// byte-addressable memory. Host code that inspects or mutates those objects
// needs two things: a bounds-checked way to read and write fixed-width
// numbers at byte offsets, and the per-type metadata the guest's collector
// uses to walk containers.
//
// # Architecture Overview
//
//	linmem/              Root package with the Buffer interface and logger
//	├── buffer/          Buffer implementations (Go slices, wazero memory)
//	├── view/            DataView: typed, endian-aware accessors
//	├── rtti/            Bit-packed type descriptor table
//	│   ├── witgen/      Table generation from WIT type definitions
//	│   └── manifest/    Table generation from TOML manifests
//	├── guest/           Load memory and tables from a running wasm module
//	├── errors/          Structured error types
//	└── cmd/memview/     Command line inspector
//
// # Quick Start
//
// Read a big-endian word out of a buffer:
//
//	buf := buffer.New(16)
//	dv, err := view.New(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = dv.SetUint32(0, 0x01020304, view.BigEndian)
//	v, _ := dv.GetUint32(0, view.LittleEndian) // 0x04030201
//
// Inspect the type table of an AssemblyScript module:
//
//	inst, err := guest.Open(ctx, wasmBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	table := inst.Table()
//	fmt.Println(table.ShapeKind(id), table.ValueAlignment(id))
//
// # Thread Safety
//
// DataView and the buffers perform no locking. When a buffer is shared
// between goroutines the caller synchronizes access. rtti.Table is immutable
// after construction and may be read concurrently.
package linmem
