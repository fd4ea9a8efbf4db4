package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/linmem/buffer"
	"github.com/wippyai/linmem/guest"
	"github.com/wippyai/linmem/rtti"
	"github.com/wippyai/linmem/rtti/manifest"
	"github.com/wippyai/linmem/view"
)

// source is a memory image or type table loaded from a file.
type source struct {
	path  string
	kind  string
	view  *view.DataView // nil for manifests
	table *rtti.Table    // nil when the file carries no table
	names []string
	close func()
}

func (s *source) Close() {
	if s.close != nil {
		s.close()
	}
}

// name returns the display name of a type id.
func (s *source) name(id uint32) string {
	if int(id) < len(s.names) && s.names[id] != "" {
		return s.names[id]
	}
	return fmt.Sprintf("#%d", id)
}

// openSource loads path by extension: .wasm is instantiated, .toml is a
// manifest, anything else is a raw memory image. A raw image only carries a
// table when readTable is set, in which case it is read at base.
func openSource(ctx context.Context, path string, readTable bool, base uint32) (*source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wasm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		inst, err := guest.Open(ctx, data, nil)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return &source{
			path:  path,
			kind:  "wasm",
			view:  inst.View(),
			table: inst.Table(),
			close: func() { _ = inst.Close(ctx) },
		}, nil

	case ".toml":
		m, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		return &source{path: path, kind: "manifest", table: m.Table(), names: m.Names()}, nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		buf, err := buffer.FromBytes(data)
		if err != nil {
			return nil, err
		}
		v, err := view.New(buf)
		if err != nil {
			return nil, err
		}
		s := &source{path: path, kind: "image", view: v}
		if readTable {
			t, err := rtti.Read(v, base)
			if err != nil {
				return nil, fmt.Errorf("read table at %d: %w", base, err)
			}
			s.table = t
		}
		return s, nil
	}
}

// requireTable fails when s has no table.
func (s *source) requireTable() (*rtti.Table, error) {
	if s.table == nil {
		return nil, fmt.Errorf("%s: no rtti table", s.path)
	}
	return s.table, nil
}
