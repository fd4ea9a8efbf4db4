package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/buffer"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/rtti"
	"github.com/wippyai/linmem/view"
)

const (
	DefaultMemoryExport   = "memory"
	DefaultRTTIBaseExport = "__rtti_base"
)

// Config holds configuration for Open.
type Config struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 means the wazero default.
	MemoryLimitPages uint32

	// MemoryExport names the exported memory. Empty means "memory".
	MemoryExport string

	// RTTIBaseExport names the i32 global holding the table address.
	// Empty means "__rtti_base".
	RTTIBaseExport string

	// View limits the view over guest memory.
	View view.Config
}

func (c *Config) memoryExport() string {
	if c == nil || c.MemoryExport == "" {
		return DefaultMemoryExport
	}
	return c.MemoryExport
}

func (c *Config) rttiBaseExport() string {
	if c == nil || c.RTTIBaseExport == "" {
		return DefaultRTTIBaseExport
	}
	return c.RTTIBaseExport
}

// Instance is an instantiated guest module.
type Instance struct {
	cfg     *Config
	runtime wazero.Runtime
	module  api.Module
	memory  *buffer.Wazero
	view    *view.DataView
	table   *rtti.Table
	base    uint32
	hasBase bool
}

// Open compiles and instantiates wasm. The table is read when the module
// exports the configured base global; otherwise Table returns nil.
func Open(ctx context.Context, wasm []byte, cfg *Config) (*Instance, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	inst, err := open(ctx, r, wasm, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return inst, nil
}

func open(ctx context.Context, r wazero.Runtime, wasm []byte, cfg *Config) (*Instance, error) {
	if err := instantiateEnv(ctx, r); err != nil {
		return nil, errors.Load("instantiate env", err)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile failed", err)
	}
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, errors.Load("instantiate failed", err)
	}

	inst := &Instance{cfg: cfg, runtime: r, module: mod}
	if err := inst.Remap(); err != nil {
		return nil, err
	}

	if g := mod.ExportedGlobal(cfg.rttiBaseExport()); g != nil {
		inst.base = uint32(g.Get())
		inst.hasBase = true
		table, err := rtti.Read(inst.view, inst.base)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindMalformed).
				Path(cfg.rttiBaseExport()).
				Value(inst.base).
				Cause(err).
				Detail("read rtti table").
				Build()
		}
		inst.table = table
	}

	fields := []zap.Field{zap.Uint32("memory", inst.memory.ByteLength())}
	if inst.table != nil {
		fields = append(fields, zap.Uint32("rtti_base", inst.base), zap.Uint32("types", inst.table.Count()))
	}
	linmem.Logger().Info("guest loaded", fields...)
	return inst, nil
}

// Remap rewraps guest memory at its current size. Call it after the guest
// grows memory to see the new pages.
func (i *Instance) Remap() error {
	name := i.cfg.memoryExport()
	mem := i.module.ExportedMemory(name)
	if mem == nil {
		return errors.NotFound(errors.PhaseLoad, "memory export", name)
	}
	buf, err := buffer.WrapMemory(mem)
	if err != nil {
		return err
	}

	length := buf.ByteLength()
	limit := linmem.DefaultMaxByteLength
	if i.cfg != nil && i.cfg.View.MaxByteLength != 0 {
		limit = i.cfg.View.MaxByteLength
	}
	length = min(length, limit)

	var viewCfg *view.Config
	if i.cfg != nil {
		viewCfg = &i.cfg.View
	}
	v, err := viewCfg.NewRange(buf, 0, length)
	if err != nil {
		return err
	}
	i.memory, i.view = buf, v
	return nil
}

// View returns the view over guest memory.
func (i *Instance) View() *view.DataView { return i.view }

// Memory returns the wrapped guest memory.
func (i *Instance) Memory() *buffer.Wazero { return i.memory }

// Table returns the module's type table, or nil if it exports none.
func (i *Instance) Table() *rtti.Table { return i.table }

// RTTIBase returns the table address and whether the module exports one.
func (i *Instance) RTTIBase() (uint32, bool) { return i.base, i.hasBase }

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module { return i.module }

// Close releases the runtime and everything instantiated in it.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}
