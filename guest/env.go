package guest

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf16"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/linmem"
	"github.com/wippyai/linmem/buffer"
	"github.com/wippyai/linmem/errors"
	"github.com/wippyai/linmem/view"
)

const (
	i32 = api.ValueTypeI32
	f64 = api.ValueTypeF64

	// maxMessageUnits bounds strings read for diagnostics.
	maxMessageUnits = 4096
)

// instantiateEnv registers the "env" host module in r.
func instantiateEnv(ctx context.Context, r wazero.Runtime) error {
	builder := r.NewHostModuleBuilder("env")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(abort), []api.ValueType{i32, i32, i32, i32}, nil).
		Export("abort")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(trace), []api.ValueType{i32, i32, f64, f64, f64, f64, f64}, nil).
		Export("trace")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeF64(float64(time.Now().UnixNano()))
		}), nil, []api.ValueType{f64}).
		Export("seed")

	_, err := builder.Instantiate(ctx)
	return err
}

func abort(_ context.Context, mod api.Module, stack []uint64) {
	msg := readString(mod, api.DecodeU32(stack[0]))
	file := readString(mod, api.DecodeU32(stack[1]))
	line := api.DecodeU32(stack[2])
	col := api.DecodeU32(stack[3])

	linmem.Logger().Error("guest abort",
		zap.String("message", msg),
		zap.String("file", file),
		zap.Uint32("line", line),
		zap.Uint32("column", col))

	panic(errors.New(errors.PhaseLoad, errors.KindInvalidInput).
		Path(fmt.Sprintf("%s:%d:%d", file, line, col)).
		Detail("abort: %s", msg).
		Build())
}

func trace(_ context.Context, mod api.Module, stack []uint64) {
	msg := readString(mod, api.DecodeU32(stack[0]))
	n := max(0, min(int(api.DecodeI32(stack[1])), 5))
	args := make([]float64, n)
	for i := range args {
		args[i] = api.DecodeF64(stack[2+i])
	}
	linmem.Logger().Debug("guest trace", zap.String("message", msg), zap.Float64s("args", args))
}

// readString decodes a UTF-16LE string at ptr whose byte length is stored in
// the object header word immediately before it. Invalid pointers yield "".
func readString(mod api.Module, ptr uint32) string {
	if ptr < 4 {
		return ""
	}
	buf, err := buffer.WrapMemory(mod.Memory())
	if err != nil {
		return ""
	}
	v, err := view.New(buf)
	if err != nil {
		return ""
	}
	return decodeString(v, ptr)
}

func decodeString(v *view.DataView, ptr uint32) string {
	size, err := v.GetUint32(ptr-4, true)
	if err != nil {
		return ""
	}
	units := make([]uint16, 0, min(size/2, maxMessageUnits))
	for i := uint32(0); i < size/2 && i < maxMessageUnits; i++ {
		if ptr > math.MaxUint32-2*i {
			break
		}
		u, err := v.GetUint16(ptr+2*i, true)
		if err != nil {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
