package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/wippyai/linmem/buffer"
	"github.com/wippyai/linmem/view"
)

// accessor reads and writes one number type through a view.
type accessor struct {
	get func(v *view.DataView, off uint32, le bool) (string, error)
	set func(v *view.DataView, off uint32, s string, le bool) error
}

func number[T view.Number](parse func(string) (T, error), format func(T) string) accessor {
	return accessor{
		get: func(v *view.DataView, off uint32, le bool) (string, error) {
			x, err := view.Load[T](v, off, le)
			if err != nil {
				return "", err
			}
			return format(x), nil
		},
		set: func(v *view.DataView, off uint32, s string, le bool) error {
			x, err := parse(s)
			if err != nil {
				return fmt.Errorf("parse %s value %q: %w", view.TypeName[T](), s, err)
			}
			return view.Store[T](v, off, x, le)
		},
	}
}

func parseInt[T int8 | int16 | int32 | int64](s string) (T, error) {
	n, err := strconv.ParseInt(s, 0, int(view.SizeOf[T]())*8)
	return T(n), err
}

func parseUint[T uint8 | uint16 | uint32 | uint64](s string) (T, error) {
	n, err := strconv.ParseUint(s, 0, int(view.SizeOf[T]())*8)
	return T(n), err
}

func parseFloat[T float32 | float64](s string) (T, error) {
	f, err := strconv.ParseFloat(s, int(view.SizeOf[T]())*8)
	return T(f), err
}

func formatInt[T int8 | int16 | int32 | int64](x T) string { return strconv.FormatInt(int64(x), 10) }

func formatUint[T uint8 | uint16 | uint32 | uint64](x T) string {
	return fmt.Sprintf("%d (0x%0*x)", uint64(x), int(2*view.SizeOf[T]()), uint64(x))
}

func formatFloat[T float32 | float64](x T) string {
	return strconv.FormatFloat(float64(x), 'g', -1, int(view.SizeOf[T]())*8)
}

var accessors = map[string]accessor{
	"i8":  number(parseInt[int8], formatInt[int8]),
	"i16": number(parseInt[int16], formatInt[int16]),
	"i32": number(parseInt[int32], formatInt[int32]),
	"i64": number(parseInt[int64], formatInt[int64]),
	"u8":  number(parseUint[uint8], formatUint[uint8]),
	"u16": number(parseUint[uint16], formatUint[uint16]),
	"u32": number(parseUint[uint32], formatUint[uint32]),
	"u64": number(parseUint[uint64], formatUint[uint64]),
	"f32": number(parseFloat[float32], formatFloat[float32]),
	"f64": number(parseFloat[float64], formatFloat[float64]),
}

func lookupAccessor(typ string) (accessor, error) {
	a, ok := accessors[typ]
	if !ok {
		names := make([]string, 0, len(accessors))
		for name := range accessors {
			names = append(names, name)
		}
		slices.Sort(names)
		return accessor{}, fmt.Errorf("unknown type %q (want one of %v)", typ, names)
	}
	return a, nil
}

type accessOptions struct {
	offset       uint32
	typ          string
	littleEndian bool
}

func (o *accessOptions) register(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&o.offset, "offset", 0, "byte offset within the memory")
	cmd.Flags().StringVarP(&o.typ, "type", "t", "u32", "value type: i8, u8, i16, u16, i32, u32, i64, u64, f32, f64")
	cmd.Flags().BoolVar(&o.littleEndian, "le", false, "little-endian byte order (default big-endian)")
}

func newPeekCmd() *cobra.Command {
	var opts accessOptions
	cmd := &cobra.Command{
		Use:   "peek <file>",
		Short: "Read a number from a module's memory or a raw image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lookupAccessor(opts.typ)
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), args[0], false, 0)
			if err != nil {
				return err
			}
			defer src.Close()
			if src.view == nil {
				return fmt.Errorf("%s has no memory", args[0])
			}

			s, err := a.get(src.view, opts.offset, opts.littleEndian)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newPokeCmd() *cobra.Command {
	var (
		opts  accessOptions
		value string
	)
	cmd := &cobra.Command{
		Use:   "poke <file>",
		Short: "Write a number into a raw memory image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lookupAccessor(opts.typ)
			if err != nil {
				return err
			}
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			buf, err := buffer.FromBytes(data)
			if err != nil {
				return err
			}
			v, err := view.New(buf)
			if err != nil {
				return err
			}
			if err := a.set(v, opts.offset, value, opts.littleEndian); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&value, "value", "", "value to store")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
