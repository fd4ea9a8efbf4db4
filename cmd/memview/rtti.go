package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/linmem/rtti/manifest"
)

func newRTTICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtti",
		Short: "Work with runtime type tables",
	}
	cmd.AddCommand(newDumpCmd(), newBuildCmd(), newCheckCmd())
	return cmd
}

func newDumpCmd() *cobra.Command {
	var opts struct {
		format string
		base   uint32
	}
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the type table of a module, manifest or memory image",
		Long: `Print the type table found in file.

A .wasm file is instantiated and its table read at the __rtti_base global.
A .toml file is compiled as a type manifest. Any other file is a raw memory
image holding a table at --base.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(cmd.Context(), args[0], true, opts.base)
			if err != nil {
				return err
			}
			defer src.Close()

			table, err := src.requireTable()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch opts.format {
			case "text":
				return renderText(out, src)
			case "cbor":
				data, err := marshalCBOR(src)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "toml":
				return manifest.FromTable(table, src.names).Encode(out)
			case "bin":
				data, err := table.MarshalBinary()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unknown format %q (want text, cbor, toml or bin)", opts.format)
			}
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, cbor, toml or bin")
	cmd.Flags().Uint32Var(&opts.base, "base", 0, "table offset in a raw memory image")
	return cmd
}

func newBuildCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <manifest.toml>",
		Short: "Compile a type manifest to the binary table layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			data, err := m.Table().MarshalBinary()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d types (%d bytes) to %s\n", m.Table().Count(), len(data), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var base uint32
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a type table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(cmd.Context(), args[0], true, base)
			if err != nil {
				return err
			}
			defer src.Close()

			table, err := src.requireTable()
			if err != nil {
				return err
			}
			if err := table.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d types ok\n", src.path, table.Count())
			return nil
		},
	}
	cmd.Flags().Uint32Var(&base, "base", 0, "table offset in a raw memory image")
	return cmd
}
