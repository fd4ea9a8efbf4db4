// Command memview inspects linear memory and runtime type tables.
//
//	memview rtti dump app.wasm
//	memview rtti dump types.toml --format cbor > types.cbor
//	memview rtti build types.toml -o types.bin
//	memview peek app.wasm --offset 1024 --type u32 --le
//	memview poke image.bin --offset 16 --type f64 --value 1.5
//	memview browse app.wasm
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/linmem"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "memview",
		Short:         "Inspect linear memory and runtime type tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			linmem.SetLogger(l)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log library activity to stderr")

	root.AddCommand(
		newRTTICmd(),
		newPeekCmd(),
		newPokeCmd(),
		newBrowseCmd(),
	)
	return root
}
