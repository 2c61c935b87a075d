package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kikgo/ndarray"
	"github.com/hupe1980/kikgo/resource"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a raw little-endian pattern file into the store",
		Long: `Import a headerless binary file of little-endian values into the chunk store.

Experimental scans have shape (ny, nx, sy, sx) or (n, sy, sx), dictionaries
of simulated patterns have shape (n, sy, sx).

Examples:
  # Import a 1000 pattern dictionary of 60x60 uint8 patterns
  kikgo import ni-master.raw --shape 1000,60,60 --dtype uint8

  # Import a scan into MinIO under an explicit name
  kikgo import scan.raw --name scan-01 --shape 100,120,60,60 \
      --store minio --endpoint localhost:9000 --bucket ebsd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			name := a.v.GetString("name")
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			shapeArg, err := requiredString(a.v, "shape")
			if err != nil {
				return err
			}
			shape, err := parseShape(shapeArg)
			if err != nil {
				return err
			}
			dtype, err := ndarray.ParseDType(a.v.GetString("dtype"))
			if err != nil {
				return err
			}

			store, err := a.chunkStore(ctx)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			r := resource.NewRateLimitedReader(ctx, f, a.resources())
			if err := store.Import(ctx, name, r, dtype, shape); err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %q %v %s\n", path, name, shape, dtype)
			return err
		},
	}

	cmd.Flags().String("name", "", "Array name in the store (default: file name without extension)")
	cmd.Flags().String("shape", "", "Comma separated array shape, e.g. 100,60,60 (required)")
	cmd.Flags().String("dtype", "uint8", "Value type: uint8 or uint16 or float32 or float64")
	return cmd
}
