package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kikgo/ndarray"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the arrays in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.chunkStore(ctx)
			if err != nil {
				return err
			}

			names, err := store.List(ctx)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Name", "Shape", "DType", "Compression", "Chunks", "Stored", "Ratio"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})

			var data [][]string
			for _, name := range names {
				m, err := store.Stat(ctx, name)
				if err != nil {
					return err
				}
				raw, err := m.RawBytes()
				if err != nil {
					return err
				}
				ratio := "-"
				if raw > 0 {
					ratio = fmt.Sprintf("%.2f", float64(m.StoredBytes())/float64(raw))
				}
				data = append(data, []string{
					name,
					ndarray.Shape(m.Shape).String(),
					m.DType,
					m.Compression,
					strconv.Itoa(len(m.Chunks)),
					strconv.FormatInt(m.StoredBytes(), 10),
					ratio,
				})
			}

			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete arrays from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.chunkStore(ctx)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := store.Delete(ctx, name); err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
