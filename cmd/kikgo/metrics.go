package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kikgo"
)

func (a *app) metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the registered similarity metrics",
		Long: `List every metric that can be passed to "kikgo match --metric", with the
shapes it accepts and whether higher scores are better.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Name", "Scope", "Layout", "Greater is better", "DType"})

			var data [][]string
			for _, name := range kikgo.MetricNames() {
				m, err := kikgo.Lookup(name)
				if err != nil {
					return err
				}
				data = append(data, []string{
					name,
					m.Scope().String(),
					m.Layout().String(),
					strconv.FormatBool(m.Sign() > 0),
					m.DType().String(),
				})
			}

			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
