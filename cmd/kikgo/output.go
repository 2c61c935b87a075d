package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/hupe1980/kikgo/match"
	"github.com/hupe1980/kikgo/ndarray"
)

// coords formats flat navigation index i as a coordinate tuple of nav.
func coords(nav ndarray.Shape, i int) string {
	if nav.Rank() == 0 {
		return "()"
	}
	parts := make([]string, nav.Rank())
	for d := nav.Rank() - 1; d >= 0; d-- {
		parts[d] = strconv.Itoa(i % nav[d])
		i /= nav[d]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatScore(s float32) string {
	if math.IsNaN(float64(s)) {
		return "nan"
	}
	return strconv.FormatFloat(float64(s), 'f', 6, 32)
}

func writeTable(w io.Writer, res *match.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Point", "Position", "Rank", "Index", "Score"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range res.Len() {
		idx, scores := res.Row(i)
		for k := range idx {
			data = append(data, []string{
				strconv.Itoa(i),
				coords(res.NavShape, i),
				strconv.Itoa(k + 1),
				strconv.Itoa(idx[k]),
				formatScore(scores[k]),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSV(w io.Writer, res *match.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"point", "rank", "index", "score"}); err != nil {
		return err
	}
	for i := range res.Len() {
		idx, scores := res.Row(i)
		for k := range idx {
			if err := cw.Write([]string{
				strconv.Itoa(i),
				strconv.Itoa(k + 1),
				strconv.Itoa(idx[k]),
				formatScore(scores[k]),
			}); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
