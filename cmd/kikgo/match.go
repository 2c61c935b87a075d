package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kikgo"
	"github.com/hupe1980/kikgo/match"
)

func (a *app) matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match experimental patterns against a dictionary",
		Long: `Compare every experimental pattern with every dictionary pattern and report
the best matches per navigation point.

Both arrays are read lazily from the store, so dictionaries larger than
memory can be matched. Use --slices to bound the similarity array held at
once and --memory-limit to bound the chunk data in flight.

Examples:
  # Best match per pattern as a table
  kikgo match --experimental scan-01 --dictionary ni-master

  # Five best matches with the normalized dot product, as CSV
  kikgo match --experimental scan-01 --dictionary ni-master \
      --metric ndp --keep 5 --slices 10 --output csv > matches.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			v := a.v

			experimentalName, err := requiredString(v, "experimental")
			if err != nil {
				return err
			}
			dictionaryName, err := requiredString(v, "dictionary")
			if err != nil {
				return err
			}
			format := v.GetString("output")
			if format != "table" && format != "csv" {
				return fmt.Errorf("unknown output format %q: use table or csv", format)
			}
			metric, err := kikgo.Lookup(v.GetString("metric"))
			if err != nil {
				return err
			}
			mask, err := parseMask(v.GetString("skip"))
			if err != nil {
				return err
			}

			store, err := a.chunkStore(ctx)
			if err != nil {
				return err
			}
			experimental, err := store.Open(ctx, experimentalName)
			if err != nil {
				return err
			}
			dictionary, err := store.Open(ctx, dictionaryName)
			if err != nil {
				return err
			}

			collector := &kikgo.BasicMetricsCollector{}
			opts := []match.Option{
				match.WithSlices(v.GetInt("slices")),
				match.WithLogger(a.logger),
				match.WithMetricsCollector(collector),
			}
			if mask != nil {
				opts = append(opts, match.WithMask(mask))
			}

			metric = metric.With(kikgo.WithLogger(a.logger), kikgo.WithMetricsCollector(collector))
			res, err := match.PatternMatch(ctx, experimental, dictionary, metric, v.GetInt("keep"), opts...)
			if err != nil {
				return err
			}

			stats := collector.GetStats()
			a.logger.InfoContext(ctx, "match statistics",
				"comparisons", stats.CompareCount,
				"lazy", stats.CompareLazy,
				"avg_compare", time.Duration(stats.CompareAvgNanos),
				"patterns", stats.MatchPatterns,
			)

			if format == "csv" {
				return writeCSV(cmd.OutOrStdout(), res)
			}
			return writeTable(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().String("experimental", "", "Name of the experimental array (required)")
	cmd.Flags().String("dictionary", "", "Name of the dictionary array (required)")
	cmd.Flags().String("metric", "zncc", "Similarity metric (see kikgo metrics)")
	cmd.Flags().Int("keep", 1, "Matches kept per navigation point")
	cmd.Flags().Int("slices", 1, "Number of dictionary slices compared one after the other")
	cmd.Flags().String("skip", "", "Flat navigation indices or ranges to skip, e.g. 0-9,15")
	cmd.Flags().String("output", "table", "Output format: table or csv")
	return cmd
}

func parseMask(s string) (*roaring.Bitmap, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	mask := roaring.New()
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if lo, hi, ok := strings.Cut(p, "-"); ok {
			from, err1 := strconv.ParseUint(lo, 10, 32)
			to, err2 := strconv.ParseUint(hi, 10, 32)
			if err1 != nil || err2 != nil || to < from {
				return nil, fmt.Errorf("invalid skip range %q", p)
			}
			mask.AddRange(from, to+1)
			continue
		}
		i, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid skip index %q", p)
		}
		mask.Add(uint32(i))
	}
	return mask, nil
}
