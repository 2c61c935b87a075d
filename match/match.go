package match

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/kikgo"
	"github.com/hupe1980/kikgo/internal/queue"
	"github.com/hupe1980/kikgo/ndarray"
)

// TopN selects, for every row of similarity, the n best entries of the last
// axis: the largest when sign is +1 and the smallest when sign is -1. All
// leading axes form the navigation shape. Lazy similarity arrays are streamed
// block by block and never fully materialized.
//
// n larger than the last axis is clamped to it.
func TopN(ctx context.Context, similarity ndarray.Array, sign int, n int, optFns ...Option) (*Result, error) {
	return topN(ctx, similarity, sign, n, applyOptions(optFns))
}

func topN(ctx context.Context, similarity ndarray.Array, sign int, n int, o options) (*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("match: keep must be positive, got %d", n)
	}
	if sign != 1 && sign != -1 {
		return nil, fmt.Errorf("match: sign must be +1 or -1, got %d", sign)
	}

	shape := similarity.Shape()
	if shape.Rank() == 0 {
		shape = ndarray.Shape{1}
	}
	m := shape[shape.Rank()-1]
	navShape := shape.Head(1)
	n = min(n, m)

	res := newResult(navShape, n)
	if m == 0 || navShape.Size() == 0 {
		return res, nil
	}

	higher := sign > 0
	err := ndarray.Stream(ctx, similarity, m, func(ctx context.Context, off int, data []float64) error {
		q := queue.NewBounded(n, higher)
		items := make([]queue.Item, 0, n)
		first := off / m
		for r := range len(data) / m {
			row := first + r
			if o.mask != nil && o.mask.Contains(uint32(row)) {
				continue
			}
			q.Reset()
			for k, v := range data[r*m : (r+1)*m] {
				q.Push(k, v)
			}
			items = q.Drain(items[:0])
			res.setRow(row, items)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PatternMatch compares experimental patterns against a dictionary of
// simulated patterns and keeps the n best matches per navigation point.
//
// metric is a registered metric name or a *kikgo.Metric. The dictionary is
// compared in WithSlices slices; indices in the result are global dictionary
// indices. Inputs are given in nested layout, i.e. patterns as (sy, sx)
// trailing axes, for flattened metrics too.
func PatternMatch(ctx context.Context, experimental, simulated ndarray.Array, metric any, n int, optFns ...Option) (res *Result, err error) {
	o := applyOptions(optFns)

	m, err := kikgo.Resolve(metric)
	if err != nil {
		return nil, err
	}

	navShape, err := kikgo.NavigationShape(experimental)
	if err != nil {
		return nil, err
	}
	count := kikgo.SimulatedCount(simulated)
	patterns := navShape.Size()

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		o.logger.WithMetric(m.Name()).LogMatch(ctx, patterns, count, n, elapsed, err)
		o.metrics.RecordMatch(m.Name(), patterns, elapsed, err)
	}()

	if n < 1 {
		return nil, fmt.Errorf("match: keep must be positive, got %d", n)
	}

	slices := max(1, min(o.slices, count))
	if simulated.Shape().Rank() != 3 {
		slices = 1
	}
	per := max(1, (count+slices-1)/slices)

	res = newResult(navShape, min(n, count))
	for lo := 0; lo < count; lo += per {
		hi := min(lo+per, count)

		dict := simulated
		if simulated.Shape().Rank() == 3 {
			if dict, err = ndarray.Slice(simulated, lo, hi); err != nil {
				return nil, err
			}
		}

		var sim ndarray.Array
		if sim, err = m.CompareContext(ctx, experimental, dict); err != nil {
			return nil, err
		}
		got := sim.Shape()
		if sim, err = sim.Reshape(append(navShape.Clone(), hi-lo)...); err != nil {
			return nil, fmt.Errorf("match: %s returned shape %v: %w", m.Name(), got, err)
		}

		var part *Result
		if part, err = topN(ctx, sim, m.Sign(), n, o); err != nil {
			return nil, err
		}
		res.merge(part, lo, m.Sign() > 0)
	}
	return res, nil
}
