package kikgo

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/kikgo/ndarray"
)

// CompareFunc computes the similarity of experimental and simulated
// patterns. Its shape contract follows the metric's scope and layout.
type CompareFunc func(experimental, simulated ndarray.Array) (ndarray.Array, error)

// Metric wraps a CompareFunc with the scope it is written for, the dtype it
// computes in and the direction in which results improve.
//
// A Metric is immutable and safe for concurrent use.
type Metric struct {
	fn      CompareFunc
	opts    metricOptions
	sign    int
	measure func(e, s ndarray.Array) (ndarray.Array, error)
}

// MakeMetric creates a metric around fn. fn is not validated until the
// first comparison.
func MakeMetric(fn CompareFunc, optFns ...MetricOption) *Metric {
	return newMetric(fn, applyOptions(optFns))
}

func newMetric(fn CompareFunc, o metricOptions) *Metric {
	m := &Metric{fn: fn, opts: o, sign: -1}
	if o.greaterIsBetter {
		m.sign = 1
	}
	if o.flattened {
		m.measure = m.measureFlattened
	} else {
		m.measure = m.measureNested
	}
	return m
}

// With returns a copy of m with optFns applied on top of its configuration.
func (m *Metric) With(optFns ...MetricOption) *Metric {
	o := m.opts
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return newMetric(m.fn, o)
}

// Sign is +1 if larger results mean more similar patterns and -1 otherwise.
func (m *Metric) Sign() int { return m.sign }

// Scope returns the declared scope.
func (m *Metric) Scope() Scope { return m.opts.scope }

// Flattened reports whether signal axes are merged before comparison.
func (m *Metric) Flattened() bool { return m.opts.flattened }

// Layout returns Flattened or Nested.
func (m *Metric) Layout() Layout {
	if m.opts.flattened {
		return Flattened
	}
	return Nested
}

// AutoPromote reports whether lower-scope inputs are accepted.
func (m *Metric) AutoPromote() bool { return m.opts.autoPromote }

// DType returns the dtype inputs are cast to.
func (m *Metric) DType() ndarray.DType { return m.opts.dtype }

// Name returns the metric's name.
func (m *Metric) Name() string { return m.opts.name }

func (m *Metric) String() string {
	kind := "Metric"
	if m.opts.flattened {
		kind = "FlatMetric"
	}
	return fmt.Sprintf("%s %s, scope: %s", kind, m.opts.name, m.opts.scope)
}

// Compatible reports whether experimental and simulated arrays of the given
// ranks can be compared. Ranks are those of the nested arrays for both
// layouts.
func (m *Metric) Compatible(exptRank, simRank int) bool {
	ranks := RankPair{Experimental: exptRank, Simulated: simRank}
	if m.opts.flattened {
		// A single navigation axis has no flattened counterpart.
		if exptRank%2 != 0 {
			return false
		}
		ranks = FlattenedRanks(exptRank, simRank)
	}

	inferred, ok := ScopeOf(m.Layout(), ranks.Experimental, ranks.Simulated)
	if !ok {
		return false
	}
	if inferred == m.opts.scope {
		return true
	}
	return m.opts.autoPromote && m.opts.scope.Admits(inferred)
}

// Check returns an *IncompatibleShapeError if the arrays cannot be compared.
func (m *Metric) Check(experimental, simulated ndarray.Array) error {
	es, ss := experimental.Shape(), simulated.Shape()
	fail := func(format string, args ...any) error {
		return &IncompatibleShapeError{
			Metric:       m.opts.name,
			Scope:        m.opts.scope,
			Layout:       m.Layout(),
			Experimental: es,
			Simulated:    ss,
			Reason:       fmt.Sprintf(format, args...),
		}
	}

	if !m.Compatible(es.Rank(), ss.Rank()) {
		want := m.opts.scope.Ranks(Nested)
		if m.opts.autoPromote {
			return fail("ranks (%d, %d) match neither %v nor a promotable lower scope", es.Rank(), ss.Rank(), want)
		}
		return fail("ranks (%d, %d) do not match %v", es.Rank(), ss.Rank(), want)
	}
	if !SignalShape(experimental).Equal(SignalShape(simulated)) {
		return fail("signal shapes %v and %v differ", SignalShape(experimental), SignalShape(simulated))
	}
	return nil
}

// Compare computes the similarity of experimental and simulated patterns.
// Both arrays are given in nested layout. The result has every singleton
// axis removed; it is lazy if either input is lazy.
func (m *Metric) Compare(experimental, simulated ndarray.Array) (ndarray.Array, error) {
	return m.CompareContext(context.Background(), experimental, simulated)
}

// CompareContext is Compare with a context for logging.
func (m *Metric) CompareContext(ctx context.Context, experimental, simulated ndarray.Array) (ndarray.Array, error) {
	start := time.Now()
	out, err := m.compare(experimental, simulated)
	elapsed := time.Since(start)

	lazy := err == nil && out.Lazy()
	m.opts.logger.WithMetric(m.opts.name).LogCompare(ctx, experimental.Shape(), simulated.Shape(), lazy, elapsed, err)
	m.opts.metricsCollector.RecordCompare(m.opts.name, lazy, elapsed, err)
	return out, err
}

func (m *Metric) compare(e, s ndarray.Array) (ndarray.Array, error) {
	if err := m.Check(e, s); err != nil {
		return nil, err
	}

	e = e.AsType(m.opts.dtype)
	s = s.AsType(m.opts.dtype)

	unit := SignalShape(e).Size()
	if e.Lazy() {
		e = e.Rechunk(unit, m.opts.chunkElems)
	}
	if s.Lazy() {
		s = s.Rechunk(unit, m.opts.chunkElems)
	}

	if m.opts.autoPromote {
		e, s = m.promote(e, s)
	}

	out, err := m.measure(e, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.opts.name, err)
	}
	return out.Squeeze(), nil
}

// promote prepends singleton axes up to the declared scope's nested ranks.
func (m *Metric) promote(e, s ndarray.Array) (ndarray.Array, ndarray.Array) {
	want := m.opts.scope.Ranks(Nested)
	return expandTo(e, want.Experimental), expandTo(s, want.Simulated)
}

func (m *Metric) measureNested(e, s ndarray.Array) (ndarray.Array, error) {
	return m.fn(e, s)
}

func (m *Metric) measureFlattened(e, s ndarray.Array) (ndarray.Array, error) {
	nav, err := NavigationShape(e)
	if err != nil {
		return nil, err
	}
	sig := SignalShape(e).Size()

	fe, err := e.Reshape(nav.Size(), sig)
	if err != nil {
		return nil, err
	}
	fs, err := s.Reshape(-1, sig)
	if err != nil {
		return nil, err
	}
	return m.fn(fe, fs)
}

func expandTo(a ndarray.Array, rank int) ndarray.Array {
	if n := rank - a.Shape().Rank(); n > 0 {
		return a.ExpandDims(n)
	}
	return a
}
