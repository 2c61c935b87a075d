package match

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kikgo"
)

type options struct {
	slices  int
	mask    *roaring.Bitmap
	logger  *kikgo.Logger
	metrics kikgo.MetricsCollector
}

// Option configures TopN and PatternMatch.
type Option func(*options)

// WithSlices splits the dictionary into k slices that are compared one after
// the other, bounding the size of the similarity array in flight.
// Default: 1
func WithSlices(k int) Option {
	return func(o *options) {
		o.slices = k
	}
}

// WithMask skips the navigation points in mask, given as flat indices.
// Skipped points report index -1 and a NaN score.
func WithMask(mask *roaring.Bitmap) Option {
	return func(o *options) {
		o.mask = mask
	}
}

// WithLogger sets the logger for pattern matching runs.
func WithLogger(l *kikgo.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = kikgo.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector for pattern matching runs.
func WithMetricsCollector(c kikgo.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		slices:  1,
		logger:  kikgo.NoopLogger(),
		metrics: kikgo.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.slices < 1 {
		o.slices = 1
	}
	if o.metrics == nil {
		o.metrics = kikgo.NoopMetricsCollector{}
	}
	return o
}
