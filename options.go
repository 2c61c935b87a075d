package kikgo

import (
	"github.com/hupe1980/kikgo/ndarray"
)

type metricOptions struct {
	greaterIsBetter  bool
	scope            Scope
	flattened        bool
	autoPromote      bool
	dtype            ndarray.DType
	name             string
	chunkElems       int
	logger           *Logger
	metricsCollector MetricsCollector
}

// MetricOption configures MakeMetric.
type MetricOption func(*metricOptions)

// WithGreaterIsBetter sets whether larger results mean more similar patterns.
// Default: true. Distances pass false.
func WithGreaterIsBetter(b bool) MetricOption {
	return func(o *metricOptions) {
		o.greaterIsBetter = b
	}
}

// WithScope sets the scope the compare function is written for.
// Default: ManyToMany.
func WithScope(s Scope) MetricOption {
	return func(o *metricOptions) {
		o.scope = s
	}
}

// WithFlattened makes the metric merge the signal axes of both inputs into
// one before calling the compare function.
func WithFlattened(b bool) MetricOption {
	return func(o *metricOptions) {
		o.flattened = b
	}
}

// WithAutoPromote lets the metric accept inputs of a lower scope by
// prepending singleton axes.
func WithAutoPromote(b bool) MetricOption {
	return func(o *metricOptions) {
		o.autoPromote = b
	}
}

// WithDType sets the dtype inputs are cast to. Default: ndarray.Float32.
func WithDType(dt ndarray.DType) MetricOption {
	return func(o *metricOptions) {
		o.dtype = dt
	}
}

// WithName names the metric in logs and String.
func WithName(name string) MetricOption {
	return func(o *metricOptions) {
		o.name = name
	}
}

// WithChunkElems sets how many elements lazy inputs are regrouped into per
// chunk before comparison. Default: ndarray.DefaultChunkElems.
func WithChunkElems(n int) MetricOption {
	return func(o *metricOptions) {
		o.chunkElems = n
	}
}

// WithLogger sets the logger. If nil, logging is disabled.
func WithLogger(l *Logger) MetricOption {
	return func(o *metricOptions) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector notified after every comparison.
func WithMetricsCollector(mc MetricsCollector) MetricOption {
	return func(o *metricOptions) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []MetricOption) metricOptions {
	o := metricOptions{
		greaterIsBetter:  true,
		scope:            ManyToMany,
		dtype:            ndarray.Float32,
		name:             "metric",
		chunkElems:       ndarray.DefaultChunkElems,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
