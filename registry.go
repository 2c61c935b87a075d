package kikgo

import (
	"fmt"
	"sort"
)

// registry holds the named metrics. It is built once and never modified.
var registry = map[string]*Metric{
	"zncc": MakeMetric(ZNCC,
		WithName("zncc"),
		WithScope(ManyToMany),
		WithAutoPromote(true),
	),
	"ndp": MakeMetric(NDP,
		WithName("ndp"),
		WithScope(ManyToMany),
		WithAutoPromote(true),
	),
}

// Lookup returns the registered metric with the given name.
func Lookup(name string) (*Metric, error) {
	m, ok := registry[name]
	if !ok {
		return nil, &UnknownMetricError{Name: name, Available: MetricNames()}
	}
	return m, nil
}

// MetricNames returns the registered metric names in sorted order.
func MetricNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve accepts a metric name or a *Metric.
func Resolve(metric any) (*Metric, error) {
	switch v := metric.(type) {
	case string:
		return Lookup(v)
	case *Metric:
		if v == nil {
			return nil, fmt.Errorf("kikgo: nil metric")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("kikgo: cannot use %T as a metric", metric)
	}
}
