package kikgo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/kikgo/ndarray"
)

var (
	// ErrIncompatibleShape is matched by every *IncompatibleShapeError.
	ErrIncompatibleShape = errors.New("incompatible shapes")

	// ErrUnknownMetric is matched by every *UnknownMetricError.
	ErrUnknownMetric = errors.New("unknown metric")
)

// IncompatibleShapeError reports input arrays whose shapes do not fit a
// metric's scope.
type IncompatibleShapeError struct {
	// Metric is empty when no metric was involved.
	Metric       string
	Scope        Scope
	Layout       Layout
	Experimental ndarray.Shape
	Simulated    ndarray.Shape
	Reason       string
}

func (e *IncompatibleShapeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "incompatible shapes: experimental %v", e.Experimental)
	if e.Simulated != nil {
		fmt.Fprintf(&b, ", simulated %v", e.Simulated)
	}
	if e.Metric != "" {
		fmt.Fprintf(&b, " for %s metric %s with scope %s", e.Layout, e.Metric, e.Scope)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *IncompatibleShapeError) Is(target error) bool { return target == ErrIncompatibleShape }

// UnknownMetricError is returned when a metric name is not registered.
type UnknownMetricError struct {
	Name      string
	Available []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q, available: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownMetricError) Is(target error) bool { return target == ErrUnknownMetric }
