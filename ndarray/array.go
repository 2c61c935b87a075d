package ndarray

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kikgo/resource"
)

// DefaultChunkBytes is the in-memory size Rechunk aims for when no target is given.
const DefaultChunkBytes = 128 << 20

// DefaultChunkElems is DefaultChunkBytes expressed in elements.
const DefaultChunkElems = DefaultChunkBytes / 8

// Array is the capability set the similarity metrics need from an array,
// whether it is held in memory or computed on demand.
type Array interface {
	// Shape returns a copy of the array's dimensions.
	Shape() Shape
	// DType returns the numeric type of the values.
	DType() DType
	// Lazy reports whether values are deferred until Materialize.
	Lazy() bool
	// AsType returns the array with values cast to dt.
	AsType(dt DType) Array
	// Rechunk regroups chunks so that each holds a whole number of units
	// and about targetElems elements. Dense arrays return themselves.
	Rechunk(unit, targetElems int) Array
	// Reshape returns a view with new dimensions; one dimension may be -1.
	Reshape(dims ...int) (Array, error)
	// ExpandDims prepends n singleton axes.
	ExpandDims(n int) Array
	// Squeeze removes every singleton axis.
	Squeeze() Array
	// Materialize computes all values. It is a no-op for dense arrays.
	Materialize(ctx context.Context) (*Dense, error)
}

// Scheduler executes the chunks of lazy arrays.
type Scheduler struct {
	// Workers bounds concurrently processed chunks.
	// If 0, Resources.MaxWorkers() or GOMAXPROCS is used.
	Workers int

	// Resources, if set, reserves memory and worker slots per chunk.
	Resources *resource.Controller

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultScheduler is used by lazy arrays created without WithScheduler.
var DefaultScheduler = &Scheduler{}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (s *Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	if n := s.Resources.MaxWorkers(); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}

// run executes task(i) for i in [0, n) with bounded concurrency.
// bytes(i) is reserved from the memory budget for the duration of the task.
func (s *Scheduler) run(ctx context.Context, n int, bytes func(i int) int64, task func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	rc := s.Resources
	for i := range n {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			reserved := bytes(i)
			if err := rc.AcquireMemory(gctx, reserved); err != nil {
				return err
			}
			defer rc.ReleaseMemory(reserved)

			return task(gctx, i)
		})
	}

	return g.Wait()
}

func pickScheduler(arrays ...Array) *Scheduler {
	for _, a := range arrays {
		if l, ok := a.(*Lazy); ok && l.sched != nil {
			return l.sched
		}
	}
	return DefaultScheduler
}
