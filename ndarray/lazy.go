package ndarray

import (
	"context"
	"fmt"
	"sort"
)

// ChunkFunc produces the values of one chunk.
// Consumers treat the returned slice as read-only.
type ChunkFunc func(ctx context.Context) ([]float64, error)

// Chunk describes a contiguous run of Len row-major elements.
type Chunk struct {
	Len  int
	Load ChunkFunc
}

type block struct {
	off  int
	n    int
	load ChunkFunc
}

// Lazy is an array whose values are produced chunk by chunk on demand.
// Chunks are contiguous in row-major order, so shape-only operations never
// touch the data.
type Lazy struct {
	shape  Shape
	dtype  DType
	blocks []block
	sched  *Scheduler
}

var _ Array = (*Lazy)(nil)

// LazyOption configures a lazy array.
type LazyOption func(*Lazy)

// WithScheduler sets the scheduler used to execute the array's chunks.
// Arrays derived from this one inherit it.
func WithScheduler(s *Scheduler) LazyOption {
	return func(l *Lazy) {
		l.sched = s
	}
}

// NewLazy assembles a lazy array from chunks that together fill shape.
func NewLazy(dtype DType, shape Shape, chunks []Chunk, optFns ...LazyOption) (*Lazy, error) {
	shape = shape.Clone()
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	blocks := make([]block, 0, len(chunks))
	off := 0
	for i, c := range chunks {
		if c.Len < 0 || c.Load == nil {
			return nil, fmt.Errorf("%w: chunk %d is invalid", ErrInvalidShape, i)
		}
		if c.Len == 0 {
			continue
		}
		blocks = append(blocks, block{off: off, n: c.Len, load: c.Load})
		off += c.Len
	}
	if off != shape.Size() {
		return nil, fmt.Errorf("%w: chunks hold %d elements, shape %v needs %d", ErrInvalidShape, off, shape, shape.Size())
	}

	l := &Lazy{shape: shape, dtype: dtype, blocks: blocks}
	for _, fn := range optFns {
		if fn != nil {
			fn(l)
		}
	}
	return l, nil
}

// FromDense wraps d as a lazy array chunked along its first axis.
// rowsPerChunk <= 0 yields a single chunk.
func FromDense(d *Dense, rowsPerChunk int, optFns ...LazyOption) *Lazy {
	rowSize := 1
	rows := 1
	if len(d.shape) > 0 {
		rows = d.shape[0]
		rowSize = d.shape[1:].Size()
	}
	if rowsPerChunk <= 0 || rowsPerChunk > rows {
		rowsPerChunk = rows
	}

	var chunks []Chunk
	for start := 0; start < rows; start += rowsPerChunk {
		end := min(start+rowsPerChunk, rows)
		data := d.data[start*rowSize : end*rowSize]
		chunks = append(chunks, Chunk{
			Len:  len(data),
			Load: func(context.Context) ([]float64, error) { return data, nil },
		})
	}

	// Sizes come from d itself, so construction cannot fail.
	l, err := NewLazy(d.dtype, d.shape, chunks, optFns...)
	if err != nil {
		panic(err)
	}
	return l
}

// Shape returns a copy of the array's dimensions.
func (l *Lazy) Shape() Shape { return l.shape.Clone() }

// DType returns the numeric type of the values.
func (l *Lazy) DType() DType { return l.dtype }

// Lazy always returns true.
func (l *Lazy) Lazy() bool { return true }

// NumChunks returns the number of chunks.
func (l *Lazy) NumChunks() int { return len(l.blocks) }

// ChunkLens returns the element count of each chunk.
func (l *Lazy) ChunkLens() []int {
	out := make([]int, len(l.blocks))
	for i, b := range l.blocks {
		out[i] = b.n
	}
	return out
}

func (l *Lazy) derive(shape Shape, dtype DType, blocks []block) *Lazy {
	return &Lazy{shape: shape, dtype: dtype, blocks: blocks, sched: l.sched}
}

func (l *Lazy) scheduler() *Scheduler {
	if l.sched == nil {
		return DefaultScheduler
	}
	return l.sched
}

// AsType returns the array with every chunk cast to dt.
func (l *Lazy) AsType(dt DType) Array {
	if dt == l.dtype {
		return l
	}
	return l.mapBlocks(dt, func(in []float64) []float64 {
		out := append([]float64(nil), in...)
		dt.castSlice(out)
		return out
	})
}

func (l *Lazy) mapBlocks(dt DType, fn func(in []float64) []float64) *Lazy {
	blocks := make([]block, len(l.blocks))
	for i, b := range l.blocks {
		load := b.load
		blocks[i] = block{off: b.off, n: b.n, load: func(ctx context.Context) ([]float64, error) {
			in, err := load(ctx)
			if err != nil {
				return nil, err
			}
			return fn(in), nil
		}}
	}
	return l.derive(l.shape.Clone(), dt, blocks)
}

// Rechunk regroups the chunks so that each holds whole units and about
// targetElems elements. A partition that is already aligned and no larger
// than twice the target is kept as is. If unit does not divide the size,
// the array collapses into a single chunk.
func (l *Lazy) Rechunk(unit, targetElems int) Array {
	if unit <= 0 {
		unit = 1
	}
	if targetElems <= 0 {
		targetElems = DefaultChunkElems
	}

	size := l.shape.Size()
	if size == 0 {
		return l
	}
	if size%unit != 0 {
		unit = size
	}
	if l.aligned(unit, 2*max(targetElems, unit)) {
		return l
	}

	per := max(1, targetElems/unit) * unit
	var blocks []block
	for off := 0; off < size; off += per {
		n := min(per, size-off)
		blocks = append(blocks, block{off: off, n: n, load: l.gather(off, n)})
	}
	return l.derive(l.shape.Clone(), l.dtype, blocks)
}

func (l *Lazy) aligned(unit, limit int) bool {
	for _, b := range l.blocks {
		if b.off%unit != 0 || b.n%unit != 0 || b.n > limit {
			return false
		}
	}
	return true
}

// gather returns a loader for elements [off, off+n) assembled from the
// overlapping chunks.
func (l *Lazy) gather(off, n int) ChunkFunc {
	first := sort.Search(len(l.blocks), func(i int) bool {
		b := l.blocks[i]
		return b.off+b.n > off
	})
	var parts []block
	for i := first; i < len(l.blocks) && l.blocks[i].off < off+n; i++ {
		parts = append(parts, l.blocks[i])
	}

	if len(parts) == 1 && parts[0].off == off && parts[0].n == n {
		return parts[0].load
	}

	return func(ctx context.Context) ([]float64, error) {
		out := make([]float64, n)
		for _, p := range parts {
			data, err := p.load(ctx)
			if err != nil {
				return nil, err
			}
			lo := max(off, p.off)
			hi := min(off+n, p.off+p.n)
			copy(out[lo-off:hi-off], data[lo-p.off:hi-p.off])
		}
		return out, nil
	}
}

// Reshape returns a lazy view with new dimensions.
func (l *Lazy) Reshape(dims ...int) (Array, error) {
	shape, err := resolveShape(l.shape.Size(), dims)
	if err != nil {
		return nil, err
	}
	return l.derive(shape, l.dtype, l.blocks), nil
}

// ExpandDims returns a lazy view with n leading singleton axes.
func (l *Lazy) ExpandDims(n int) Array {
	return l.derive(l.shape.prepend(n), l.dtype, l.blocks)
}

// Squeeze returns a lazy view without singleton axes.
func (l *Lazy) Squeeze() Array {
	return l.derive(l.shape.squeeze(), l.dtype, l.blocks)
}

// Materialize loads every chunk in parallel and assembles a dense array.
func (l *Lazy) Materialize(ctx context.Context) (*Dense, error) {
	out := make([]float64, l.shape.Size())
	sched := l.scheduler()

	err := sched.run(ctx, len(l.blocks),
		func(i int) int64 { return int64(l.blocks[i].n) * 8 },
		func(ctx context.Context, i int) error {
			b := l.blocks[i]
			data, err := b.load(ctx)
			if err != nil {
				return err
			}
			if len(data) != b.n {
				return fmt.Errorf("%w: chunk %d produced %d elements, want %d", ErrInvalidShape, i, len(data), b.n)
			}
			copy(out[b.off:b.off+b.n], data)
			return nil
		})
	if err != nil {
		return nil, err
	}

	sched.logger().DebugContext(ctx, "materialized lazy array",
		"shape", l.shape.String(),
		"chunks", len(l.blocks),
	)
	return &Dense{shape: l.shape.Clone(), dtype: l.dtype, data: out}, nil
}

func (l *Lazy) String() string {
	return fmt.Sprintf("Lazy%v %s chunks=%d", l.shape, l.dtype, len(l.blocks))
}

// asLazy views a as lazy. Dense arrays become a single chunk.
func asLazy(a Array) *Lazy {
	switch v := a.(type) {
	case *Lazy:
		return v
	case *Dense:
		return FromDense(v, 0)
	default:
		// Foreign implementations are materialized on demand.
		shape := a.Shape()
		chunks := []Chunk{{Len: shape.Size(), Load: func(ctx context.Context) ([]float64, error) {
			d, err := a.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			return d.data, nil
		}}}
		l, err := NewLazy(a.DType(), shape, chunks)
		if err != nil {
			panic(err)
		}
		return l
	}
}
