package ndarray

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/kikgo/internal/kernel"
)

// SubtractMean subtracts from every pattern its mean, where a pattern is the
// block spanned by the trailing axes dimensions.
func SubtractMean(a Array, axes int) (Array, error) {
	return mapPatterns(a, axes, func(p []float64) {
		if len(p) == 0 {
			return
		}
		kernel.AddScalar(p, -kernel.Sum(p)/float64(len(p)))
	})
}

// NormalizeL2 divides every pattern by its Euclidean norm. Patterns with a
// zero norm become NaN, matching IEEE division.
func NormalizeL2(a Array, axes int) (Array, error) {
	return mapPatterns(a, axes, func(p []float64) {
		norm := kernel.Norm(p)
		if norm == 0 {
			for i := range p {
				p[i] = math.NaN()
			}
			return
		}
		kernel.Scale(p, 1/norm)
	})
}

func patternSize(a Array, axes int) (int, error) {
	shape := a.Shape()
	if axes < 0 || axes > shape.Rank() {
		return 0, fmt.Errorf("%w: %d trailing axes for shape %v", ErrInvalidAxis, axes, shape)
	}
	return shape.Tail(axes).Size(), nil
}

// mapPatterns applies fn to a fresh copy of every pattern.
func mapPatterns(a Array, axes int, fn func(p []float64)) (Array, error) {
	unit, err := patternSize(a, axes)
	if err != nil {
		return nil, err
	}
	dt := a.DType()

	apply := func(in []float64) []float64 {
		out := append([]float64(nil), in...)
		if unit > 0 {
			for off := 0; off+unit <= len(out); off += unit {
				fn(out[off : off+unit])
			}
		}
		dt.castSlice(out)
		return out
	}

	switch v := a.(type) {
	case *Dense:
		return &Dense{shape: v.shape.Clone(), dtype: dt, data: apply(v.data)}, nil
	default:
		l := asLazy(a.Rechunk(unit, 0))
		return l.mapBlocks(dt, apply), nil
	}
}

// Contract computes the inner products of every pattern of a with every
// pattern of b, a pattern being the trailing axes dimensions. The result has
// shape a.Head(axes) followed by b.Head(axes); with a of shape (i, j, k, l),
// b of shape (m, k, l) and axes 2, out[i,j,m] = sum over k,l of a[i,j,k,l]*b[m,k,l].
//
// The result is dense when both inputs are dense and lazy otherwise.
func Contract(a, b Array, axes int) (Array, error) {
	as, bs := a.Shape(), b.Shape()
	if axes < 0 || axes > as.Rank() || axes > bs.Rank() {
		return nil, fmt.Errorf("%w: %d trailing axes for shapes %v and %v", ErrInvalidAxis, axes, as, bs)
	}
	if !as.Tail(axes).Equal(bs.Tail(axes)) {
		return nil, fmt.Errorf("%w: cannot contract %v with %v over %d axes", ErrShapeMismatch, as, bs, axes)
	}

	unit := as.Tail(axes).Size()
	if unit == 0 {
		return nil, fmt.Errorf("%w: empty patterns in %v", ErrInvalidShape, as)
	}

	outShape := append(as.Head(axes), bs.Head(axes)...)
	m := bs.Head(axes).Size()
	dt := resultType(a.DType(), b.DType())

	da, aDense := a.(*Dense)
	db, bDense := b.(*Dense)
	if aDense && bDense {
		out := make([]float64, outShape.Size())
		contractBlock(da.data, db.data, 0, unit, m, out)
		dt.castSlice(out)
		return &Dense{shape: outShape, dtype: dt, data: out}, nil
	}

	la := asLazy(a.Rechunk(unit, 0))
	lb := asLazy(b.Rechunk(unit, 0))
	if bDense {
		lb = FromDense(db, 0)
	}

	blocks := make([]block, len(la.blocks))
	for i, ab := range la.blocks {
		rows := ab.n / unit
		loadA := ab.load
		blocks[i] = block{off: ab.off / unit * m, n: rows * m, load: func(ctx context.Context) ([]float64, error) {
			aData, err := loadA(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]float64, rows*m)
			for _, bb := range lb.blocks {
				bData, err := bb.load(ctx)
				if err != nil {
					return nil, err
				}
				contractBlock(aData, bData, bb.off/unit, unit, m, out)
			}
			dt.castSlice(out)
			return out, nil
		}}
	}

	return &Lazy{shape: outShape, dtype: dt, blocks: blocks, sched: pickScheduler(a, b)}, nil
}

// contractBlock fills the columns [col, col+len(bData)/unit) of every row of
// out (row length m) with the inner products of aData and bData patterns.
func contractBlock(aData, bData []float64, col, unit, m int, out []float64) {
	rowsA := len(aData) / unit
	rowsB := len(bData) / unit
	for r := range rowsA {
		dst := out[r*m+col : r*m+col+rowsB]
		kernel.DotBatch(aData[r*unit:(r+1)*unit], bData, unit, dst)
	}
}

// Slice returns rows [start, stop) of the first axis.
func Slice(a Array, start, stop int) (Array, error) {
	shape := a.Shape()
	if shape.Rank() == 0 {
		return nil, fmt.Errorf("%w: cannot slice a rank-0 array", ErrInvalidAxis)
	}
	if start < 0 || stop > shape[0] || start > stop {
		return nil, fmt.Errorf("%w: slice [%d:%d] of %v", ErrInvalidShape, start, stop, shape)
	}

	rowSize := shape[1:].Size()
	outShape := shape.Clone()
	outShape[0] = stop - start
	lo, hi := start*rowSize, stop*rowSize

	if d, ok := a.(*Dense); ok {
		return &Dense{shape: outShape, dtype: d.dtype, data: d.data[lo:hi]}, nil
	}

	l := asLazy(a)
	var blocks []block
	for _, b := range l.blocks {
		if b.off+b.n <= lo || b.off >= hi {
			continue
		}
		from := max(lo, b.off)
		to := min(hi, b.off+b.n)
		load := b.load
		skip := from - b.off
		blocks = append(blocks, block{off: from - lo, n: to - from, load: func(ctx context.Context) ([]float64, error) {
			data, err := load(ctx)
			if err != nil {
				return nil, err
			}
			return data[skip : skip+to-from], nil
		}})
	}
	return l.derive(outShape, l.dtype, blocks), nil
}

// Stream calls fn for consecutive runs of a's elements, each holding a whole
// number of units. off is the element offset of data. For lazy arrays fn runs
// concurrently on the array's scheduler; data must not be retained or modified.
func Stream(ctx context.Context, a Array, unit int, fn func(ctx context.Context, off int, data []float64) error) error {
	if d, ok := a.(*Dense); ok {
		return fn(ctx, 0, d.data)
	}

	l := asLazy(a.Rechunk(unit, 0))
	return l.scheduler().run(ctx, len(l.blocks),
		func(i int) int64 { return int64(l.blocks[i].n) * 8 },
		func(ctx context.Context, i int) error {
			b := l.blocks[i]
			data, err := b.load(ctx)
			if err != nil {
				return err
			}
			return fn(ctx, b.off, data)
		})
}
