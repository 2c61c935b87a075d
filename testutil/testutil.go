package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/kikgo/ndarray"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniform fills dst with values in [minVal, maxVal).
func (r *RNG) FillUniform(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Uniform returns a Float64 array of the given shape with values in [minVal, maxVal).
func (r *RNG) Uniform(minVal, maxVal float64, dims ...int) *ndarray.Dense {
	data := make([]float64, ndarray.Shape(dims).Size())
	r.FillUniform(data, minVal, maxVal)
	return must(ndarray.FromFloat64(data, dims...))
}

// Patterns returns n random Uint8 patterns of shape (sy, sx), stacked to
// shape (n, sy, sx).
func (r *RNG) Patterns(n, sy, sx int) *ndarray.Dense {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]uint8, n*sy*sx)
	for i := range data {
		data[i] = uint8(r.rand.Intn(256))
	}
	return must(ndarray.FromUint8(data, n, sy, sx))
}

// Scan builds an experimental scan of shape (ny, nx, sy, sx) in which every
// pattern is a dictionary pattern with Gaussian noise of standard deviation
// noise added. It returns the scan and, per navigation point in row-major
// order, the index of the source pattern.
func (r *RNG) Scan(dict *ndarray.Dense, ny, nx int, noise float64) (*ndarray.Dense, []int) {
	shape := dict.Shape()
	n, sig := shape[0], shape.Tail(2).Size()
	src := dict.Data()

	r.mu.Lock()
	defer r.mu.Unlock()

	truth := make([]int, ny*nx)
	data := make([]uint8, ny*nx*sig)
	for p := range truth {
		k := r.rand.Intn(n)
		truth[p] = k
		for j := range sig {
			v := src[k*sig+j] + r.rand.NormFloat64()*noise
			data[p*sig+j] = uint8(math.Max(0, math.Min(255, math.Round(v))))
		}
	}
	return must(ndarray.FromUint8(data, ny, nx, shape[1], shape[2])), truth
}

// ArgBest returns, for each row of n scores, the index of the best score:
// the maximum if sign is positive and the minimum otherwise.
func ArgBest(scores []float64, n, sign int) []int {
	if n == 0 {
		return nil
	}
	rows := len(scores) / n
	out := make([]int, rows)
	for i := range rows {
		row := scores[i*n : (i+1)*n]
		best := 0
		for j, v := range row {
			if float64(sign)*v > float64(sign)*row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
