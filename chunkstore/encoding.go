package chunkstore

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/kikgo/ndarray"
)

// encode writes values little-endian in the width of dtype.
func encode(values []float64, dtype ndarray.DType) []byte {
	size := dtype.ItemSize()
	out := make([]byte, len(values)*size)
	for i, v := range values {
		v = dtype.Cast(v)
		b := out[i*size:]
		switch dtype {
		case ndarray.Float64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		case ndarray.Uint8:
			b[0] = uint8(v)
		case ndarray.Uint16:
			binary.LittleEndian.PutUint16(b, uint16(v))
		default:
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		}
	}
	return out
}

// decode reverses encode, expecting exactly n values.
func decode(data []byte, dtype ndarray.DType, n int) ([]float64, error) {
	size := dtype.ItemSize()
	if len(data) != n*size {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d %s values", ErrCorruptChunk, len(data), n, dtype)
	}

	out := make([]float64, n)
	for i := range out {
		b := data[i*size:]
		switch dtype {
		case ndarray.Float64:
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		case ndarray.Uint8:
			out[i] = float64(b[0])
		case ndarray.Uint16:
			out[i] = float64(binary.LittleEndian.Uint16(b))
		default:
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	}
	return out, nil
}
