package chunkstore

import (
	"fmt"
	"strings"

	"github.com/hupe1980/kikgo/ndarray"
)

const (
	manifestVersion = 2
	manifestFile    = "manifest.json"
	chunkPrefix     = "chunk-"
)

// Manifest describes a stored array.
type Manifest struct {
	Version int `json:"version"`

	// Generation identifies the write that produced the chunks. Every write
	// stores its chunks under a fresh generation.
	Generation  string      `json:"generation"`
	Shape       []int       `json:"shape"`
	DType       string      `json:"dtype"`
	Compression string      `json:"compression"`
	Chunks      []ChunkInfo `json:"chunks"`
}

// ChunkInfo locates one chunk of a stored array.
type ChunkInfo struct {
	// Key is the blob name of the chunk.
	Key string `json:"key"`
	// Offset is the row-major element offset of the first value.
	Offset int `json:"offset"`
	// Elems is the number of values in the chunk.
	Elems int `json:"elems"`
	// Size is the stored size in bytes.
	Size int `json:"size"`
	// CRC32C is the Castagnoli checksum of the stored bytes.
	CRC32C uint32 `json:"crc32c"`
}

// StoredBytes returns the total stored size of all chunks.
func (m *Manifest) StoredBytes() int64 {
	var n int64
	for _, c := range m.Chunks {
		n += int64(c.Size)
	}
	return n
}

// RawBytes returns the encoded size of the array before compression.
func (m *Manifest) RawBytes() (int64, error) {
	dtype, err := ndarray.ParseDType(m.DType)
	if err != nil {
		return 0, err
	}
	return int64(ndarray.Shape(m.Shape).Size()) * int64(dtype.ItemSize()), nil
}

func (m *Manifest) validate() error {
	if m.Version != manifestVersion {
		return fmt.Errorf("%w: unsupported manifest version %d", ErrCorruptChunk, m.Version)
	}
	if m.Generation == "" || strings.Contains(m.Generation, "/") {
		return fmt.Errorf("%w: invalid generation %q", ErrCorruptChunk, m.Generation)
	}

	off := 0
	for i, c := range m.Chunks {
		if c.Offset != off || c.Elems <= 0 {
			return fmt.Errorf("%w: chunk %d covers [%d, %d), want offset %d", ErrCorruptChunk, i, c.Offset, c.Offset+c.Elems, off)
		}
		off += c.Elems
	}
	if size := ndarray.Shape(m.Shape).Size(); off != size {
		return fmt.Errorf("%w: chunks hold %d values, shape %v needs %d", ErrCorruptChunk, off, m.Shape, size)
	}
	return nil
}

func manifestKey(name string) string {
	return name + "/" + manifestFile
}

// chunkKey names a chunk after its write generation and first pattern.
func chunkKey(name, generation string, pattern int) string {
	return fmt.Sprintf("%s/%s/%s%09d", name, generation, chunkPrefix, pattern)
}

// chunkGeneration reports the generation of key if it is a chunk of name.
// Keys of arrays nested below name are not chunks of name.
func chunkGeneration(name, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, name+"/")
	if !ok {
		return "", false
	}
	gen, file, ok := strings.Cut(rest, "/")
	if !ok || gen == "" || strings.Contains(file, "/") || !strings.HasPrefix(file, chunkPrefix) {
		return "", false
	}
	return gen, true
}
