package chunkstore

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/kikgo/blobstore"
	"github.com/hupe1980/kikgo/codec"
	"github.com/hupe1980/kikgo/ndarray"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Store persists pattern arrays as chunked blobs and reopens them lazily.
// It is safe for concurrent use.
type Store struct {
	blobs blobstore.BlobStore
	opts  Options
	cache *lru.Cache[string, []float64]
}

// New creates a store on top of blobs.
func New(blobs blobstore.BlobStore, optFns ...Option) *Store {
	s := &Store{
		blobs: blobs,
		opts:  applyOptions(optFns),
	}
	if s.opts.CacheSize > 0 {
		// Only fails for a non-positive size.
		s.cache, _ = lru.New[string, []float64](s.opts.CacheSize)
	}
	return s
}

// Write stores a under name, replacing any array of the same name.
// Chunks hold whole patterns, i.e. whole slices along the first axis.
//
// Chunks go to keys of a new generation and the manifest is written last, so
// readers never see a partial array. A failed write leaves the previous
// version intact. Chunks of the previous version are removed once the new
// manifest is in place.
func (s *Store) Write(ctx context.Context, name string, a ndarray.Array) error {
	if err := validName(name); err != nil {
		return err
	}

	w, err := s.newWriter(name, a.Shape(), a.DType())
	if err != nil {
		return err
	}
	err = ndarray.Stream(ctx, a.Rechunk(w.unit, w.per), w.unit, func(ctx context.Context, off int, data []float64) error {
		for lo := 0; lo < len(data); lo += w.per {
			hi := min(lo+w.per, len(data))
			if err := w.put(ctx, off+lo, data[lo:hi]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		w.abort(ctx)
		return err
	}
	return w.commit(ctx)
}

// Import stores the raw little-endian values read from r as an array of the
// given shape and dtype. r is consumed one chunk at a time and must hold
// exactly shape.Size() values.
func (s *Store) Import(ctx context.Context, name string, r io.Reader, dtype ndarray.DType, shape ndarray.Shape) error {
	if err := validName(name); err != nil {
		return err
	}
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension in %v", ndarray.ErrInvalidShape, shape)
		}
	}

	w, err := s.newWriter(name, shape, dtype)
	if err != nil {
		return err
	}
	if err := w.copyFrom(ctx, r); err != nil {
		w.abort(ctx)
		return err
	}
	return w.commit(ctx)
}

// copyFrom stores the values read from r as chunks.
func (w *writer) copyFrom(ctx context.Context, r io.Reader) error {
	shape, dtype := w.shape, w.dtype
	item := dtype.ItemSize()
	total := shape.Size()
	buf := make([]byte, min(w.per, max(total, 1))*item)

	for off := 0; off < total; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(w.per, total-off)
		if _, err := io.ReadFull(r, buf[:n*item]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("chunkstore: input ends before %d values of shape %v", total, shape)
			}
			return err
		}
		values, err := decode(buf[:n*item], dtype, n)
		if err != nil {
			return err
		}
		if err := w.put(ctx, off, values); err != nil {
			return err
		}
		off += n
	}

	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n > 0 {
		return fmt.Errorf("chunkstore: input holds more than %d values of shape %v", total, shape)
	}
	return nil
}

// writer collects the chunks of one array while they are stored.
type writer struct {
	s     *Store
	name  string
	gen   string
	shape ndarray.Shape
	dtype ndarray.DType
	unit  int
	per   int

	mu     sync.Mutex
	chunks []ChunkInfo
}

func (s *Store) newWriter(name string, shape ndarray.Shape, dtype ndarray.DType) (*writer, error) {
	// Version 7 UUIDs sort by creation time.
	gen, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("chunkstore: new generation: %w", err)
	}

	unit := 1
	if shape.Rank() > 0 {
		unit = max(shape.Tail(shape.Rank()-1).Size(), 1)
	}
	return &writer{
		s:     s,
		name:  name,
		gen:   gen.String(),
		shape: shape.Clone(),
		dtype: dtype,
		unit:  unit,
		per:   max(1, s.opts.ChunkElems/unit) * unit,
	}, nil
}

// put stores the values starting at element off as one chunk.
func (w *writer) put(ctx context.Context, off int, values []float64) error {
	stored, err := compressBlock(encode(values, w.dtype), w.s.opts.Compression)
	if err != nil {
		return fmt.Errorf("chunkstore: compress: %w", err)
	}

	info := ChunkInfo{
		Key:    chunkKey(w.name, w.gen, off/w.unit),
		Offset: off,
		Elems:  len(values),
		Size:   len(stored),
		CRC32C: crc32.Checksum(stored, castagnoli),
	}
	if err := w.s.blobs.Put(ctx, info.Key, stored); err != nil {
		return fmt.Errorf("chunkstore: put %s: %w", info.Key, err)
	}

	w.mu.Lock()
	w.chunks = append(w.chunks, info)
	w.mu.Unlock()
	return nil
}

// commit writes the manifest and drops what the previous version left behind.
func (w *writer) commit(ctx context.Context) error {
	s := w.s
	slices.SortFunc(w.chunks, func(x, y ChunkInfo) int { return x.Offset - y.Offset })
	m := &Manifest{
		Version:     manifestVersion,
		Generation:  w.gen,
		Shape:       w.shape,
		DType:       w.dtype.String(),
		Compression: s.opts.Compression.String(),
		Chunks:      w.chunks,
	}
	data, err := codec.Encode(s.opts.Codec, m)
	if err != nil {
		w.abort(ctx)
		return fmt.Errorf("chunkstore: %w", err)
	}
	// The put may have landed despite the error, so the chunks stay. The
	// next write of name removes them if they are unreferenced.
	if err := s.blobs.Put(ctx, manifestKey(w.name), data); err != nil {
		return fmt.Errorf("chunkstore: put manifest: %w", err)
	}

	s.evict(w.name)
	if err := s.removeStale(ctx, w.name, w.gen); err != nil {
		return err
	}

	s.opts.Logger.InfoContext(ctx, "wrote array",
		"name", w.name,
		"shape", w.shape.String(),
		"dtype", m.DType,
		"compression", m.Compression,
		"generation", w.gen,
		"chunks", len(m.Chunks),
		"stored_bytes", m.StoredBytes(),
	)
	return nil
}

// abort removes the chunks stored so far. It runs after a failure, so
// errors are only logged.
func (w *writer) abort(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	w.mu.Lock()
	chunks := w.chunks
	w.chunks = nil
	w.mu.Unlock()

	for _, c := range chunks {
		if err := w.s.blobs.Delete(ctx, c.Key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			w.s.opts.Logger.WarnContext(ctx, "failed to remove chunk of aborted write",
				"key", c.Key,
				"error", err,
			)
		}
	}
}

// removeStale deletes the chunks of name that belong to any generation but
// keep. An empty keep removes every chunk.
func (s *Store) removeStale(ctx context.Context, name, keep string) error {
	keys, err := s.blobs.List(ctx, name+"/")
	if err != nil {
		return fmt.Errorf("chunkstore: list %s: %w", name, err)
	}

	var errs []error
	for _, k := range keys {
		gen, ok := chunkGeneration(name, k)
		if !ok || gen == keep {
			continue
		}
		if err := s.blobs.Delete(ctx, k); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			errs = append(errs, fmt.Errorf("chunkstore: delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Stat returns the manifest of the named array.
func (s *Store) Stat(ctx context.Context, name string) (*Manifest, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	data, err := blobstore.Get(ctx, s.blobs, manifestKey(name))
	if err != nil {
		return nil, fmt.Errorf("chunkstore: %s: %w", name, err)
	}

	m, err := codec.Decode[Manifest](s.opts.Codec, data)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest of %s: %v", ErrCorruptChunk, name, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("chunkstore: %s: %w", name, err)
	}
	return m, nil
}

// Open returns the named array as a lazy array. Chunks are read, verified
// and decoded when the array is materialized or streamed.
func (s *Store) Open(ctx context.Context, name string) (*ndarray.Lazy, error) {
	m, err := s.Stat(ctx, name)
	if err != nil {
		return nil, err
	}

	dtype, err := ndarray.ParseDType(m.DType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	comp, err := ParseCompression(m.Compression)
	if err != nil {
		return nil, err
	}

	chunks := make([]ndarray.Chunk, len(m.Chunks))
	for i, info := range m.Chunks {
		chunks[i] = ndarray.Chunk{
			Len: info.Elems,
			Load: func(ctx context.Context) ([]float64, error) {
				return s.load(ctx, info, dtype, comp)
			},
		}
	}

	return ndarray.NewLazy(dtype, ndarray.Shape(m.Shape), chunks, ndarray.WithScheduler(s.opts.Scheduler))
}

func (s *Store) load(ctx context.Context, info ChunkInfo, dtype ndarray.DType, comp Compression) ([]float64, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(info.Key); ok {
			return v, nil
		}
	}

	if err := s.opts.Resources.AcquireIO(ctx, info.Size); err != nil {
		return nil, err
	}
	stored, err := blobstore.Get(ctx, s.blobs, info.Key)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: read %s: %w", info.Key, err)
	}
	if len(stored) != info.Size || crc32.Checksum(stored, castagnoli) != info.CRC32C {
		return nil, fmt.Errorf("%w: %s fails checksum", ErrCorruptChunk, info.Key)
	}

	raw, err := decompressBlock(stored, comp)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: %s: %w", info.Key, err)
	}
	values, err := decode(raw, dtype, info.Elems)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: %s: %w", info.Key, err)
	}

	s.opts.Logger.DebugContext(ctx, "loaded chunk",
		"key", info.Key,
		"elems", info.Elems,
		"stored_bytes", info.Size,
	)

	if s.cache != nil {
		s.cache.Add(info.Key, values)
	}
	return values, nil
}

// List returns the names of all stored arrays in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, "/"+manifestFile); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes the named array with the chunks of all its generations.
// The manifest goes first, so a failed delete leaves unreachable chunks
// rather than a broken array.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.Stat(ctx, name); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, manifestKey(name)); err != nil {
		return fmt.Errorf("chunkstore: delete manifest: %w", err)
	}
	s.evict(name)
	return s.removeStale(ctx, name, "")
}

func (s *Store) evict(name string) {
	if s.cache == nil {
		return
	}
	prefix := name + "/"
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Remove(k)
		}
	}
}

func validName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.Contains(name, "..") {
		return fmt.Errorf("chunkstore: invalid array name %q", name)
	}
	return nil
}
