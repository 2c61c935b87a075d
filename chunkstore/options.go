package chunkstore

import (
	"io"
	"log/slog"

	"github.com/hupe1980/kikgo/codec"
	"github.com/hupe1980/kikgo/ndarray"
	"github.com/hupe1980/kikgo/resource"
)

// DefaultChunkElems is the target number of values per stored chunk.
const DefaultChunkElems = 4 << 20

// DefaultCacheSize is the number of decoded chunks kept in memory.
const DefaultCacheSize = 16

// Options configures a Store.
type Options struct {
	// Compression is applied to newly written chunks.
	// Default: CompressionNone
	Compression Compression

	// ChunkElems is the target number of values per chunk. Chunks always
	// hold whole patterns.
	// Default: DefaultChunkElems
	ChunkElems int

	// CacheSize is the number of decoded chunks kept in an LRU cache.
	// 0 selects DefaultCacheSize, a negative value disables caching.
	CacheSize int

	// Codec encodes manifests.
	// Default: codec.Default
	Codec codec.Codec

	// Resources limits read throughput and the memory used while loading.
	Resources *resource.Controller

	// Scheduler executes the chunks of opened arrays. If nil, one is built
	// from Resources and Logger.
	Scheduler *ndarray.Scheduler

	// Logger receives write and load events.
	Logger *slog.Logger
}

// Option configures a Store.
type Option func(*Options)

// WithCompression sets the compression for new chunks.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithChunkElems sets the target chunk size in values.
func WithChunkElems(n int) Option {
	return func(o *Options) {
		o.ChunkElems = n
	}
}

// WithCacheSize sets the decoded chunk cache capacity.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		o.CacheSize = n
	}
}

// WithCodec sets the manifest codec.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithResources sets the resource controller.
func WithResources(rc *resource.Controller) Option {
	return func(o *Options) {
		o.Resources = rc
	}
}

// WithScheduler sets the scheduler of opened arrays.
func WithScheduler(s *ndarray.Scheduler) Option {
	return func(o *Options) {
		o.Scheduler = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func applyOptions(optFns []Option) Options {
	var o Options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.ChunkElems <= 0 {
		o.ChunkElems = DefaultChunkElems
	}
	if o.CacheSize == 0 {
		o.CacheSize = DefaultCacheSize
	}
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Scheduler == nil {
		o.Scheduler = &ndarray.Scheduler{Resources: o.Resources, Logger: o.Logger}
	}
	return o
}
