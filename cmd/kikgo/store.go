package main

import (
	"context"

	"github.com/hupe1980/kikgo/chunkstore"
	"github.com/hupe1980/kikgo/codec"
)

// chunkStore opens the configured chunk store.
func (a *app) chunkStore(ctx context.Context) (*chunkstore.Store, error) {
	blobs, err := a.cfg.blobStore(ctx)
	if err != nil {
		return nil, err
	}

	// validate has already checked the names.
	comp, _ := chunkstore.ParseCompression(a.cfg.Compression)
	c, _ := codec.ByName(a.cfg.Codec)
	return chunkstore.New(blobs,
		chunkstore.WithCompression(comp),
		chunkstore.WithCodec(c),
		chunkstore.WithChunkElems(a.cfg.ChunkElems),
		chunkstore.WithCacheSize(a.cfg.CacheSize),
		chunkstore.WithResources(a.resources()),
		chunkstore.WithLogger(a.logger.Logger),
	), nil
}
