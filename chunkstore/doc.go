// Package chunkstore persists pattern arrays that may not fit in memory.
//
// An array is split into chunks of whole patterns (slices along the first
// axis). Each chunk is encoded little-endian in the array's dtype, optionally
// compressed with LZ4 or ZSTD, and stored as one blob:
//
//	<name>/<generation>/chunk-000000000
//	<name>/<generation>/chunk-000000360
//	<name>/manifest.json
//
// The manifest records the generation, shape, dtype, compression and the
// chunk table with CRC32C checksums. Each write uses a new generation and
// commits by replacing the manifest, so rewriting an array never touches the
// chunks the current manifest points to. Open returns an ndarray.Lazy whose chunks are read
// through the resource IO limiter and kept in an LRU cache once decoded,
// so a dictionary larger than memory can be compared against experimental
// patterns chunk by chunk.
//
//	store := chunkstore.New(blobstore.NewLocalStore(dir),
//	    chunkstore.WithCompression(chunkstore.CompressionZSTD))
//	if err := store.Write(ctx, "ni-master", dictionary); err != nil {
//	    return err
//	}
//	dict, err := store.Open(ctx, "ni-master")
package chunkstore
