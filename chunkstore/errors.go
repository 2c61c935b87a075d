package chunkstore

import "errors"

var (
	// ErrCorruptChunk is returned when a stored chunk or manifest fails validation.
	ErrCorruptChunk = errors.New("chunkstore: corrupt chunk")
	// ErrUnknownCompression is returned for compression names or ids that are not supported.
	ErrUnknownCompression = errors.New("chunkstore: unknown compression")
)
