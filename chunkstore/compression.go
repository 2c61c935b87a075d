package chunkstore

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression applied to stored chunks.
type Compression uint8

const (
	// CompressionNone stores encoded chunks as is.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4
	// CompressionZSTD uses ZSTD (slower, better ratio for cold dictionaries).
	CompressionZSTD
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", c)
	}
}

// ParseCompression returns the compression with the given name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Compressed blocks start with [uncompressed uint32][compressed uint32].
// A compressed size of 0 marks a block stored raw because compression did
// not pay off.
const blockHeaderSize = 8

// compressBlock frames data with a block header, compressed with c when that
// shrinks it below 90% of the input.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}

	stored := compressed
	storedSize := uint32(len(compressed))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		stored = data
		storedSize = 0
	}

	out := make([]byte, blockHeaderSize+len(stored))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], storedSize)
	copy(out[blockHeaderSize:], stored)
	return out, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}
	if len(data) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorruptChunk)
	}

	rawSize := binary.LittleEndian.Uint32(data[0:])
	storedSize := binary.LittleEndian.Uint32(data[4:])
	payload := data[blockHeaderSize:]

	if storedSize == 0 {
		if uint32(len(payload)) != rawSize {
			return nil, fmt.Errorf("%w: raw block holds %d bytes, header says %d", ErrCorruptChunk, len(payload), rawSize)
		}
		return payload, nil
	}
	if uint32(len(payload)) != storedSize {
		return nil, fmt.Errorf("%w: compressed block holds %d bytes, header says %d", ErrCorruptChunk, len(payload), storedSize)
	}

	out := make([]byte, rawSize)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
		}
		out = out[:n]
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0])
		putZstdDecoder(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
		}
		out = decoded
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}

	if uint32(len(out)) != rawSize {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptChunk, len(out), rawSize)
	}
	return out, nil
}
