// Package compress provides the codecs applied to the combined-series cache.
//
// The cache is fixed-width text: long runs of spaces, repeated exponents and a
// slowly changing stage counter. General-purpose compressors shrink it well, so
// a cache can optionally be stored compressed with one of:
//   - None: the text as written
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// GetCodec returns a shared codec for a format.CompressionType; CreateCodec
// builds a new one. CompressWithStats and DecompressWithStats wrap the shared
// codecs and report a CompressionStats for logging.
//
// # Backends
//
// Zstd uses github.com/klauspost/compress/zstd with pooled encoders and
// decoders. Building with the gozstd tag (and cgo) switches to the
// github.com/valyala/gozstd bindings; both produce standard zstd frames, so
// caches written by one backend are read by the other. S2 uses
// github.com/klauspost/compress/s2 and LZ4 uses github.com/pierrec/lz4/v4 in
// block mode.
//
// # Thread Safety
//
// All codecs are safe for concurrent use.
//
// # Usage
//
//	compressed, stats, err := compress.CompressWithStats(format.CompressionZstd, text)
//	if err != nil {
//	    return err
//	}
//	logger.Debug("cache compressed",
//	    zap.Int64("original", stats.OriginalSize),
//	    zap.Float64("ratio", stats.CompressionRatio()),
//	)
package compress
