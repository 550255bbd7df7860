package compress

// ZstdCompressor provides Zstandard compression.
//
// The combined-series cache compresses best with zstd; use it when the cache
// is archived next to the model and read rarely.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
