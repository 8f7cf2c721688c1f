package compress

// ZstdCompressor provides Zstandard compression. The implementation is
// chosen at build time: klauspost/compress by default, valyala/gozstd when
// built with cgo and the gozstd tag. Both produce standard zstd frames, so
// files written by one build are readable by the other.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
