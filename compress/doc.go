// Package compress provides the optional compression envelope for mixtree
// blobs.
//
// A blob is always built uncompressed first. When an encoder is configured
// with a compression type other than format.CompressionNone, everything
// after the byte-order marker is passed through the matching Codec and the
// header gains a "compression <name>" line so readers know how to undo it.
// Uncompressed blobs carry no such line and keep the plain s3 layout.
//
// Supported algorithms:
//
//   - None: identity, the default
//   - Zstd: best ratio; pure Go by default, cgo gozstd with -tags gozstd
//   - S2: fast, moderate ratio
//   - LZ4: fastest decompression
//
// Quantized centroid rows are highly repetitive for large clusters, so Zstd
// usually shrinks tree files severalfold.
package compress
