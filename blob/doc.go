// Package blob encodes merge trees and cluster maps into s3 binary blobs and
// decodes them back.
//
// Every blob starts with an s3 text header padded to a 4-byte boundary and a
// 4-byte byte-order marker (0x11223344). Three bodies follow the marker:
//
// # Trees (version 0.1)
//
// One or more single-feature trees, each a breadth-first run of records
// closed by a sentinel. A record is
//
//	int16 left, right     forward record offsets of the children, -1 for leaves
//	int16 start, count    first bitmap word and number of words
//	int32 words[count]    items below the node, see package bitmap
//	uint8 codes[n_density] quantized centroid, see package quant
//
// and the sentinel is (-1, -1, 0, 0) with nothing after it. The header holds
// n_mixw (the item count sizing the bitmaps), n_density, logbase and, when
// more than one tree is stored, n_feat.
//
// # Merged (version 0.1)
//
// One multi-feature tree laid out like the trees body, except that each
// record carries n_feat quantized rows back to back.
//
// # Pruned (version 0.4)
//
// A flat cluster map: uint16 cluster index per item (n_sen entries) and then,
// per feature, an n_density by n_mixw code matrix so that each density row
// is indexed by cluster.
//
// # Compression
//
// WithCompression passes the body through a compress codec and adds a
// "compression" header line. Blobs written without it keep the plain layout
// byte for byte.
//
// Decoders take the whole blob as a byte slice, detect the byte order from
// the marker and report corruption as errs.FormatError values carrying the
// byte offset of the offending record.
package blob
