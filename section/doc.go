// Package section defines the framing shared by every s3 file mixtree reads or
// writes: the text header and the byte-order marker.
//
// # Header Format
//
// An s3 header is plain text:
//
//	s3
//	version 0.4
//	n_sen 4096
//	n_feat 4
//	n_mixw 256
//	n_density 256
//	logbase 1.0001
//	   endhdr
//
// The spaces before "endhdr" pad the header so that its total length,
// including "endhdr\n", is a multiple of 4. At least one space is always
// written. Readers only require that the last header line ends with "endhdr".
//
// # Byte Order
//
// The header is followed by a 4-byte marker holding 0x11223344 in the byte
// order of the producer. ParseByteOrder inspects it and returns the matching
// endian.EndianEngine for the rest of the payload.
//
// # Tree Records
//
// Tree payloads are sequences of records:
//
//	Bytes          | Field               | Type
//	---------------|---------------------|------------------
//	0-3            | left, right         | int16[2]
//	4-7            | start word, count   | int16[2]
//	8-...          | membership bitmap   | int32[count]
//	...            | quantized centroid  | uint8[n_feat*n_density]
//
// A record with a zero word count is the sentinel ending a tree and carries
// neither bitmap nor centroid bytes.
package section
