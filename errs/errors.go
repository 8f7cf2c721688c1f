// Package errs defines the sentinel errors shared by all mixtree packages.
//
// Callers match on these with errors.Is; packages wrap them with fmt.Errorf("%w: ...")
// to attach the offending values.
package errs

import (
	"errors"
	"fmt"
)

// Table and shape errors.
var (
	ErrEmptyTable       = errors.New("distribution table is empty")
	ErrShapeMismatch    = errors.New("distribution shape mismatch")
	ErrInvalidDimension = errors.New("invalid table dimension")
	ErrItemOutOfRange   = errors.New("item index out of range")
)

// Clustering and pruning errors.
var (
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	ErrInvalidWorkerCount  = errors.New("invalid worker count")
	ErrNilTree             = errors.New("tree is nil")
	ErrUnknownMetric       = errors.New("unknown divergence metric")
)

// Codec errors.
var (
	ErrEmptyBitmap      = errors.New("bitmap member set is empty")
	ErrNegativeMember   = errors.New("bitmap member is negative")
	ErrInvalidLogBase   = errors.New("log base must be greater than 1")
	ErrInvalidFloor     = errors.New("floor must be within (0, 1)")
	ErrOffsetOutOfRange = errors.New("value does not fit the record field")
)

// Format errors.
var (
	ErrInvalidHeader       = errors.New("invalid s3 header")
	ErrMissingHeaderField  = errors.New("missing header field")
	ErrInvalidByteOrder    = errors.New("invalid byte order marker")
	ErrUnexpectedEOF       = errors.New("unexpected end of data")
	ErrCorruptTree         = errors.New("corrupt tree record")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrUnsupportedVersion  = errors.New("unsupported format version")
	ErrInvalidCompression  = errors.New("invalid compression type")
	ErrHeaderCountMismatch = errors.New("header counts are inconsistent with payload")
)

// FormatError describes a decoding failure at a specific byte offset.
//
// It unwraps to the sentinel passed as Err so callers can keep using errors.Is.
type FormatError struct {
	Err      error
	Offset   int
	Expected string
	Found    string
}

func (e *FormatError) Error() string {
	if e.Expected == "" && e.Found == "" {
		return fmt.Sprintf("%v at byte offset %d", e.Err, e.Offset)
	}

	return fmt.Sprintf("%v at byte offset %d: expected %s, found %s", e.Err, e.Offset, e.Expected, e.Found)
}

func (e *FormatError) Unwrap() error { return e.Err }

// NewFormatError builds a FormatError for the given sentinel and offset.
func NewFormatError(err error, offset int, expected, found string) *FormatError {
	return &FormatError{Err: err, Offset: offset, Expected: expected, Found: found}
}
