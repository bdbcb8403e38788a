package lrzip

import "fmt"

// IOError wraps a read/write/seek failure with the offending operation
// (spec.md §7 "I/O error"). No caller in this package fills in Offset, so
// the message reports offset 0.
type IOError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("lrzip: io error during %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// CodecError reports a back-end codec rejecting a block on decompression
// (spec.md §7 "Codec error"). DecompressFrom returns it only when the
// KeepBroken option is set, after writing the failing chunk's partial
// bytes; decompression stops either way.
type CodecError struct {
	Codec string
	Err   error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("lrzip: codec error (%s): %v", e.Codec, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// CryptoError reports a missing password callback, AES key-setup failure,
// or a mismatched tag (spec.md §7 "Crypto error").
type CryptoError string

func (e CryptoError) Error() string { return "lrzip: crypto error: " + string(e) }

// ResourceError is the error kind for an allocation failure (spec.md §7
// "Resource error"). No function in this package returns it, and no
// allocation is retried with a smaller size.
type ResourceError string

func (e ResourceError) Error() string { return "lrzip: resource error: " + string(e) }
