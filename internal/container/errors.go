package container

import "fmt"

// FormatError reports a malformed archive structure (spec.md §7, "Format
// error"): bad magic, invalid chunk_bytes, a bad chunk or block header,
// an unknown record kind, or a missing MD5 trailer. Checksum mismatches
// are reported as InvariantError.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return fmt.Sprintf("lrzip: format error: %s", e.Msg) }

// InvariantError reports a violated core invariant (spec.md §7,
// "Invariant violation"): a match reaching before the stream start, a
// spurious zero-length literal, or a CRC32 mismatch at chunk end.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return fmt.Sprintf("lrzip: invariant violated: %s", e.Msg) }
