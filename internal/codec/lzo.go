package codec

import "github.com/woozymasta/lzo"

// lzoCompress/-Decompress back the "LZO" codec tag. lrzip historically
// uses LZO1X-999 for its probe-then-store fast path (spec.md §4.2's "LZO
// probe"); woozymasta/lzo exposes the equivalent 1X-999 compressor.
func lzoCompress(payload []byte, level int) ([]byte, error) {
	return lzo.Compress1X999(payload)
}

func lzoDecompress(payload []byte, ulen int64) ([]byte, error) {
	return lzo.Decompress1X(payload, int(ulen))
}
