package codec

import "github.com/lrzipgo/lrzip/internal/zpaq"

// zpaqCompress/-Decompress back the "ZPAQ" codec tag with one of three
// built-in context-mixing profiles selected by lrzip compression level
// (spec.md §4.5, SPEC_FULL.md's zpaq supplement).
func zpaqCompress(payload []byte, level int) ([]byte, error) {
	cfg := zpaq.ForLevel(level)
	return zpaq.Compress(cfg, payload), nil
}

func zpaqDecompress(payload []byte, ulen int64, level int) ([]byte, error) {
	cfg := zpaq.ForLevel(level)
	return zpaq.Decompress(cfg, payload, ulen), nil
}
