package zpaq

import "github.com/lrzipgo/lrzip/internal/arith"

// Compress arithmetic-codes payload bit by bit against cfg's predictor,
// per spec.md §4.5's per-bit "predict, code, update" loop.
func Compress(cfg ModelConfig, payload []byte) []byte {
	pr := NewPredictor(cfg)
	enc := arith.NewEncoder()
	for _, b := range payload {
		for bit := 7; bit >= 0; bit-- {
			want := int((b >> uint(bit)) & 1)
			p := uint32(pr.Predict()) << 4 // 12-bit -> 16-bit probability
			if p > 0xFFFF {
				p = 0xFFFF
			}
			enc.EncodeBit(want, p)
			pr.Update(want)
		}
	}
	return enc.Finish()
}

// Decompress inverts Compress, given the exact uncompressed length.
func Decompress(cfg ModelConfig, payload []byte, ulen int64) []byte {
	pr := NewPredictor(cfg)
	dec := arith.NewDecoder(payload)
	out := make([]byte, 0, ulen)
	for int64(len(out)) < ulen {
		var b byte
		for bit := 7; bit >= 0; bit-- {
			p := uint32(pr.Predict()) << 4
			if p > 0xFFFF {
				p = 0xFFFF
			}
			got := dec.DecodeBit(p)
			pr.Update(got)
			b = b<<1 | byte(got)
		}
		out = append(out, b)
	}
	return out
}
