package bzip2x

// moveToFrontDecoder implements a move-to-front list: symbols are
// referenced by index into the list, and each referenced symbol is moved
// to the front. Repeated symbols collapse to small indices, which is why
// bzip2 runs one as a preprocessing step ahead of its Huffman stage.
type moveToFrontDecoder struct {
	list   [256]byte
	length int
}

// newMTFDecoder seeds the list from an explicit symbol set (the reduced
// alphabet read from the block's two-level symbol bitmap).
func newMTFDecoder(symbols []byte) *moveToFrontDecoder {
	if len(symbols) > 256 {
		panic("lrzip: bzip2x: too many symbols")
	}
	var m moveToFrontDecoder
	copy(m.list[:], symbols)
	m.length = len(symbols)
	return &m
}

// newMTFDecoderWithRange seeds the list with 0..max-1 in order, used for
// the tree-selector alphabet.
func newMTFDecoderWithRange(max int) *moveToFrontDecoder {
	if max > 256 {
		panic("lrzip: bzip2x: too many symbols")
	}
	var m moveToFrontDecoder
	for i := 0; i < max; i++ {
		m.list[i] = byte(i)
	}
	m.length = max
	return &m
}

// First returns the symbol currently at the front of the list.
func (m *moveToFrontDecoder) First() byte {
	return m.list[0]
}

// Decode returns the symbol at index n and moves it to the front.
func (m *moveToFrontDecoder) Decode(n int) (b byte) {
	b = m.list[n]
	copy(m.list[1:], m.list[:n])
	m.list[0] = b
	return
}
