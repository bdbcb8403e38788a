package codec

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaDictSizeForLevel mirrors the reference implementation's level to
// dictionary-size table (original_source/util.c): levels 1..5 give
// 1<<(2*level+14) bytes (64KB at level 1 up to 16MB at level 5), level 6
// fixes 32MB, levels 7-9 fix 64MB.
func lzmaDictSizeForLevel(level int) uint32 {
	switch {
	case level <= 0:
		level = 1
	case level > 9:
		level = 9
	}
	if level <= 5 {
		return 1 << uint(level*2+14)
	}
	if level == 6 {
		return 1 << 25
	}
	return 1 << 26
}

// encodeLZMAProps encodes the classic 5-byte LZMA properties vector: 1 byte of
// (pb*5+lp)*9+lc followed by the 4-byte little-endian dictionary size.
func encodeLZMAProps(lc, lp, pb int, dictSize uint32) [5]byte {
	var p [5]byte
	p[0] = byte((pb*5+lp)*9 + lc)
	p[1] = byte(dictSize)
	p[2] = byte(dictSize >> 8)
	p[3] = byte(dictSize >> 16)
	p[4] = byte(dictSize >> 24)
	return p
}

func lzmaCompress(payload []byte, level int) ([]byte, [5]byte, error) {
	dictSize := lzmaDictSizeForLevel(level)
	cfg := lzma.WriterConfig{DictCap: int(dictSize)}
	var buf bytes.Buffer
	zw, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, [5]byte{}, err
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, [5]byte{}, err
	}
	if err := zw.Close(); err != nil {
		return nil, [5]byte{}, err
	}
	props := encodeLZMAProps(3, 0, 2, dictSize) // lc=3, lp=0, pb=2: library defaults
	return buf.Bytes(), props, nil
}

func lzmaDecompress(payload []byte, ulen int64, props [5]byte) ([]byte, error) {
	dictCap := int(props[1]) | int(props[2])<<8 | int(props[3])<<16 | int(props[4])<<24
	cfg := lzma.ReaderConfig{DictCap: dictCap}
	zr, err := cfg.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, ulen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
