package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateCompress/-Decompress back the "gzip" codec tag with
// klauspost/compress's drop-in, faster flate implementation — the
// library both falk-nsz-go and arloliu-mebo depend on in the retrieved
// pack.
func deflateCompress(payload []byte, level int) ([]byte, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.DefaultCompression
	}
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deflateDecompress(payload []byte, ulen int64) ([]byte, error) {
	zr := flate.NewReader(bytes.NewReader(payload))
	defer zr.Close()
	out := make([]byte, 0, ulen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
