package codec

import (
	"bytes"
	"io"

	dsbzip2 "github.com/dsnet/compress/bzip2"

	"github.com/lrzipgo/lrzip/internal/bzip2x"
)

// bzip2Compress encodes with dsnet/compress's bzip2 writer. Levels 1..9
// map directly onto dsnet's block-size-in-100KB-units knob.
func bzip2Compress(payload []byte, level int) ([]byte, error) {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	var buf bytes.Buffer
	zw, err := dsbzip2.NewWriter(&buf, &dsbzip2.WriterConfig{Level: level})
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

// bzip2Decompress reuses the hand-adapted decoder in internal/bzip2x,
// itself adapted from the teacher's own internal/bzip2 reader, rather
// than dsnet's reader — keeping a from-scratch decode path exercised and
// testable independent of the third-party encoder.
func bzip2Decompress(payload []byte, ulen int64) ([]byte, error) {
	r := bzip2x.NewReader(bytes.NewReader(payload))
	out := make([]byte, 0, ulen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
