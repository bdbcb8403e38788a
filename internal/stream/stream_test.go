package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/lrzipgo/lrzip/internal/container"
)

// memSeeker is a minimal growable io.ReadWriteSeeker, standing in for the
// root package's memWriter so this package's tests need no outside
// dependency.
type memSeeker struct {
	buf []byte
	pos int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memSeeker) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	}
	m.pos = target
	return target, nil
}

func TestWriterReaderRoundTrip(t *testing.T) {
	mem := &memSeeker{}
	width := byte(4)

	w := NewWriter(mem, width, 64, 4, 6, container.CodecLZMA, nil, nil)
	if err := w.WritePlaceholders(); err != nil {
		t.Fatal(err)
	}
	head0 := w.streams[StreamControl].lastHead
	head1 := w.streams[StreamLiteral].lastHead

	control := bytes.Repeat([]byte("control-record-bytes-"), 30)
	literal := bytes.Repeat([]byte("literal-payload-bytes-"), 50)

	if err := w.Write(StreamControl, control); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(StreamLiteral, literal); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}
	if err := w.Wait(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(mem, width, head0, head1, nil, nil)
	gotControl := make([]byte, len(control))
	if _, err := io.ReadFull(readerAt(r, StreamControl), gotControl); err != nil {
		t.Fatalf("read control: %v", err)
	}
	if !bytes.Equal(gotControl, control) {
		t.Fatal("control stream mismatch")
	}

	gotLiteral := make([]byte, len(literal))
	if _, err := io.ReadFull(readerAt(r, StreamLiteral), gotLiteral); err != nil {
		t.Fatalf("read literal: %v", err)
	}
	if !bytes.Equal(gotLiteral, literal) {
		t.Fatal("literal stream mismatch")
	}
}

// readerAt adapts Reader.Read(id, p) to an io.Reader for use with
// io.ReadFull in the test above.
func readerAt(r *Reader, id StreamID) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		return r.Read(id, p)
	})
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

func TestChainEndForcesFillOnUnreadStream(t *testing.T) {
	mem := &memSeeker{}
	width := byte(2)

	w := NewWriter(mem, width, 64, 2, 6, container.CodecLZMA, nil, nil)
	if err := w.WritePlaceholders(); err != nil {
		t.Fatal(err)
	}
	head0 := w.streams[StreamControl].lastHead
	head1 := w.streams[StreamLiteral].lastHead

	// Only the control stream gets data; the literal stream stays at its
	// placeholder record for the whole chunk (e.g. an all-match chunk).
	if err := w.Write(StreamControl, []byte("headers-only")); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}
	if err := w.Wait(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(mem, width, head0, head1, nil, nil)
	end0 := r.ChainEnd(StreamControl)
	end1 := r.ChainEnd(StreamLiteral)
	if end1 == 0 {
		t.Fatal("ChainEnd did not force a fill on the never-read literal stream")
	}
	if end1 <= head1 {
		t.Fatalf("literal chain end %d should be past its placeholder head %d", end1, head1)
	}
	_ = end0
}
