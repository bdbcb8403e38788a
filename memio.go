package lrzip

import "io"

// memWriter is a growable in-memory io.WriteSeeker, used by the byte-slice
// convenience wrappers Compress/Decompress that don't need a real file
// (the stream multiplexer's back-patching of next_head fields requires
// Seek, which bytes.Buffer does not provide).
type memWriter struct {
	buf []byte
	pos int64
}

func (m *memWriter) Write(p []byte) (int, error) {
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

func (m *memWriter) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	default:
		return 0, io.ErrUnexpectedEOF
	}
	if target < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	m.pos = target
	return target, nil
}

func (m *memWriter) Bytes() []byte { return m.buf }
