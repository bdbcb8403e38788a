package lrzip

import (
	"encoding/binary"

	"github.com/lrzipgo/lrzip/internal/container"
	"github.com/lrzipgo/lrzip/internal/rzip"
	"github.com/lrzipgo/lrzip/internal/stream"
)

// muxSink adapts a stream.Writer into an rzip.Sink: stream-0 records
// (kind, length[, offset]) and stream-1 literal bytes, using the chunk's
// fixed field width w (spec.md §3 "Rzip record stream").
type muxSink struct {
	w     *stream.Writer
	width byte
	err   error
}

func newMuxSink(w *stream.Writer, width byte) *muxSink {
	return &muxSink{w: w, width: width}
}

func (s *muxSink) PutRecord(r rzip.Record) error {
	if s.err != nil {
		return s.err
	}
	buf := make([]byte, 1+int(s.width)*2)
	buf[0] = byte(r.Kind)
	if err := container.PutVChars(buf[1:1+int(s.width)], r.Length, s.width); err != nil {
		return s.fail(err)
	}
	n := 1 + int(s.width)
	if r.Kind == rzip.KindMatch {
		if err := container.PutVChars(buf[n:n+int(s.width)], r.Offset, s.width); err != nil {
			return s.fail(err)
		}
		n += int(s.width)
	}
	return s.fail(s.w.Write(stream.StreamControl, buf[:n]))
}

func (s *muxSink) PutLiteralBytes(b []byte) error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.w.Write(stream.StreamLiteral, b))
}

func (s *muxSink) PutSentinel() error {
	if s.err != nil {
		return s.err
	}
	buf := make([]byte, 1+int(s.width))
	buf[0] = byte(rzip.KindLiteral)
	return s.fail(s.w.Write(stream.StreamControl, buf))
}

// putCRC appends the rzip engine's running CRC32, little-endian, to stream
// 0 immediately after the sentinel (spec.md §3 "...followed by a 4-byte
// little-endian CRC32").
func (s *muxSink) putCRC(crc uint32) error {
	if s.err != nil {
		return s.err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], crc)
	return s.fail(s.w.Write(stream.StreamControl, buf[:]))
}

func (s *muxSink) fail(err error) error {
	if err != nil {
		s.err = err
	}
	return err
}

// muxSource is the decompression-side mirror of muxSink: it reads records
// back out of a stream.Reader's two chains and replays them against a
// reconstruction buffer (spec.md §2 "...drive the rzip replay").
type muxSource struct {
	r     *stream.Reader
	width byte
}

func newMuxSource(r *stream.Reader, width byte) *muxSource {
	return &muxSource{r: r, width: width}
}

// next reads one stream-0 record. A zero-length literal record with no
// following bytes signals the sentinel.
func (s *muxSource) next() (rzip.Record, bool, error) {
	var kindBuf [1]byte
	if _, err := s.r.Read(stream.StreamControl, kindBuf[:]); err != nil {
		return rzip.Record{}, false, err
	}
	lenBuf := make([]byte, s.width)
	if _, err := s.r.Read(stream.StreamControl, lenBuf); err != nil {
		return rzip.Record{}, false, err
	}
	length, err := container.GetVChars(lenBuf, s.width)
	if err != nil {
		return rzip.Record{}, false, err
	}
	rec := rzip.Record{Kind: rzip.Kind(kindBuf[0]), Length: length}
	if rec.Kind == rzip.KindLiteral && length == 0 {
		return rzip.Record{}, true, nil
	}
	if rec.Kind == rzip.KindMatch {
		offBuf := make([]byte, s.width)
		if _, err := s.r.Read(stream.StreamControl, offBuf); err != nil {
			return rzip.Record{}, false, err
		}
		off, err := container.GetVChars(offBuf, s.width)
		if err != nil {
			return rzip.Record{}, false, err
		}
		rec.Offset = off
	}
	return rec, false, nil
}

func (s *muxSource) readCRC() (uint32, error) {
	var buf [4]byte
	if _, err := s.r.Read(stream.StreamControl, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (s *muxSource) readLiteral(n int64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.r.Read(stream.StreamLiteral, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
