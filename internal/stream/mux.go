// Package stream implements the dual-stream multiplexer and threaded
// block pipeline described in spec.md §4.2: two logical byte streams
// (control/stream 0, literal/stream 1) interleaved at the Block Record
// level in one output file, compressed by a fixed-size ring of worker
// goroutines that write back in strict ring order.
package stream

import (
	"io"
	"sync"

	"github.com/lrzipgo/lrzip/internal/codec"
	"github.com/lrzipgo/lrzip/internal/container"
	"github.com/lrzipgo/lrzip/internal/cryptutil"
)

// StreamID selects the control stream (headers) or the literal stream
// (literal bytes + checksums), matching spec.md's "Stream 0 / Stream 1".
type StreamID int

const (
	StreamControl StreamID = 0
	StreamLiteral StreamID = 1
)

// Writer owns the pair of byte buffers and the worker ring for the
// compression side of the multiplexer (spec.md §4.2 "Flush protocol").
type Writer struct {
	out        io.WriteSeeker
	outMu      sync.Mutex
	bufSz      int
	level      int
	codec      container.Codec
	cipher     *cryptutil.BlockCipher // nil when encryption is disabled
	dispatcher *codec.Dispatcher

	streams [2]*writeStream
	ring    *ring
}

type writeStream struct {
	id       StreamID
	buf      []byte
	width    byte
	lastHead int64 // file offset of the last-written record's next_head field
}

// NewWriter creates a multiplexer writing into out. bufSize is the
// per-stream buffer size at which buffered bytes become one block;
// threadCount is the ring depth.
func NewWriter(out io.WriteSeeker, width byte, bufSize, threadCount, level int, c container.Codec, cipher *cryptutil.BlockCipher, d *codec.Dispatcher) *Writer {
	if threadCount < 1 {
		threadCount = 1
	}
	if d == nil {
		d = codec.NewDispatcher()
	}
	w := &Writer{
		out:        out,
		bufSz:      bufSize,
		level:      level,
		codec:      c,
		cipher:     cipher,
		dispatcher: d,
	}
	for i := range w.streams {
		w.streams[i] = &writeStream{id: StreamID(i), width: width, buf: make([]byte, 0, bufSize)}
	}
	w.ring = newRing(threadCount, d, w.writeBack)
	return w
}

// Dispatcher returns the codec dispatcher this writer uses, so the
// caller can read back captured LZMA properties for the magic header
// once compression is done.
func (w *Writer) Dispatcher() *codec.Dispatcher { return w.dispatcher }

// Write appends p to the named stream's buffer, flushing through the
// worker ring whenever the buffer fills.
func (w *Writer) Write(id StreamID, p []byte) error {
	s := w.streams[id]
	for len(p) > 0 {
		room := cap(s.buf) - len(s.buf)
		n := len(p)
		if n > room {
			n = room
		}
		s.buf = append(s.buf, p[:n]...)
		p = p[n:]
		if len(s.buf) == cap(s.buf) {
			if err := w.flush(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush forces out any buffered bytes on the given stream, even a
// partial buffer — used at chunk end.
func (w *Writer) Flush(id StreamID) error {
	if len(w.streams[id].buf) == 0 {
		return nil
	}
	return w.flush(id)
}

// FlushAll flushes both streams.
func (w *Writer) FlushAll() error {
	if err := w.Flush(StreamControl); err != nil {
		return err
	}
	return w.Flush(StreamLiteral)
}

func (w *Writer) flush(id StreamID) error {
	s := w.streams[id]
	payload := s.buf
	s.buf = make([]byte, 0, w.bufSz)
	return w.ring.submit(job{stream: s, payload: payload, level: w.level, codec: w.codec})
}

// Wait drains the ring, returning the first error encountered by any
// worker (if any). It must be called exactly once, after all data has
// been submitted.
func (w *Writer) Wait() error {
	return w.ring.finish()
}

