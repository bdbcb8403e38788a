package stream

import (
	"io"

	"github.com/lrzipgo/lrzip/internal/codec"
	"github.com/lrzipgo/lrzip/internal/container"
	"github.com/lrzipgo/lrzip/internal/cryptutil"
)

// Reader follows one chunk's two Block Record chains, decompressing each
// block on demand (spec.md §4.2 "Fill protocol"). Unlike the write side,
// reading is inherently sequential — each stream's chain must be walked
// in order — so no worker ring is needed here.
type Reader struct {
	in     io.ReadSeeker
	cipher *cryptutil.BlockCipher
	disp   *codec.Dispatcher

	streams [2]*readStream
}

type readStream struct {
	width    byte
	nextHead int64 // file offset of the next Block Record header, 0 = exhausted
	cur      []byte
	pos      int
	chainEnd int64 // file offset just past the last block fetched so far
	started  bool  // whether fill has loaded at least the first (placeholder) block
}

// NewReader creates a decompressing reader for one chunk. head0/head1
// are the file offsets of each stream's placeholder next_head field (the
// Writer's lastHead right after WritePlaceholders), always at a fixed,
// known position relative to the chunk header. Every later hop follows
// a stored next_head value, which is the start offset of the next record.
func NewReader(in io.ReadSeeker, width byte, head0, head1 int64, cipher *cryptutil.BlockCipher, d *codec.Dispatcher) *Reader {
	if d == nil {
		d = codec.NewDispatcher()
	}
	back := 1 + 2*int64(width) // from a next_head field back to its record start
	return &Reader{
		in:     in,
		cipher: cipher,
		disp:   d,
		streams: [2]*readStream{
			{width: width, nextHead: head0 - back},
			{width: width, nextHead: head1 - back},
		},
	}
}

// ChainEnd returns the file offset just past the payload of the last
// Block Record fetched so far for the given stream, used by the caller to
// locate the next Chunk Record once a chunk's record stream has been
// fully replayed. If the stream was never read (e.g. a chunk with no
// literal bytes), it forces one fill to account for the placeholder
// Block Record's on-disk footprint, which still occupies file space even
// carrying zero payload.
func (r *Reader) ChainEnd(id StreamID) int64 {
	s := r.streams[id]
	if !s.started {
		r.fill(s) // best effort: a real error surfaces on the next explicit Read
	}
	return s.chainEnd
}

// Read returns the next n decompressed bytes from the given stream,
// following its Block Record chain as needed. It returns io.EOF once the
// chain is exhausted with no more buffered bytes.
func (r *Reader) Read(id StreamID, p []byte) (int, error) {
	s := r.streams[id]
	total := 0
	for total < len(p) {
		if s.pos >= len(s.cur) {
			if err := r.fill(s); err != nil {
				if err == io.EOF && total > 0 {
					return total, nil
				}
				return total, err
			}
		}
		n := copy(p[total:], s.cur[s.pos:])
		s.pos += n
		total += n
	}
	return total, nil
}

// fill loads the next Block Record of s's chain into s.cur.
func (r *Reader) fill(s *readStream) error {
	if s.nextHead == 0 {
		return io.EOF
	}
	s.started = true
	if _, err := r.in.Seek(s.nextHead, io.SeekStart); err != nil {
		return err
	}
	hdr := make([]byte, container.HeaderSize(s.width))
	if _, err := io.ReadFull(r.in, hdr); err != nil {
		return err
	}
	bh, err := container.ParseBlockHeader(hdr, s.width)
	if err != nil {
		return err
	}
	payload := make([]byte, bh.CLen)
	if bh.CLen > 0 {
		if _, err := io.ReadFull(r.in, payload); err != nil {
			return err
		}
	}
	s.chainEnd = s.nextHead + container.HeaderSize(s.width) + bh.CLen
	if r.cipher != nil && bh.CLen > 0 {
		payload, err = r.cipher.Decrypt(payload)
		if err != nil {
			return err
		}
	}
	data, err := r.disp.Decompress(bh.Codec, bh.ULen, payload)
	if err != nil {
		return err
	}
	s.cur = data
	s.pos = 0
	s.nextHead = bh.NextHead
	if bh.NextHead == 0 && len(data) == 0 {
		return io.EOF
	}
	return nil
}
