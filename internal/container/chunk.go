package container

import (
	"encoding/binary"
	"io"
)

// ChunkHeader is the fixed-layout prefix of one Chunk Record (spec.md §3).
type ChunkHeader struct {
	ChunkBytes byte // w, the width of every length/offset field in this chunk
	EOF        bool
	ChunkSize  int64
}

// WriteChunkHeader writes chunk_bytes, eof_flag, and the w-byte chunk_size.
func WriteChunkHeader(w io.Writer, h ChunkHeader) error {
	buf := make([]byte, 2+int(h.ChunkBytes))
	buf[0] = h.ChunkBytes
	if h.EOF {
		buf[1] = 1
	}
	if err := PutVChars(buf[2:], h.ChunkSize, h.ChunkBytes); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

// ReadChunkHeader reads a Chunk Record's fixed prefix.
func ReadChunkHeader(r io.Reader) (ChunkHeader, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return ChunkHeader{}, err
	}
	h := ChunkHeader{ChunkBytes: prefix[0], EOF: prefix[1] != 0}
	if h.ChunkBytes < 1 || h.ChunkBytes > 8 {
		return ChunkHeader{}, &FormatError{Msg: "invalid chunk_bytes width"}
	}
	szBuf := make([]byte, h.ChunkBytes)
	if _, err := io.ReadFull(r, szBuf); err != nil {
		return ChunkHeader{}, err
	}
	sz, err := GetVChars(szBuf, h.ChunkBytes)
	if err != nil {
		return ChunkHeader{}, err
	}
	h.ChunkSize = sz
	return h, nil
}

// BlockHeader is one stream's Block Record header (spec.md §3 "Block
// Record"). NextHead is the absolute file offset of the next Block
// Record for this stream, or 0 if this is the last.
type BlockHeader struct {
	Codec    Codec
	CLen     int64
	ULen     int64
	NextHead int64
}

// HeaderSize returns the on-disk size of a Block Record header for the
// given field width w.
func HeaderSize(w byte) int64 { return 1 + 3*int64(w) }

// WriteBlockHeader serializes h using width w.
func WriteBlockHeader(buf []byte, h BlockHeader, w byte) error {
	if int64(len(buf)) < HeaderSize(w) {
		return io.ErrShortBuffer
	}
	buf[0] = byte(h.Codec)
	off := 1
	if err := PutVChars(buf[off:], h.CLen, w); err != nil {
		return err
	}
	off += int(w)
	if err := PutVChars(buf[off:], h.ULen, w); err != nil {
		return err
	}
	off += int(w)
	return PutVChars(buf[off:], h.NextHead, w)
}

// ParseBlockHeader deserializes a Block Record header using width w.
func ParseBlockHeader(buf []byte, w byte) (BlockHeader, error) {
	if int64(len(buf)) < HeaderSize(w) {
		return BlockHeader{}, io.ErrUnexpectedEOF
	}
	h := BlockHeader{Codec: Codec(buf[0])}
	off := 1
	clen, err := GetVChars(buf[off:], w)
	if err != nil {
		return BlockHeader{}, err
	}
	h.CLen = clen
	off += int(w)
	ulen, err := GetVChars(buf[off:], w)
	if err != nil {
		return BlockHeader{}, err
	}
	h.ULen = ulen
	off += int(w)
	next, err := GetVChars(buf[off:], w)
	if err != nil {
		return BlockHeader{}, err
	}
	h.NextHead = next
	return h, nil
}

// PutUint32 / GetUint32 encode the CRC32/MD5-adjacent fixed 4-byte fields
// used inside the rzip record stream (spec.md §3).
func PutUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func GetUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
