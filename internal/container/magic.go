// Package container implements the on-disk archive format described in
// spec.md §3 and §4.7: the 24-byte magic header, per-chunk headers, and
// the chained per-stream Block Record lists.
package container

import (
	"encoding/binary"
	"errors"
	"io"
)

// MagicLen is the fixed size of the archive magic header.
const MagicLen = 24

// Codec identifies the back-end block codec applied to one Block Record.
type Codec byte

const (
	CodecNone Codec = iota
	CodecBzip2
	CodecLZO
	CodecLZMA
	CodecGzip
	CodecZPAQ
)

// Magic is the fixed 24-byte archive header (spec.md §3 "Archive").
type Magic struct {
	Major, Minor     byte
	UncompressedSize uint64 // valid when !Encrypted
	Salt             [8]byte
	LZMAProps        [5]byte
	HasMD5           bool
	Encrypted        bool
	// ZPAQLevel records which of the three built-in model configs
	// (spec.md §4.3) a ZPAQ-coded archive was built with, the same way
	// LZMAProps records LZMA's setup. Byte 14 is otherwise unused by
	// spec.md §3/§4.7, so it is repurposed here rather than widening the
	// fixed 24-byte header.
	ZPAQLevel byte
}

var magicTag = [4]byte{'L', 'R', 'Z', 'I'}

// Encode writes the magic header in the layout fixed by spec.md §3/§4.7.
func (m Magic) Encode() [MagicLen]byte {
	var buf [MagicLen]byte
	copy(buf[0:4], magicTag[:])
	buf[4] = m.Major
	buf[5] = m.Minor
	if m.Encrypted {
		copy(buf[6:14], m.Salt[:])
	} else {
		binary.LittleEndian.PutUint64(buf[6:14], m.UncompressedSize)
	}
	copy(buf[16:21], m.LZMAProps[:])
	buf[14] = m.ZPAQLevel
	if m.HasMD5 {
		buf[21] = 1
	}
	if m.Encrypted {
		buf[22] = 1
	}
	return buf
}

// DecodeMagic parses a 24-byte magic header.
func DecodeMagic(buf []byte) (Magic, error) {
	if len(buf) < MagicLen {
		return Magic{}, errors.New("lrzip: short magic header")
	}
	if string(buf[0:4]) != string(magicTag[:]) {
		return Magic{}, errors.New("lrzip: bad magic")
	}
	m := Magic{
		Major:     buf[4],
		Minor:     buf[5],
		HasMD5:    buf[21] != 0,
		Encrypted: buf[22] != 0,
		ZPAQLevel: buf[14],
	}
	copy(m.LZMAProps[:], buf[16:21])
	if m.Encrypted {
		copy(m.Salt[:], buf[6:14])
	} else {
		m.UncompressedSize = binary.LittleEndian.Uint64(buf[6:14])
	}
	return m, nil
}

// WriteMagic writes the encoded header to w.
func WriteMagic(w io.Writer, m Magic) error {
	b := m.Encode()
	_, err := w.Write(b[:])
	return err
}

// ReadMagic reads and parses the header from r.
func ReadMagic(r io.Reader) (Magic, error) {
	var buf [MagicLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Magic{}, err
	}
	return DecodeMagic(buf[:])
}
