package bzip2x

import (
	"bytes"
	"io"
)

var (
	// FileMagic is the bzip2 stream magic number ("BZ").
	FileMagic = []byte{0x42, 0x5a}
	// BlockMagic marks the start of a bzip2 data block.
	BlockMagic = [6]byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	// EOSMagic marks the end of a bzip2 stream.
	EOSMagic = [6]byte{0x17, 0x72, 0x45, 0x38, 0x50, 0x90}
)

// BlockReader reads a single bzip2 data block out of src, starting at
// bit offset start, given the stream's block size in bytes. It exists
// for tooling that inspects or re-splits a bzip2 stream below the
// whole-file level, without the file header/trailer.
type BlockReader struct {
	underlying *reader
	first      bool
	start      uint
	err        error
}

// NewBlockReader returns an io.Reader over a single already-located block.
func NewBlockReader(blockSize int, src []byte, start int) io.Reader {
	if len(src) == 0 {
		return &BlockReader{err: io.EOF}
	}
	bz2 := new(reader)
	bz2.fileCRC = 0
	bz2.setupDone = true
	bz2.blockSize = blockSize
	bz2.tt = make([]uint32, bz2.blockSize)
	bz2.br = newBitReader(bytes.NewBuffer(src))
	return &BlockReader{underlying: bz2, first: true, start: uint(start)}
}

func (br *BlockReader) Read(buf []byte) (n int, err error) {
	if br.err != nil {
		return 0, br.err
	}
	if br.first {
		br.underlying.br.ReadBits(br.start)
		if err := br.underlying.readBlock(); err != nil {
			return 0, err
		}
		br.first = false
	}
	n = br.underlying.readFromBlock(buf)
	if n > 0 || len(buf) == 0 {
		br.underlying.blockCRC.update(buf[:n])
		return n, nil
	}
	if br.underlying.blockCRC.val != br.underlying.wantBlockCRC {
		return 0, StructuralError("block checksum mismatch")
	}
	return n, io.EOF
}
