package lrzip

import (
	"io"

	"github.com/lrzipgo/lrzip/internal/container"
)

// BlockInfo describes one on-disk Block Record, as reported by Info
// without decompressing its payload (spec.md §4.7's "info" mode,
// restored per SPEC_FULL.md from `lrzip.c`'s `-i`).
type BlockInfo struct {
	Stream int
	Codec  container.Codec
	CLen   int64
	ULen   int64
}

// ChunkInfo describes one Chunk Record's header and both of its Block
// Record chains.
type ChunkInfo struct {
	Index  int
	Width  byte
	EOF    bool
	Size   int64
	Blocks [2][]BlockInfo
}

// ArchiveInfo is the full result of Info: the magic header fields plus
// one ChunkInfo per chunk.
type ArchiveInfo struct {
	Major, Minor     byte
	Encrypted        bool
	HasMD5           bool
	UncompressedSize uint64
	Chunks           []ChunkInfo
}

// Info walks an archive's structure (magic, chunk headers, and every
// Block Record's codec/size fields) without performing any decompression,
// the read-only counterpart to DecompressFrom.
func Info(in io.ReadSeeker) (ArchiveInfo, error) {
	magic, err := container.ReadMagic(in)
	if err != nil {
		return ArchiveInfo{}, &container.FormatError{Msg: "bad or truncated magic header: " + err.Error()}
	}
	info := ArchiveInfo{
		Major:            magic.Major,
		Minor:            magic.Minor,
		Encrypted:        magic.Encrypted,
		HasMD5:           magic.HasMD5,
		UncompressedSize: magic.UncompressedSize,
	}

	idx := 0
	for {
		h, err := container.ReadChunkHeader(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return info, &container.FormatError{Msg: "bad chunk header: " + err.Error()}
		}
		bodyStart, err := in.Seek(0, io.SeekCurrent)
		if err != nil {
			return info, &IOError{Op: "seek", Err: err}
		}
		width := h.ChunkBytes
		headerSize := container.HeaderSize(width)
		head0 := bodyStart + 1 + 2*int64(width)
		head1 := bodyStart + headerSize + 1 + 2*int64(width)

		ci := ChunkInfo{Index: idx, Width: width, EOF: h.EOF, Size: h.ChunkSize}
		for streamIdx, head := range [2]int64{head0, head1} {
			blocks, end, err := walkChain(in, width, head)
			if err != nil {
				return info, err
			}
			for i := range blocks {
				blocks[i].Stream = streamIdx
			}
			ci.Blocks[streamIdx] = blocks
			if streamIdx == 0 {
				bodyStart = end
			} else if end > bodyStart {
				bodyStart = end
			}
		}
		info.Chunks = append(info.Chunks, ci)
		idx++

		if _, err := in.Seek(bodyStart, io.SeekStart); err != nil {
			return info, &IOError{Op: "seek", Err: err}
		}
		if h.EOF {
			break
		}
	}
	return info, nil
}

// walkChain reads every Block Record header in one stream's chain,
// starting from head (the offset of the placeholder's next_head field;
// every stored next_head value after it is the start offset of the
// following record), skipping over payload bytes without decompressing
// them.
func walkChain(in io.ReadSeeker, width byte, head int64) ([]BlockInfo, int64, error) {
	var blocks []BlockInfo
	var end int64
	recordStart := head - 1 - 2*int64(width)
	for head != 0 {
		if _, err := in.Seek(recordStart, io.SeekStart); err != nil {
			return blocks, 0, &IOError{Op: "seek", Err: err}
		}
		hdr := make([]byte, container.HeaderSize(width))
		if _, err := io.ReadFull(in, hdr); err != nil {
			return blocks, 0, &IOError{Op: "read block header", Err: err}
		}
		bh, err := container.ParseBlockHeader(hdr, width)
		if err != nil {
			return blocks, 0, &container.FormatError{Msg: "bad block header: " + err.Error()}
		}
		blocks = append(blocks, BlockInfo{Codec: bh.Codec, CLen: bh.CLen, ULen: bh.ULen})
		end = recordStart + container.HeaderSize(width) + bh.CLen
		if bh.NextHead == 0 {
			break
		}
		head = bh.NextHead
		recordStart = head
	}
	return blocks, end, nil
}
