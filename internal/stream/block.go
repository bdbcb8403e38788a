package stream

import (
	"io"

	"github.com/lrzipgo/lrzip/internal/container"
)

// writeBack is called by the ring's single write-back goroutine, in
// strict submission order, for one completed compression job. It
// back-patches the previous Block Record's next_head, writes the new
// header + payload, and optionally encrypts the payload first (spec.md
// §4.2 "Flush protocol" steps c-e).
func (w *Writer) writeBack(s *writeStream, compressed []byte, ulen int64, used container.Codec) error {
	w.outMu.Lock()
	defer w.outMu.Unlock()

	payload := compressed
	if w.cipher != nil {
		enc, err := w.cipher.Encrypt(payload)
		if err != nil {
			return err
		}
		payload = enc
	}

	pos, err := w.out.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	if err := w.patchNextHead(s.lastHead, s.width, pos); err != nil {
		return err
	}

	hdr := make([]byte, container.HeaderSize(s.width))
	if err := container.WriteBlockHeader(hdr, container.BlockHeader{
		Codec:    used,
		CLen:     int64(len(payload)),
		ULen:     ulen,
		NextHead: 0,
	}, s.width); err != nil {
		return err
	}
	if _, err := w.out.Write(hdr); err != nil {
		return err
	}
	if _, err := w.out.Write(payload); err != nil {
		return err
	}
	// s.lastHead tracks the position of THIS record's next_head field,
	// ready for the next call to patch directly without recomputing.
	s.lastHead = pos + 1 + 2*int64(s.width)
	return nil
}

// patchNextHead seeks to a previously written Block Record's next_head
// field (lastHead already points at it) and overwrites it with newPos.
func (w *Writer) patchNextHead(lastHead int64, width byte, newPos int64) error {
	if _, err := w.out.Seek(lastHead, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, width)
	if err := container.PutVChars(buf, newPos, width); err != nil {
		return err
	}
	if _, err := w.out.Write(buf); err != nil {
		return err
	}
	_, err := w.out.Seek(0, io.SeekEnd)
	return err
}

// WritePlaceholders writes the initial zero Block Record for each stream
// at chunk start, establishing the fixed-offset chain heads described in
// spec.md §4.7 ("Stream 0/1 Block Records chain starts at offset...").
// Must be called once, immediately after NewWriter, before any Write call.
func (w *Writer) WritePlaceholders() error {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	for _, s := range w.streams {
		pos, err := w.out.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}
		hdr := make([]byte, container.HeaderSize(s.width))
		if err := container.WriteBlockHeader(hdr, container.BlockHeader{Codec: container.CodecNone}, s.width); err != nil {
			return err
		}
		if _, err := w.out.Write(hdr); err != nil {
			return err
		}
		s.lastHead = pos + 1 + 2*int64(s.width)
	}
	return nil
}
