// Package codec implements the back-end block codec dispatcher of
// spec.md §4.3: one interface over {none, LZO, deflate, bzip2, LZMA,
// context-mixing arithmetic}, with automatic fallback to "store" when a
// codec would expand its input.
package codec

import (
	"fmt"
	"sync"

	"github.com/lrzipgo/lrzip/internal/container"
)

// Dispatcher selects and drives one back-end codec per block. It is
// shared by every worker in the ring pipeline and therefore must be
// safe for concurrent Compress/Decompress calls; the only mutable state
// it carries — the captured LZMA properties and ZPAQ level — is guarded
// by a mutex. Compress records each only on first use; SetLZMAProps and
// SetZPAQLevel overwrite them for the decompression path.
type Dispatcher struct {
	mu        sync.Mutex
	lzmaProps [5]byte
	lzmaSet   bool
	zpaqLevel int
	zpaqSet   bool
}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Compress runs the requested codec at the given level over payload. If
// the codec's output is not shorter than the input, it falls back to
// "store" (spec.md §4.3's "If the codec produces output >= input
// length, return the input verbatim with codec tag none").
func (d *Dispatcher) Compress(c container.Codec, level int, payload []byte) ([]byte, container.Codec, error) {
	if len(payload) == 0 {
		return payload, container.CodecNone, nil
	}
	var out []byte
	var err error
	switch c {
	case container.CodecNone:
		return payload, container.CodecNone, nil
	case container.CodecGzip:
		out, err = deflateCompress(payload, level)
	case container.CodecBzip2:
		out, err = bzip2Compress(payload, level)
	case container.CodecLZMA:
		var props [5]byte
		out, props, err = lzmaCompress(payload, level)
		if err == nil {
			d.recordLZMAProps(props)
		}
	case container.CodecLZO:
		out, err = lzoCompress(payload, level)
	case container.CodecZPAQ:
		out, err = zpaqCompress(payload, level)
		if err == nil {
			d.recordZPAQLevel(level)
		}
	default:
		return nil, 0, fmt.Errorf("lrzip: unknown codec %d", c)
	}
	if err != nil {
		// A codec failure degrades to store rather than aborting the
		// whole block, matching spec.md §4.3's expansion fallback.
		return payload, container.CodecNone, nil
	}
	if len(out) >= len(payload) {
		return payload, container.CodecNone, nil
	}
	return out, c, nil
}

// Decompress inverts Compress for one block. ulen is the declared
// pre-codec length, used to preallocate and as LZO's expected output
// size.
func (d *Dispatcher) Decompress(c container.Codec, ulen int64, payload []byte) ([]byte, error) {
	switch c {
	case container.CodecNone:
		return payload, nil
	case container.CodecGzip:
		return deflateDecompress(payload, ulen)
	case container.CodecBzip2:
		return bzip2Decompress(payload, ulen)
	case container.CodecLZMA:
		return lzmaDecompress(payload, ulen, d.LZMAProps())
	case container.CodecLZO:
		return lzoDecompress(payload, ulen)
	case container.CodecZPAQ:
		return zpaqDecompress(payload, ulen, d.ZPAQLevel())
	default:
		return nil, fmt.Errorf("lrzip: unknown codec %d", c)
	}
}

func (d *Dispatcher) recordLZMAProps(p [5]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.lzmaSet {
		d.lzmaProps = p
		d.lzmaSet = true
	}
}

// LZMAProps returns the properties captured from the first LZMA block
// compressed by this dispatcher; subsequent blocks are required to use
// the same properties (spec.md §4.3).
func (d *Dispatcher) LZMAProps() [5]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lzmaProps
}

// SetLZMAProps installs properties read back from an archive's magic
// header, for the decompression path.
func (d *Dispatcher) SetLZMAProps(p [5]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lzmaProps = p
	d.lzmaSet = true
}

func (d *Dispatcher) recordZPAQLevel(level int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.zpaqSet {
		d.zpaqLevel = level
		d.zpaqSet = true
	}
}

// ZPAQLevel returns the compression level captured from the first ZPAQ
// block compressed by this dispatcher, selecting which built-in model
// config later blocks must decode with.
func (d *Dispatcher) ZPAQLevel() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.zpaqLevel
}

// SetZPAQLevel installs the level read back from an archive header, for
// the decompression path.
func (d *Dispatcher) SetZPAQLevel(level int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.zpaqLevel = level
	d.zpaqSet = true
}

// Compress is a package-level convenience wrapping a throwaway
// Dispatcher, used where no LZMA-properties continuity is required
// (e.g. a single-block probe).
func Compress(c container.Codec, level int, payload []byte) ([]byte, container.Codec, error) {
	return NewDispatcher().Compress(c, level, payload)
}
