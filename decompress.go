package lrzip

import (
	"bytes"
	"crypto/md5"
	"hash/crc32"
	"io"

	"github.com/lrzipgo/lrzip/internal/codec"
	"github.com/lrzipgo/lrzip/internal/container"
	"github.com/lrzipgo/lrzip/internal/cryptutil"
	"github.com/lrzipgo/lrzip/internal/rzip"
	"github.com/lrzipgo/lrzip/internal/stream"
	"github.com/lrzipgo/lrzip/internal/xlog"
)

// Decompress decompresses a complete in-memory archive and returns the
// reconstructed bytes.
func Decompress(archive []byte, opts ...Option) ([]byte, error) {
	var out bytes.Buffer
	if err := DecompressFrom(&out, bytes.NewReader(archive), opts...); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecompressFrom drives the full decompression control flow of spec.md
// §2 over in, writing reconstructed bytes to out.
func DecompressFrom(out io.Writer, in io.ReadSeeker, opts ...Option) error {
	cfg := newConfig(opts...)
	log := xlog.New(cfg.verbose, cfg.maxVerbose)

	magic, err := container.ReadMagic(in)
	if err != nil {
		return &container.FormatError{Msg: "bad or truncated magic header: " + err.Error()}
	}

	var cipher *cryptutil.BlockCipher
	if magic.Encrypted {
		if cfg.password == nil {
			return CryptoError("archive is encrypted but no password callback supplied")
		}
		password, err := cfg.password()
		if err != nil {
			return CryptoError("password callback failed: " + err.Error())
		}
		salt := cryptutil.Salt(magic.Salt)
		hash := cryptutil.Stretch(password, salt)
		saltPass := append(append([]byte{}, salt[:]...), password...)
		cryptutil.Zero(password)
		defer cryptutil.Zero(saltPass)
		cipher = cryptutil.NewBlockCipher(hash, saltPass)
	}

	dispatcher := codec.NewDispatcher()
	dispatcher.SetLZMAProps(magic.LZMAProps)
	dispatcher.SetZPAQLevel(int(magic.ZPAQLevel))

	sum := md5.New()
	chunkIdx := 0
	for {
		h, err := container.ReadChunkHeader(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return &container.FormatError{Msg: "bad chunk header: " + err.Error()}
		}

		bodyStart, err := in.Seek(0, io.SeekCurrent)
		if err != nil {
			return &IOError{Op: "seek", Err: err}
		}
		width := h.ChunkBytes
		headerSize := container.HeaderSize(width)
		head0 := bodyStart + 1 + 2*int64(width)
		head1 := bodyStart + headerSize + 1 + 2*int64(width)

		r := stream.NewReader(in, width, head0, head1, cipher, dispatcher)
		chunk, err := replayChunk(r, width, h.ChunkSize)
		if err != nil {
			if cfg.keepBroken {
				out.Write(chunk)
				return &CodecError{Codec: "rzip replay", Err: err}
			}
			return err
		}
		if _, err := out.Write(chunk); err != nil {
			return &IOError{Op: "write output", Err: err}
		}
		sum.Write(chunk)
		log.Trace("lrzip: replayed chunk %d (%d bytes, eof=%v)", chunkIdx, len(chunk), h.EOF)
		chunkIdx++

		next := r.ChainEnd(stream.StreamControl)
		if end1 := r.ChainEnd(stream.StreamLiteral); end1 > next {
			next = end1
		}
		if _, err := in.Seek(next, io.SeekStart); err != nil {
			return &IOError{Op: "seek", Err: err}
		}
		if h.EOF {
			break
		}
	}

	if magic.HasMD5 {
		var want [16]byte
		if _, err := io.ReadFull(in, want[:]); err != nil {
			return &container.FormatError{Msg: "missing MD5 trailer: " + err.Error()}
		}
		var got [16]byte
		sum.Sum(got[:0])
		if !bytes.Equal(want[:], got[:]) {
			return &container.InvariantError{Msg: "MD5 trailer mismatch"}
		}
	}
	return nil
}

// Verify decompresses an archive purely to validate its checksums,
// without materializing the reconstructed bytes anywhere durable
// (spec.md §4.7 "test mode" / §8's round-trip and checksum properties).
func Verify(in io.ReadSeeker, opts ...Option) error {
	return DecompressFrom(io.Discard, in, opts...)
}

// replayChunk reads one chunk's stream-0 record sequence and replays it
// against stream-1 literal bytes, reconstructing the chunk's original
// bytes (spec.md §2 "...drive the rzip replay").
func replayChunk(r *stream.Reader, width byte, size int64) ([]byte, error) {
	src := newMuxSource(r, width)
	out := make([]byte, 0, size)
	for {
		rec, isSentinel, err := src.next()
		if err != nil {
			return out, &IOError{Op: "read record", Err: err}
		}
		if isSentinel {
			break
		}
		switch rec.Kind {
		case rzip.KindLiteral:
			lit, err := src.readLiteral(rec.Length)
			if err != nil {
				return out, &IOError{Op: "read literal", Err: err}
			}
			out = append(out, lit...)
		case rzip.KindMatch:
			start := int64(len(out)) - rec.Offset
			if rec.Offset < 1 || start < 0 {
				return out, &container.InvariantError{Msg: "match references bytes before chunk start"}
			}
			for i := int64(0); i < rec.Length; i++ {
				out = append(out, out[start+i])
			}
		default:
			return out, &container.FormatError{Msg: "unknown record kind"}
		}
	}
	crc, err := src.readCRC()
	if err != nil {
		return out, &IOError{Op: "read chunk crc", Err: err}
	}
	if crc != crc32.ChecksumIEEE(out) {
		return out, &container.InvariantError{Msg: "chunk CRC32 mismatch"}
	}
	return out, nil
}
