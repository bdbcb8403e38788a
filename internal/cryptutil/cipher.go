package cryptutil

import (
	"crypto/aes"
	"crypto/cipher"
	cryptorand "crypto/rand"
	"errors"
)

const blockSize = aes.BlockSize // 16, AES's fixed block size

var errShortBlock = errors.New("lrzip: cryptutil: truncated encrypted block")
var errEmptyPayload = errors.New("lrzip: cryptutil: empty payload")

// BlockCipher applies AES-128-CBC with ciphertext stealing, deriving a
// fresh key/IV per call from a master stretched hash, the salt‖password
// pair it was stretched from, and a freshly generated per-block salt
// (spec.md §4.6). Encrypt prepends its generated salt to the returned
// ciphertext; Decrypt reads it back off the front.
type BlockCipher struct {
	hash     [64]byte
	saltPass []byte
}

// NewBlockCipher builds a cipher from the archive's stretched hash and
// the salt‖password bytes that produced it.
func NewBlockCipher(hash [64]byte, saltPass []byte) *BlockCipher {
	return &BlockCipher{hash: hash, saltPass: append([]byte{}, saltPass...)}
}

// Encrypt encrypts payload in place (on a copy) and returns salt‖ciphertext.
func (c *BlockCipher) Encrypt(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errEmptyPayload
	}
	var salt [8]byte
	if _, err := cryptorand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, iv := DeriveBlockKeyIV(c.hash, salt, c.saltPass)
	defer Zero(key[:])
	defer Zero(iv[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	ctsEncrypt(block, iv[:], out)

	result := make([]byte, 8+len(out))
	copy(result, salt[:])
	copy(result[8:], out)
	return result, nil
}

// Decrypt inverts Encrypt, reading the per-block salt off the front of
// payload.
func (c *BlockCipher) Decrypt(payload []byte) ([]byte, error) {
	if len(payload) < 8 {
		return nil, errShortBlock
	}
	var salt [8]byte
	copy(salt[:], payload[:8])
	ciphertext := payload[8:]
	if len(ciphertext) == 0 {
		return nil, errEmptyPayload
	}
	key, iv := DeriveBlockKeyIV(c.hash, salt, c.saltPass)
	defer Zero(key[:])
	defer Zero(iv[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	copy(out, ciphertext)
	ctsDecrypt(block, iv[:], out)
	return out, nil
}

// ctsEncrypt CBC-encrypts buf in place. If len(buf) isn't a multiple of
// the block size, the final partial block is handled with ciphertext
// stealing: the last full block and the short tail swap places so no
// padding is written (spec.md §4.6 "Encryption").
func ctsEncrypt(block cipher.Block, iv []byte, buf []byte) {
	if len(buf) < blockSize {
		// No preceding full block exists to steal ciphertext from. Encrypt
		// the short payload directly against the IV (one step of CFB: XOR
		// with E(IV), truncated to len(buf)) instead of the swap below.
		if len(buf) == 0 {
			return
		}
		keystream := make([]byte, blockSize)
		block.Encrypt(keystream, iv)
		xorBytes(buf, buf, keystream[:len(buf)])
		return
	}
	m := len(buf) % blockSize
	n := len(buf) - m
	prev := append([]byte{}, iv...)
	tmp := make([]byte, blockSize)
	for i := 0; i < n; i += blockSize {
		chunk := buf[i : i+blockSize]
		xorBytes(tmp, chunk, prev)
		block.Encrypt(chunk, tmp)
		prev = chunk
	}
	if m == 0 {
		return
	}
	tmp0 := make([]byte, blockSize)
	copy(tmp0, buf[n:n+m])
	xorBytes(tmp0, tmp0, prev)
	tmp1 := make([]byte, blockSize)
	block.Encrypt(tmp1, tmp0)

	copy(buf[n:n+m], buf[n-blockSize:n-blockSize+m])
	copy(buf[n-blockSize:n], tmp1)
}

// ctsDecrypt inverts ctsEncrypt.
func ctsDecrypt(block cipher.Block, iv []byte, buf []byte) {
	if len(buf) < blockSize {
		// Mirrors the short-payload branch in ctsEncrypt: XOR with E(IV)
		// is its own inverse, so decryption is the identical operation.
		if len(buf) == 0 {
			return
		}
		keystream := make([]byte, blockSize)
		block.Encrypt(keystream, iv)
		xorBytes(buf, buf, keystream[:len(buf)])
		return
	}
	m := len(buf) % blockSize
	n := len(buf) - m
	if m == 0 {
		prev := append([]byte{}, iv...)
		tmp := make([]byte, blockSize)
		for i := 0; i < n; i += blockSize {
			chunk := buf[i : i+blockSize]
			copy(tmp, chunk)
			block.Decrypt(chunk, chunk)
			xorBytes(chunk, chunk, prev)
			copy(prev, tmp)
		}
		return
	}

	prev := append([]byte{}, iv...)
	tmp := make([]byte, blockSize)
	for i := 0; i < n-blockSize; i += blockSize {
		chunk := buf[i : i+blockSize]
		copy(tmp, chunk)
		block.Decrypt(chunk, chunk)
		xorBytes(chunk, chunk, prev)
		copy(prev, tmp)
	}

	tmp0 := make([]byte, blockSize)
	block.Decrypt(tmp0, buf[n-blockSize:n])
	tmp1 := make([]byte, blockSize)
	copy(tmp1, buf[n:n+m])
	xorBytes(tmp0, tmp0, tmp1)
	partial := append([]byte{}, tmp0[:m]...)
	copy(tmp1[m:], tmp0[m:])

	full := make([]byte, blockSize)
	block.Decrypt(full, tmp1)
	xorBytes(full, full, prev)

	copy(buf[n-blockSize:n], full)
	copy(buf[n:n+m], partial)
}

func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
