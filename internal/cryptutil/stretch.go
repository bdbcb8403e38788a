// Package cryptutil implements lrzip's password-stretched key schedule
// and per-block AES-128-CBC cipher with ciphertext stealing (spec.md
// §4.6).
package cryptutil

import (
	"crypto/sha512"
	"encoding/binary"
)

const hashLen = sha512.Size // 64

// Salt is the 8-byte per-archive (or, for the legacy wrap, per-block)
// salt: bytes 0-1 double as the stretching iteration exponent (nbits,
// nloops), the rest is random (spec.md §4.6 "Salt").
type Salt [8]byte

// IterationCount returns nloops << nbits, the effective stretch count.
func (s Salt) IterationCount() uint64 {
	nbits := uint(s[0])
	nloops := uint64(s[1])
	return nloops << nbits
}

// Stretch derives the 64-byte master hash from a password and salt by
// repeated SHA-512 over counter‖salt‖password, looped N times where
// N = iterationCount*HASH_LEN/(len(salt)+len(password)) (spec.md §4.6
// "Stretching").
func Stretch(password []byte, salt Salt) [hashLen]byte {
	saltPass := append(append([]byte{}, salt[:]...), password...)
	iterCount := salt.IterationCount()
	if iterCount == 0 {
		iterCount = 1
	}
	n := iterCount * hashLen / uint64(len(saltPass))
	if n == 0 {
		n = 1
	}

	h := sha512.New()
	var counter [8]byte
	for i := uint64(0); i < n; i++ {
		binary.LittleEndian.PutUint64(counter[:], i)
		h.Write(counter[:])
		h.Write(saltPass)
	}
	var digest [hashLen]byte
	h.Sum(digest[:0])
	return digest
}

// DeriveBlockKeyIV computes the per-block AES key and IV from the
// stretched hash, a per-block salt, and the salt‖password pair used to
// stretch it (spec.md §4.6 "Per-block key schedule"):
//
//	key = SHA-512(hash ‖ s ‖ salt_pass)[0:16]
//	iv  = SHA-512(key  ‖ s ‖ salt_pass)[0:16]
func DeriveBlockKeyIV(hash [hashLen]byte, blockSalt [8]byte, saltPass []byte) (key, iv [16]byte) {
	h := sha512.New()
	h.Write(hash[:])
	h.Write(blockSalt[:])
	h.Write(saltPass)
	var keyDigest [hashLen]byte
	h.Sum(keyDigest[:0])
	copy(key[:], keyDigest[:16])

	h.Reset()
	h.Write(key[:])
	h.Write(blockSalt[:])
	h.Write(saltPass)
	var ivDigest [hashLen]byte
	h.Sum(ivDigest[:0])
	copy(iv[:], ivDigest[:16])
	return key, iv
}

// Zero overwrites key material so it does not linger in memory past use
// (spec.md §7 "Encryption material is always zeroed before free").
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
