package cryptutil

import (
	"bytes"
	"crypto/aes"
	"testing"
)

func testCipher() *BlockCipher {
	salt := Salt{20, 4, 1, 2, 3, 4, 5, 6}
	hash := Stretch([]byte("correct horse battery staple"), salt)
	saltPass := append(append([]byte{}, salt[:]...), []byte("correct horse battery staple")...)
	return NewBlockCipher(hash, saltPass)
}

func TestBlockCipherRoundTrip(t *testing.T) {
	c := testCipher()
	for n := 1; n <= blockSize*4+5; n++ {
		payload := bytes.Repeat([]byte{byte(n)}, n)
		enc, err := c.Encrypt(payload)
		if err != nil {
			t.Fatalf("n=%d: encrypt: %v", n, err)
		}
		dec, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("n=%d: decrypt: %v", n, err)
		}
		if !bytes.Equal(dec, payload) {
			t.Fatalf("n=%d: round trip mismatch: got %x, want %x", n, dec, payload)
		}
	}
}

func TestBlockCipherRejectsEmptyPayload(t *testing.T) {
	c := testCipher()
	if _, err := c.Encrypt(nil); err == nil {
		t.Fatal("expected error encrypting empty payload")
	}
}

func TestBlockCipherRejectsShortCiphertext(t *testing.T) {
	c := testCipher()
	if _, err := c.Decrypt([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error decrypting short ciphertext")
	}
}

// TestCtsSubBlockRoundTrip pins the fix for payloads shorter than one AES
// block, which previously drove ctsEncrypt/ctsDecrypt into a negative
// slice-bounds panic (there is no preceding full block to steal from).
func TestCtsSubBlockRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, blockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	for n := 1; n < blockSize; n++ {
		plaintext := bytes.Repeat([]byte{byte(n)}, n)

		buf := append([]byte{}, plaintext...)
		ctsEncrypt(block, iv, buf)
		if bytes.Equal(buf, plaintext) {
			t.Fatalf("n=%d: ctsEncrypt left the payload unchanged", n)
		}

		ctsDecrypt(block, iv, buf)
		if !bytes.Equal(buf, plaintext) {
			t.Fatalf("n=%d: round trip mismatch: got %x, want %x", n, buf, plaintext)
		}
	}
}

func TestBlockCipherDistinctSaltsDiffer(t *testing.T) {
	c := testCipher()
	payload := bytes.Repeat([]byte{0xAA}, 40)
	a, err := c.Encrypt(payload)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encrypt(payload)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two encryptions of the same payload produced identical ciphertext; salts not randomized")
	}
}
