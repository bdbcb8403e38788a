package codec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/lrzipgo/lrzip/internal/container"
)

func sampleText() []byte {
	return bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 300)
}

func sampleRandom() []byte {
	r := rand.New(rand.NewSource(3))
	b := make([]byte, 4096)
	r.Read(b)
	return b
}

func TestDispatcherRoundTripEachCodec(t *testing.T) {
	codecs := []container.Codec{
		container.CodecNone,
		container.CodecGzip,
		container.CodecBzip2,
		container.CodecLZMA,
		container.CodecLZO,
		container.CodecZPAQ,
	}
	for _, c := range codecs {
		d := NewDispatcher()
		payload := sampleText()
		out, tag, err := d.Compress(c, 6, payload)
		if err != nil {
			t.Fatalf("codec %d: compress: %v", c, err)
		}
		got, err := d.Decompress(tag, int64(len(payload)), out)
		if err != nil {
			t.Fatalf("codec %d: decompress: %v", c, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("codec %d: round trip mismatch (tag used: %d)", c, tag)
		}
	}
}

func TestDispatcherFallsBackToStoreOnExpansion(t *testing.T) {
	d := NewDispatcher()
	payload := sampleRandom()
	out, tag, err := d.Compress(container.CodecGzip, 1, payload)
	if err != nil {
		t.Fatal(err)
	}
	if tag == container.CodecGzip && len(out) >= len(payload) {
		t.Fatal("expected store fallback when codec output is not shorter")
	}
}

func TestDispatcherEmptyPayload(t *testing.T) {
	d := NewDispatcher()
	out, tag, err := d.Compress(container.CodecLZMA, 6, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tag != container.CodecNone || len(out) != 0 {
		t.Fatalf("expected CodecNone/empty for empty payload, got tag=%d len=%d", tag, len(out))
	}
}

func TestDispatcherLZMAPropsCapturedOnce(t *testing.T) {
	d := NewDispatcher()
	payload := sampleText()
	if _, _, err := d.Compress(container.CodecLZMA, 6, payload); err != nil {
		t.Fatal(err)
	}
	first := d.LZMAProps()
	if _, _, err := d.Compress(container.CodecLZMA, 9, payload); err != nil {
		t.Fatal(err)
	}
	if d.LZMAProps() != first {
		t.Fatal("LZMAProps changed after the first captured block")
	}
}

func TestDispatcherZPAQLevelCapturedOnce(t *testing.T) {
	d := NewDispatcher()
	payload := sampleText()
	if _, _, err := d.Compress(container.CodecZPAQ, 2, payload); err != nil {
		t.Fatal(err)
	}
	if got := d.ZPAQLevel(); got != 2 {
		t.Fatalf("ZPAQLevel = %d, want 2", got)
	}
	if _, _, err := d.Compress(container.CodecZPAQ, 9, payload); err != nil {
		t.Fatal(err)
	}
	if got := d.ZPAQLevel(); got != 2 {
		t.Fatalf("ZPAQLevel changed to %d after first capture", got)
	}
}

func TestPackageLevelCompress(t *testing.T) {
	payload := sampleText()
	out, tag, err := Compress(container.CodecLZMA, 6, payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty compressed output")
	}
	_ = tag
}
