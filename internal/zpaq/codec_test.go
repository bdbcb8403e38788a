package zpaq

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	configs := map[string]ModelConfig{
		"minimum": Minimum(),
		"medium":  Medium(),
		"maximum": Maximum(),
	}
	inputs := [][]byte{
		[]byte("a"),
		bytes.Repeat([]byte("mississippi river banks "), 40),
	}
	r := rand.New(rand.NewSource(5))
	random := make([]byte, 2000)
	r.Read(random)
	inputs = append(inputs, random)

	for name, cfg := range configs {
		for i, in := range inputs {
			encoded := Compress(cfg, in)
			got := Decompress(cfg, encoded, int64(len(in)))
			if !bytes.Equal(got, in) {
				t.Fatalf("config %s case %d: round trip mismatch (got %d bytes, want %d)", name, i, len(got), len(in))
			}
		}
	}
}

func TestForLevelSelectsBuiltinConfigs(t *testing.T) {
	low := ForLevel(1)
	mid := ForLevel(5)
	high := ForLevel(9)
	in := bytes.Repeat([]byte("config selection probe "), 20)
	for _, cfg := range []ModelConfig{low, mid, high} {
		encoded := Compress(cfg, in)
		got := Decompress(cfg, encoded, int64(len(in)))
		if !bytes.Equal(got, in) {
			t.Fatal("round trip failed for a level-selected config")
		}
	}
}
