package lrzip

import (
	"bytes"
	"testing"

	"github.com/lrzipgo/lrzip/internal/container"
)

func TestInfoReportsMagicAndChunks(t *testing.T) {
	data := bytes.Repeat([]byte("info mode probe data "), 2000)
	archive, err := Compress(data, CodecChoice(container.CodecLZMA))
	if err != nil {
		t.Fatal(err)
	}

	got, err := Info(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if got.UncompressedSize != uint64(len(data)) {
		t.Errorf("UncompressedSize = %d, want %d", got.UncompressedSize, len(data))
	}
	if got.Encrypted {
		t.Error("archive should not be reported encrypted")
	}
	if !got.HasMD5 {
		t.Error("archive should be reported as carrying an MD5 trailer")
	}
	if len(got.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	last := got.Chunks[len(got.Chunks)-1]
	if !last.EOF {
		t.Error("last chunk should be marked EOF")
	}
	foundLZMA := false
	for _, blocks := range last.Blocks {
		for _, b := range blocks {
			if b.Codec == container.CodecLZMA {
				foundLZMA = true
			}
		}
	}
	if !foundLZMA {
		t.Error("expected at least one LZMA-coded block in chunk info")
	}
}

func TestInfoMultiChunk(t *testing.T) {
	data := bytes.Repeat([]byte("multi chunk info probe "), 60000)
	archive, err := Compress(data, WindowCapMB(1))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Info(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if len(got.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got.Chunks))
	}
	for i, c := range got.Chunks {
		wantEOF := i == len(got.Chunks)-1
		if c.EOF != wantEOF {
			t.Errorf("chunk %d: EOF = %v, want %v", i, c.EOF, wantEOF)
		}
	}
}

func TestInfoRejectsBadMagic(t *testing.T) {
	if _, err := Info(bytes.NewReader([]byte("garbage"))); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
