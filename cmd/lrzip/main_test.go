package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/lrzipgo/lrzip/internal/container"
)

func TestParseCodec(t *testing.T) {
	cases := map[string]container.Codec{
		"none":  container.CodecNone,
		"lzo":   container.CodecLZO,
		"gzip":  container.CodecGzip,
		"bzip2": container.CodecBzip2,
		"lzma":  container.CodecLZMA,
		"":      container.CodecLZMA,
		"zpaq":  container.CodecZPAQ,
		"ZPAQ":  container.CodecZPAQ,
	}
	for in, want := range cases {
		got, err := parseCodec(in)
		if err != nil {
			t.Fatalf("parseCodec(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseCodec(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseCodec("nonsense"); err == nil {
		t.Fatal("expected error for unknown codec name")
	}
}

func TestSeekableFromBuffersNonSeekable(t *testing.T) {
	src := bytes.NewBufferString("abcdef") // *bytes.Buffer is not an io.Seeker
	rs, err := seekableFrom(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rs.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(rs)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "cdef" {
		t.Fatalf("got %q, want %q", got, "cdef")
	}
}

func TestSeekableFromPassesThroughSeekers(t *testing.T) {
	src := bytes.NewReader([]byte("xyz"))
	rs, err := seekableFrom(src)
	if err != nil {
		t.Fatal(err)
	}
	if rs != io.ReadSeeker(src) {
		t.Fatal("expected seekableFrom to return the original reader unchanged")
	}
}
