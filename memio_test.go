package lrzip

import (
	"bytes"
	"io"
	"testing"
)

func TestMemWriterWriteSeekRoundTrip(t *testing.T) {
	var m memWriter
	if _, err := m.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if got := m.Bytes(); !bytes.Equal(got, []byte("hello world")) {
		t.Fatalf("got %q", got)
	}

	if _, err := m.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Write([]byte("HELLO")); err != nil {
		t.Fatal(err)
	}
	if got := m.Bytes(); !bytes.Equal(got, []byte("HELLO world")) {
		t.Fatalf("overwrite mismatch: got %q", got)
	}

	end, err := m.Seek(0, io.SeekEnd)
	if err != nil {
		t.Fatal(err)
	}
	if end != int64(len(m.Bytes())) {
		t.Fatalf("SeekEnd = %d, want %d", end, len(m.Bytes()))
	}

	if _, err := m.Seek(-5, io.SeekCurrent); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Write([]byte("WORLD")); err != nil {
		t.Fatal(err)
	}
	if got := m.Bytes(); !bytes.Equal(got, []byte("HELLO WORLD")) {
		t.Fatalf("relative seek write mismatch: got %q", got)
	}
}

func TestMemWriterGrowsPastGaps(t *testing.T) {
	var m memWriter
	if _, err := m.Seek(10, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if len(m.Bytes()) != 11 {
		t.Fatalf("len = %d, want 11", len(m.Bytes()))
	}
}
