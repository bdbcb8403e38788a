package rzip

import (
	"bytes"
	"hash/crc32"
	"math/rand"
	"testing"
)

// fakeSink replays records against a reconstruction buffer, mirroring the
// root package's muxSink/muxSource pair but in-process, so the engine's
// record stream can be checked for exact self-consistency without going
// through the stream multiplexer.
type fakeSink struct {
	pending  int64 // literal bytes announced by the last literal record and not yet received
	out      []byte
	sentinel bool
}

func (f *fakeSink) PutRecord(r Record) error {
	if f.pending != 0 {
		panic("record emitted before the previous literal run's bytes")
	}
	switch r.Kind {
	case KindLiteral:
		f.pending = r.Length
	case KindMatch:
		start := int64(len(f.out)) - r.Offset
		for i := int64(0); i < r.Length; i++ {
			f.out = append(f.out, f.out[start+i])
		}
	}
	return nil
}

func (f *fakeSink) PutLiteralBytes(b []byte) error {
	if int64(len(b)) > f.pending {
		panic("more literal bytes than the literal record announced")
	}
	f.out = append(f.out, b...)
	f.pending -= int64(len(b))
	return nil
}

func (f *fakeSink) PutSentinel() error {
	f.sentinel = true
	return nil
}

func TestEngineRunReconstructsExactly(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("abcdefghij"), 5),
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200),
	}
	r := rand.New(rand.NewSource(1))
	random := make([]byte, 50000)
	r.Read(random)
	cases = append(cases, random)

	for i, buf := range cases {
		e := NewEngine(6)
		sink := &fakeSink{}
		crc, err := e.Run(buf, sink)
		if err != nil {
			t.Fatalf("case %d: Run: %v", i, err)
		}
		if !sink.sentinel {
			t.Fatalf("case %d: sentinel not emitted", i)
		}
		if !bytes.Equal(sink.out, buf) {
			t.Fatalf("case %d: reconstruction mismatch: got %d bytes, want %d", i, len(sink.out), len(buf))
		}
		if crc != crc32.ChecksumIEEE(buf) {
			t.Fatalf("case %d: crc mismatch", i)
		}
	}
}

func TestEngineRunAcrossLevels(t *testing.T) {
	data := bytes.Repeat([]byte("redundant redundant redundant data here"), 100)
	for lvl := 1; lvl <= 9; lvl++ {
		e := NewEngine(lvl)
		sink := &fakeSink{}
		if _, err := e.Run(data, sink); err != nil {
			t.Fatalf("level %d: %v", lvl, err)
		}
		if !bytes.Equal(sink.out, data) {
			t.Fatalf("level %d: reconstruction mismatch", lvl)
		}
	}
}

func TestEmitLiteralSplitsLongRuns(t *testing.T) {
	data := make([]byte, maxEmission*2+10)
	for i := range data {
		data[i] = byte(i)
	}
	sink := &fakeSink{}
	if err := emitLiteral(sink, data, 0, int64(len(data))); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sink.out, data) {
		t.Fatal("split literal emission did not reconstruct exactly")
	}
}

func TestLevelForClamps(t *testing.T) {
	if levelFor(0) != levelFor(1) {
		t.Fatal("levelFor(0) should clamp to 1")
	}
	if levelFor(100) != levelFor(9) {
		t.Fatal("levelFor(100) should clamp to 9")
	}
}
