package lrzip

import (
	"testing"

	"github.com/lrzipgo/lrzip/internal/container"
)

func TestNewConfigDefaults(t *testing.T) {
	c := newConfig()
	if c.level != 6 {
		t.Errorf("default level = %d, want 6", c.level)
	}
	if c.codec != container.CodecLZMA {
		t.Errorf("default codec = %d, want CodecLZMA", c.codec)
	}
	if c.windowCapMB != 100 {
		t.Errorf("default windowCapMB = %d, want 100", c.windowCapMB)
	}
	if c.threadCount < 1 {
		t.Errorf("default threadCount = %d, want >= 1", c.threadCount)
	}
}

func TestLevelClamped(t *testing.T) {
	if c := newConfig(Level(0)); c.level != 1 {
		t.Errorf("Level(0) clamped to %d, want 1", c.level)
	}
	if c := newConfig(Level(99)); c.level != 9 {
		t.Errorf("Level(99) clamped to %d, want 9", c.level)
	}
}

func TestOptionsApply(t *testing.T) {
	c := newConfig(
		Level(3),
		CodecChoice(container.CodecZPAQ),
		WindowCapMB(50),
		UnlimitedWindow(true),
		ThreadCount(2),
		NiceValue(5),
		KeepBroken(true),
		DisableLZOProbe(true),
		VerboseLogging(true),
		MaxVerboseLogging(true),
	)
	if c.level != 3 || c.codec != container.CodecZPAQ || c.windowCapMB != 50 ||
		!c.unlimitedWin || c.threadCount != 2 || c.niceValue != 5 ||
		!c.keepBroken || !c.disableLZO || !c.verbose || !c.maxVerbose {
		t.Fatalf("options did not apply as expected: %+v", c)
	}
}

func TestEncryptOptionSetsPassword(t *testing.T) {
	called := false
	fn := func() ([]byte, error) { called = true; return []byte("x"), nil }
	c := newConfig(Encrypt(fn))
	if !c.encrypt || c.password == nil {
		t.Fatal("Encrypt did not set encrypt/password")
	}
	if _, _ = c.password(); !called {
		t.Fatal("stored password callback is not the one supplied")
	}
}

func TestChunkSizeBytes(t *testing.T) {
	c := newConfig(WindowCapMB(5))
	if got := chunkSizeBytes(c); got != 5*(1<<20) {
		t.Errorf("chunkSizeBytes = %d, want %d", got, 5*(1<<20))
	}
	c = newConfig(UnlimitedWindow(true))
	if got := chunkSizeBytes(c); got != 1<<30 {
		t.Errorf("unlimited chunkSizeBytes = %d, want %d", got, 1<<30)
	}
}
