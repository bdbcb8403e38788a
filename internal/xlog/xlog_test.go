package xlog

import (
	"bytes"
	"log"
	"testing"
)

func captureLog(f func()) string {
	var buf bytes.Buffer
	old := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(old)
		log.SetFlags(oldFlags)
	}()
	f()
	return buf.String()
}

func TestTraceGatedByVerbose(t *testing.T) {
	quiet := New(false, false)
	out := captureLog(func() { quiet.Trace("hello %d", 1) })
	if out != "" {
		t.Fatalf("expected no output when verbose is off, got %q", out)
	}

	loud := New(true, false)
	out = captureLog(func() { loud.Trace("hello %d", 1) })
	if out != "hello 1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestMaxTraceRequiresMaxVerbose(t *testing.T) {
	verboseOnly := New(true, false)
	out := captureLog(func() { verboseOnly.MaxTrace("deep %d", 2) })
	if out != "" {
		t.Fatalf("expected MaxTrace suppressed without maxVerbose, got %q", out)
	}

	maxed := New(false, true)
	out = captureLog(func() { maxed.MaxTrace("deep %d", 2) })
	if out != "deep 2\n" {
		t.Fatalf("got %q", out)
	}
	if !maxed.Verbose() {
		t.Fatal("maxVerbose should imply Verbose()")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	out := captureLog(func() {
		l.Trace("should not panic")
		l.MaxTrace("should not panic either")
	})
	if out != "" {
		t.Fatalf("expected no output from nil logger, got %q", out)
	}
	if l.Verbose() {
		t.Fatal("nil logger should report Verbose() == false")
	}
}
