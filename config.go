package lrzip

import (
	"runtime"

	"github.com/lrzipgo/lrzip/internal/container"
)

// PasswordFunc supplies the password for an encrypted archive on demand,
// matching spec.md §6's "requires a password-supplying callback".
type PasswordFunc func() ([]byte, error)

// Config gathers every tunable named in spec.md §6's CLI surface, the way
// the teacher's decompressorOpts/readerOpts/scannerOpts structs gather
// theirs, but collapsed into one struct plus functional Options since this
// module has a single entry point rather than the teacher's three.
type Config struct {
	level         int
	codec         container.Codec
	windowCapMB   int
	unlimitedWin  bool
	threadCount   int
	niceValue     int
	encrypt       bool
	password      PasswordFunc
	verify        bool
	keepBroken    bool
	disableLZO    bool
	progressCh    chan<- Progress
	verbose       bool
	maxVerbose    bool
}

// Option configures a Config, mirroring the teacher's DecompressorOption/
// ScannerOption/ReaderOption functional-option pattern.
type Option func(*Config)

func newConfig(opts ...Option) *Config {
	c := &Config{
		level:       6,
		codec:       container.CodecLZMA,
		windowCapMB: 100,
		threadCount: runtime.GOMAXPROCS(-1),
	}
	for _, fn := range opts {
		fn(c)
	}
	if c.threadCount < 1 {
		c.threadCount = 1
	}
	if c.level < 1 {
		c.level = 1
	}
	if c.level > 9 {
		c.level = 9
	}
	return c
}

// Level sets the compression level 1..9 (spec.md §6 "L n").
func Level(n int) Option {
	return func(c *Config) { c.level = n }
}

// CodecChoice selects the back-end block codec (spec.md §6 "Codec").
func CodecChoice(codec container.Codec) Option {
	return func(c *Config) { c.codec = codec }
}

// WindowCapMB sets the chunk size in raw megabytes; each chunk gets its
// own rzip pass. The hash table's size follows the level, not this value.
// This is a deliberate, documented deviation from spec.md §6's CLI
// surface: the `-w n` flag there is specified in units of 100 MB
// (`original_source/rzip.c`'s `CHUNK_MULTIPLE`), and `cmd/lrzip`
// multiplies its `-w` flag value by 100 before calling this Option, so
// the CLI still matches the spec's units exactly; this Go API just
// takes the resulting megabyte count directly rather than re-exposing
// the 100 MB granularity to every caller.
func WindowCapMB(mb int) Option {
	return func(c *Config) { c.windowCapMB = mb }
}

// UnlimitedWindow replaces the window cap with a fixed 1 GiB chunk size
// (spec.md §6 "U").
func UnlimitedWindow(v bool) Option {
	return func(c *Config) { c.unlimitedWin = v }
}

// ThreadCount sets the ring pipeline's worker count (spec.md §6 "p n").
func ThreadCount(n int) Option {
	return func(c *Config) { c.threadCount = n }
}

// NiceValue records a process nice value in [-20,19] (spec.md §6 "N n").
// The value is only stored: neither this package nor cmd/lrzip changes
// the process priority.
func NiceValue(n int) Option {
	return func(c *Config) { c.niceValue = n }
}

// Encrypt enables AES-128-CBC encryption and supplies the password
// callback (spec.md §6 "e").
func Encrypt(fn PasswordFunc) Option {
	return func(c *Config) {
		c.encrypt = true
		c.password = fn
	}
}

// VerifyAfterCompress records a verify toggle in the Config. CompressTo
// does not read it, so no verification pass runs after compression.
func VerifyAfterCompress(v bool) Option {
	return func(c *Config) { c.verify = v }
}

// KeepBroken makes DecompressFrom write the partially replayed bytes of a
// chunk that fails, then return a CodecError (spec.md §6 "k"). Without it
// the failing chunk's bytes are not written. Output already written for
// earlier chunks is never removed, with or without this option.
func KeepBroken(v bool) Option {
	return func(c *Config) { c.keepBroken = v }
}

// DisableLZOProbe records the disable-LZO-probe toggle (spec.md §6 "T").
// The codec dispatcher runs no LZO probe, so the setting has no effect on
// output.
func DisableLZOProbe(v bool) Option {
	return func(c *Config) { c.disableLZO = v }
}

// SendProgress sets the channel progress reports are delivered to,
// mirroring the teacher's BZSendUpdates.
func SendProgress(ch chan<- Progress) Option {
	return func(c *Config) { c.progressCh = ch }
}

// VerboseLogging enables trace-level logging via internal/xlog, mirroring
// the teacher's BZVerbose.
func VerboseLogging(v bool) Option {
	return func(c *Config) { c.verbose = v }
}

// MaxVerboseLogging enables the chattiest trace points.
func MaxVerboseLogging(v bool) Option {
	return func(c *Config) { c.maxVerbose = v }
}
