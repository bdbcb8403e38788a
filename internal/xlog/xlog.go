// Package xlog is a minimal verbose-gated logger, the same shape as the
// teacher's own Decompressor.trace: a log.Printf call gated by a bool,
// generalized here so every package in this module can share one
// Logger instance instead of each carrying its own verbose flag.
package xlog

import "log"

// Logger gates log.Printf behind a verbosity flag, and separately
// behind a "max verbose" flag for the chattiest trace points (mirrors
// the reference tool's print_verbose/print_maxverbose split).
type Logger struct {
	verbose    bool
	maxVerbose bool
}

// New returns a Logger; maxVerbose implies verbose.
func New(verbose, maxVerbose bool) *Logger {
	return &Logger{verbose: verbose || maxVerbose, maxVerbose: maxVerbose}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	log.Printf(format, args...)
}

func (l *Logger) MaxTrace(format string, args ...interface{}) {
	if l == nil || !l.maxVerbose {
		return
	}
	log.Printf(format, args...)
}

// Verbose reports whether at least Trace-level logging is enabled.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}
