// Package rzip implements the long-range redundancy elimination pass: a
// rolling-hash, content-defined matcher that turns a chunk of bytes into a
// sequence of literal runs and back-references before a back-end entropy
// coder ever sees the data.
package rzip

// minimumMatch is the shortest back-reference the engine will ever emit; a
// shorter run is always cheaper to encode as a literal.
const minimumMatch = 31

// greatMatch allows a candidate to be emitted immediately instead of
// waiting for minimumMatch bytes of forward search.
const greatMatch = 1024

// maxEmission is the largest literal/match length carried by a single
// record; longer runs are split into pieces this size.
const maxEmission = 0xFFFF

// level holds the hash-table sizing and culling parameters for one
// compression level, mirroring the table historically used to size the
// rzip hash table against available memory.
type level struct {
	mbUsed       int // megabytes devoted to the hash table
	initialFreq  uint
	maxChainLen  int
}

// levels is indexed 1..9; levels[0] is unused (kept so level numbers read
// directly as indices).
var levels = [10]level{
	{}, // unused
	{1, 4, 1},
	{2, 4, 2},
	{4, 4, 2},
	{8, 4, 2},
	{16, 4, 3},
	{32, 4, 4},
	{32, 2, 6},
	{64, 1, 16},
	{64, 1, 32},
}

// levelFor clamps an arbitrary level into the supported 1..9 range and
// returns its sizing parameters.
func levelFor(n int) level {
	if n < 1 {
		n = 1
	}
	if n > 9 {
		n = 9
	}
	return levels[n]
}
