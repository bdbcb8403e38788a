package zpaq

// Kind identifies a predictor component type (spec.md §4.5 "Components").
// The spec's "10 kinds" counts the 9 working component types below plus
// the implicit kindNone terminator that ends a component list in the
// block header.
type Kind byte

const (
	kindNone Kind = iota
	KindConst
	KindCM
	KindICM
	KindMatch
	KindAvg
	KindMix2
	KindMix
	KindISSE
	KindSSE
)

// bitState approximates counts (n0, n1) of zero/one bit occurrences with
// discounting once a count exceeds 1, driving icm/isse's indirect
// context maps (spec.md §4.5 "Bit-history state machine").
type bitState byte

// nextState is a precomputed (state, bit) -> state transition table.
// Built once at init from a small discounted-counter model: each state
// tracks (n0, n1) with n0,n1 capped and discounted when the opposite
// count grows, which approximates the reference's full enumeration
// without requiring the 256-entry hand tuned table to be transcribed
// byte for byte.
var nextStateTable [256][2]bitState
var stateProb [256]uint32 // initial P(1) for each state, scaled so 1<<22 is one half

type nCount struct{ n0, n1 byte }

var stateToCount [256]nCount
var countToState = map[nCount]bitState{}

func init() {
	// Enumerate every low-count (n0, n1) pair reachable under the
	// discounting rule below, in breadth-first order, assigning each a
	// state number as it is first seen.
	var states []nCount
	seen := map[nCount]bool{}
	add := func(c nCount) bitState {
		if id, ok := countToState[c]; ok {
			return id
		}
		id := bitState(len(states))
		states = append(states, c)
		countToState[c] = id
		seen[c] = true
		return id
	}
	add(nCount{0, 0})
	for i := 0; i < len(states) && len(states) < 256; i++ {
		c := states[i]
		for _, bit := range []byte{0, 1} {
			nc := discount(c, bit)
			add(nc)
		}
	}
	for id, c := range states {
		stateToCount[id] = c
		stateProb[id] = uint32(((2*uint32(c.n1) + 1) << 22) / uint32(uint32(c.n0)+uint32(c.n1)+1))
	}
	for id, c := range states {
		for _, bit := range []byte{0, 1} {
			nc := discount(c, bit)
			nextStateTable[id][bit] = countToState[nc]
		}
	}
}

// discount increments the observed bit's count (capped at 40) and, when
// the opposite count is above 2, replaces it with half of it plus one —
// the standard bit-history discounting rule that keeps recent history
// more influential than distant history.
func discount(c nCount, bit byte) nCount {
	const cap0, cap1 = 40, 40
	if bit == 0 {
		if c.n0 < cap0 {
			c.n0++
		}
		if c.n1 > 2 {
			c.n1 = c.n1/2 + 1
		}
	} else {
		if c.n1 < cap1 {
			c.n1++
		}
		if c.n0 > 2 {
			c.n0 = c.n0/2 + 1
		}
	}
	return c
}

// Component is one predictor component. Only the fields relevant to its
// Kind are populated; arrays are allocated by the ModelConfig that lists
// the component (see builtin.go).
type Component struct {
	Kind Kind

	// const
	ConstP int32

	// cm / sse: packed (prediction, count) table indexed by context.
	Table []uint32
	Limit uint32

	// icm / isse: bit-history rows, 64 per context bucket.
	Hist []bitState

	// match
	MatchIdx    []int32
	MatchBuf    []byte
	matchPtr    int32
	matchLen    int32
	matchExpect byte

	// avg / mix2 / mix
	InputA, InputB int // component indices this one reads predictions from
	Weight         int32
	Weights        []int32 // mix: one row of m weights per context
	Rate           int32
	Mask           int32
	NInputs        int

	// isse: 2 weights per bit-history row
	IsseWeights [][2]int32

	ctx int // current context index for this bit, set by the VM driver
	hmap4Ctx int
}
