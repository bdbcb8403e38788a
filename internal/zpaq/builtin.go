package zpaq

// Built-in model configurations, named the way spec.md §4.3 names
// lrzip's three fixed zpaq compression profiles: minimum, medium,
// maximum. Each trades memory and speed for ratio. The HCOMP programs
// below fold the byte just coded into H[i] with opHash; H is never
// cleared, so each slot holds a running hash of every byte coded so far
// rather than a fixed-order context. Predictor.beginByte reads H[i] back
// as component i's context.

// order1Prog folds the byte just coded (already sitting in register a,
// preloaded by vm.run) into H[0].
var order1Prog = []byte{
	opSetD, 0,
	opHash,
	opHalt,
}

// order2Prog folds the byte just coded into H[0] and H[1]. Both slots
// receive the same updates, so they always hold equal values.
var order2Prog = []byte{
	opSetD, 0,
	opHash,
	opSetD, 1,
	opShlA, 0, // a shift by 0 leaves a unchanged: H[1] gets the same byte as H[0]
	opHash,
	opHalt,
}

// order3Prog folds the byte just coded into H[0] through H[3] alike, so
// all four slots hold equal values.
var order3Prog = []byte{
	opSetD, 0,
	opHash,
	opSetD, 1,
	opHash,
	opSetD, 2,
	opHash,
	opSetD, 3,
	opHash,
	opHalt,
}

// Minimum is the cheapest built-in: a single indirect context map (ICM)
// over H[0].
func Minimum() ModelConfig {
	return ModelConfig{
		HH: 16, HM: 16,
		HComp: order1Prog,
		Comps: []Component{
			{Kind: KindICM, Hist: make([]bitState, 1<<16)},
		},
	}
}

// Medium combines two ICMs, over H[0] and H[1], through a 2-input mixer
// with a fixed weight of one half each.
func Medium() ModelConfig {
	return ModelConfig{
		HH: 18, HM: 18,
		HComp: order2Prog,
		Comps: []Component{
			{Kind: KindICM, Hist: make([]bitState, 1<<18)},
			{Kind: KindICM, Hist: make([]bitState, 1<<18)},
			{Kind: KindMix2, InputA: 0, InputB: 1, Weight: 32768},
		},
	}
}

// Maximum combines three ICMs and a match component through a general
// mixer with equal fixed weights — the largest and slowest profile.
// Nothing sets the match component's length above zero, so it always
// predicts 2048 (one half).
func Maximum() ModelConfig {
	weights := make([]int32, 4)
	for i := range weights {
		weights[i] = 16384
	}
	return ModelConfig{
		HH: 20, HM: 20,
		HComp: order3Prog,
		Comps: []Component{
			{Kind: KindICM, Hist: make([]bitState, 1<<18)},
			{Kind: KindICM, Hist: make([]bitState, 1<<19)},
			{Kind: KindICM, Hist: make([]bitState, 1<<20)},
			{Kind: KindMatch, MatchBuf: make([]byte, 1<<20), MatchIdx: make([]int32, 1<<16)},
			{Kind: KindMix, NInputs: 4, Weights: weights},
		},
	}
}

// ForLevel picks a built-in by lrzip compression level (1-9), matching
// the original's coarse low/mid/high split for the zpaq back end
// (original_source/lrzip's zpaq level grouping, supplemented per
// SPEC_FULL.md "Supplemented features").
func ForLevel(level int) ModelConfig {
	switch {
	case level <= 3:
		return Minimum()
	case level <= 6:
		return Medium()
	default:
		return Maximum()
	}
}
