package zpaq

// ModelConfig describes one predictor configuration: the HCOMP program
// that computes contexts for each component, and the ordered component
// list itself (spec.md §4.5 "A block header lists hcomp/pcomp bytecode
// plus an ordered component list").
type ModelConfig struct {
	HH, HM int // log2 sizes of H (hash memory) and M (byte memory) for HCOMP
	PH, PM int // same, for PCOMP (post-processing; unused by the built-ins here)
	HComp  []byte
	PComp  []byte
	Comps  []Component
}

// Predictor ties one ModelConfig to a running HCOMP VM and the component
// bank, implementing the per-bit prediction/update protocol of spec.md
// §4.5: compute contexts once per byte boundary via HCOMP, then for each
// bit predict by combining every component's output and update every
// component with the coded bit.
type Predictor struct {
	cfg  ModelConfig
	comp []Component
	hc   *vm

	c0   uint32 // partial byte being coded, with a leading 1 bit marker
	c4   uint32 // last 4 bytes, packed
	bpos int    // bit position within the current byte, 0..7

	ctx []int // per-component context index, recomputed each byte
	p   []int32
}

// NewPredictor builds a Predictor from a model config, cloning its
// component bank so repeated uses of the same built-in config don't
// share mutable state.
func NewPredictor(cfg ModelConfig) *Predictor {
	pr := &Predictor{
		cfg:  cfg,
		comp: make([]Component, len(cfg.Comps)),
		hc:   newVM(cfg.HM, cfg.HH, cfg.HComp),
		ctx:  make([]int, len(cfg.Comps)),
		p:    make([]int32, len(cfg.Comps)),
		c0:   1,
	}
	for i, c := range cfg.Comps {
		pr.comp[i] = c
		switch c.Kind {
		case KindCM:
			pr.comp[i].Table = make([]uint32, len(c.Table))
			copy(pr.comp[i].Table, c.Table)
		case KindICM, KindISSE:
			pr.comp[i].Hist = make([]bitState, len(c.Hist))
		}
	}
	return pr
}

// beginByte recomputes every component's context by driving the HCOMP
// program once with the last coded byte's value, per spec.md §4.5's
// "HCOMP runs once per byte, after the byte is complete".
func (pr *Predictor) beginByte() {
	pr.hc.d = uint32(len(pr.comp))
	if err := pr.hc.run(pr.c4 & 0xFF); err != nil {
		// A misbehaving program must not crash compression; fall back to
		// context 0 for every component rather than abort the block.
		for i := range pr.ctx {
			pr.ctx[i] = 0
		}
		return
	}
	for i := range pr.comp {
		h := pr.hc.h[i%len(pr.hc.h)]
		pr.ctx[i] = int(h)
	}
}

// Predict returns the combined 12-bit probability that the next bit is 1.
func (pr *Predictor) Predict() int32 {
	if pr.bpos == 0 {
		pr.beginByte()
	}
	var mixIn []int32
	for i := range pr.comp {
		c := &pr.comp[i]
		var pred int32
		switch c.Kind {
		case KindConst:
			pred = squash(c.ConstP)
		case KindCM:
			idx := uint32(pr.ctx[i]) % uint32(len(c.Table))
			pred = int32(c.Table[idx] >> 20)
		case KindICM:
			idx := uint32(pr.ctx[i]) % uint32(len(c.Hist))
			pred = squash(stretch(int32(stateProb[c.Hist[idx]] >> 10)))
		case KindMatch:
			pred = pr.predictMatch(c)
		case KindAvg:
			pred = (mixIn[c.InputA] + mixIn[c.InputB]) / 2
		case KindMix2:
			w := c.Weight
			pred = squash((w*mixIn[c.InputA] + (65536-w)*mixIn[c.InputB]) >> 16)
		case KindMix:
			pred = pr.predictMix(c, mixIn)
		case KindISSE:
			pred = pr.predictISSE(c, i, mixIn)
		case KindSSE:
			pred = pr.predictSSE(c, mixIn)
		}
		pr.p[i] = pred
		mixIn = append(mixIn, stretch(pred))
	}
	if len(pr.comp) == 0 {
		return 2048
	}
	return pr.p[len(pr.comp)-1]
}

func (pr *Predictor) predictMatch(c *Component) int32 {
	if c.matchLen == 0 {
		return 2048
	}
	expect := c.matchExpect
	bitPos := uint(7 - pr.bpos)
	want := (expect >> bitPos) & 1
	strength := c.matchLen
	if strength > 28 {
		strength = 28
	}
	d := strength * 64
	if want == 0 {
		d = -d
	}
	return squash(d)
}

func (pr *Predictor) predictMix(c *Component, in []int32) int32 {
	row := c.Weights
	if len(row) == 0 {
		return 2048
	}
	var sum int64
	for i := 0; i < c.NInputs && i < len(in); i++ {
		sum += int64(row[i]) * int64(in[i])
	}
	return squash(int32(sum >> 16))
}

func (pr *Predictor) predictISSE(c *Component, idx int, in []int32) int32 {
	ctxIdx := uint32(pr.ctx[idx]) % uint32(maxInt(len(c.Hist), 1))
	var w [2]int32
	if int(ctxIdx) < len(c.IsseWeights) {
		w = c.IsseWeights[ctxIdx]
	}
	st := stretch(in[len(in)-1] >> 0)
	return squash((w[0]*st + w[1]*4096) >> 16)
}

func (pr *Predictor) predictSSE(c *Component, in []int32) int32 {
	if len(c.Table) == 0 || len(in) == 0 {
		return 2048
	}
	s := stretch(in[len(in)-1])
	idx := (uint32(pr.ctx[0])*33 + uint32((s+2048)/128)) % uint32(len(c.Table))
	return int32(c.Table[idx] >> 20)
}

// Update trains every component on the just-coded bit and advances the
// byte/bit position.
func (pr *Predictor) Update(bit int) {
	for i := range pr.comp {
		c := &pr.comp[i]
		switch c.Kind {
		case KindCM:
			idx := uint32(pr.ctx[i]) % uint32(len(c.Table))
			updateCM(&c.Table[idx], bit, c.Limit)
		case KindICM:
			idx := uint32(pr.ctx[i]) % uint32(len(c.Hist))
			c.Hist[idx] = nextStateTable[c.Hist[idx]][bit]
		case KindMatch:
			updateMatch(c, bit, pr.bpos)
		}
	}
	pr.c0 = pr.c0<<1 | uint32(bit)
	pr.bpos++
	if pr.bpos == 8 {
		pr.c4 = pr.c4<<8 | (pr.c0 & 0xFF)
		pr.c0 = 1
		pr.bpos = 0
	}
}

func updateCM(slot *uint32, bit int, limit uint32) {
	pred := *slot >> 20
	cnt := *slot & 0xFFFFF
	if cnt < limit {
		cnt++
	}
	var target uint32
	if bit != 0 {
		target = 4095
	}
	pred += ((target << 20) - (pred << 20)) / (cnt + 2) >> 20
	*slot = pred<<20 | cnt
}

func updateMatch(c *Component, bit int, bpos int) {
	if c.matchLen == 0 {
		return
	}
	bitPos := uint(7 - bpos)
	want := (c.matchExpect >> bitPos) & 1
	if int(want) != bit {
		c.matchLen = 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
