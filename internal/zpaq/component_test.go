package zpaq

import "testing"

func TestNextStateTableTransitionsStayInRange(t *testing.T) {
	for id := range nextStateTable {
		for _, bit := range []byte{0, 1} {
			next := nextStateTable[id][bit]
			if int(next) >= len(stateToCount) {
				t.Fatalf("state %d bit %d transitions to out-of-range state %d", id, bit, next)
			}
		}
	}
}

func TestStateProbMonotonicWithObservedOnes(t *testing.T) {
	allZeros := countToState[nCount{0, 0}]
	oneOne := countToState[discount(nCount{0, 0}, 1)]
	if stateProb[oneOne] <= stateProb[allZeros] {
		t.Errorf("observing a 1 bit should raise P(1): got %d <= %d", stateProb[oneOne], stateProb[allZeros])
	}
}

func TestDiscountCapsCounts(t *testing.T) {
	c := nCount{0, 0}
	for i := 0; i < 1000; i++ {
		c = discount(c, 1)
	}
	if c.n1 > 40 {
		t.Errorf("n1 should be capped at 40, got %d", c.n1)
	}
	if c.n0 > 2 {
		t.Errorf("opposite count should discount toward small values, got n0=%d", c.n0)
	}
}
