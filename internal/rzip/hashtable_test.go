package rzip

import "testing"

func TestHashTableInsertFind(t *testing.T) {
	h := newHashTable(levelFor(4))
	h.minTagMask = 0

	h.insert(123, 10)
	h.insert(123, 20)

	var offsets []int64
	h.find(123, func(off int64) { offsets = append(offsets, off) })
	if len(offsets) < 1 {
		t.Fatal("expected at least one offset for an inserted tag")
	}
	found10, found20 := false, false
	for _, o := range offsets {
		if o == 10 {
			found10 = true
		}
		if o == 20 {
			found20 = true
		}
	}
	if !found10 || !found20 {
		t.Fatalf("expected both offsets reachable, got %v", offsets)
	}
}

func TestHashTableFindMissingTag(t *testing.T) {
	h := newHashTable(levelFor(4))
	h.insert(1, 1)
	called := false
	h.find(999999, func(int64) { called = true })
	if called {
		t.Fatal("find visited an offset for a tag never inserted")
	}
}

func TestLesserBitness(t *testing.T) {
	// A tag with fewer trailing set bits should be considered "lesser"
	// (culled first) than one with more.
	if !lesserBitness(0, 1) {
		t.Error("0 should be lesser than 1 (fewer low bits set)")
	}
	if lesserBitness(1, 0) {
		t.Error("1 should not be lesser than 0")
	}
}

func TestIncreaseMask(t *testing.T) {
	if got := increaseMask(0); got != 1 {
		t.Errorf("increaseMask(0) = %d, want 1", got)
	}
	if got := increaseMask(1); got != 3 {
		t.Errorf("increaseMask(1) = %d, want 3", got)
	}
}
