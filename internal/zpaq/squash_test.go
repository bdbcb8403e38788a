package zpaq

import "testing"

func TestSquashMonotonic(t *testing.T) {
	prev := squash(-2047)
	for d := int32(-2046); d <= 2047; d++ {
		cur := squash(d)
		if cur < prev {
			t.Fatalf("squash not monotonic at d=%d: %d < %d", d, cur, prev)
		}
		prev = cur
	}
}

func TestSquashClampsInput(t *testing.T) {
	if got, want := squash(9999), squash(2047); got != want {
		t.Errorf("squash(9999) = %d, want clamp to squash(2047) = %d", got, want)
	}
	if got, want := squash(-9999), squash(-2047); got != want {
		t.Errorf("squash(-9999) = %d, want clamp to squash(-2047) = %d", got, want)
	}
}

func TestStretchSquashRoundTrip(t *testing.T) {
	for _, p := range []int32{0, 1, 100, 2048, 4000, 4095} {
		d := stretch(p)
		back := squash(d)
		if diff := back - p; diff < -32 || diff > 32 {
			t.Errorf("stretch/squash round trip drifted too far: p=%d stretch=%d squash=%d", p, d, back)
		}
	}
}

func TestStretchClampsInput(t *testing.T) {
	if got, want := stretch(-5), stretch(0); got != want {
		t.Errorf("stretch(-5) = %d, want clamp to stretch(0) = %d", got, want)
	}
	if got, want := stretch(5000), stretch(4095); got != want {
		t.Errorf("stretch(5000) = %d, want clamp to stretch(4095) = %d", got, want)
	}
}
