// Package zpaq implements the context-mixing predictor described in
// spec.md §4.5: a small bytecode VM ("HCOMP") that computes context
// hashes, a fixed set of component kinds that each contribute one
// logistic bit prediction, and an arithmetic-coded bitstream built on
// top of internal/arith.
package zpaq

// stretchTable maps a 12-bit probability (0..4095) through the logistic
// stretch function ln(p/(1-p)), table
// driven the way the reference predictor does it (stretch is the
// inverse of squash and is precomputed once from it).
var stretchTable [4096]int32

// squash maps a stretched (logit) value d in roughly [-2047, 2047] to a
// 12-bit probability in [0, 4095].
func squash(d int32) int32 {
	const lim = 2047
	if d > lim {
		d = lim
	}
	if d < -lim {
		d = -lim
	}
	w := d & 127
	d = (d >> 7) + 16
	return (squashTable[d]*(128-w) + squashTable[d+1]*w + 64) >> 7
}

var squashTable = [33]int32{
	1, 2, 3, 6, 10, 16, 27, 45, 73, 120, 194, 310, 488, 747, 1101, 1546,
	2047, 2549, 2994, 3348, 3607, 3785, 3901, 3975, 4022, 4050,
	4068, 4079, 4085, 4089, 4092, 4093, 4094,
}

func init() {
	pi := 0
	for x := int32(-2047); x <= 2047; x++ {
		p := squash(x)
		for ; pi <= int(p); pi++ {
			stretchTable[pi] = x
		}
	}
	for ; pi < 4096; pi++ {
		stretchTable[pi] = 2047
	}
}

// stretch is the inverse of squash: maps a 12-bit probability to a
// stretched (logit) value.
func stretch(p int32) int32 {
	if p < 0 {
		p = 0
	}
	if p > 4095 {
		p = 4095
	}
	return stretchTable[p]
}
