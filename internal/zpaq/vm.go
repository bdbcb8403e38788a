package zpaq

// Opcodes for the HCOMP/PCOMP bytecode interpreter (spec.md §4.5
// "HCOMP bytecode"). The instruction set below mirrors the shape of the
// reference ISA (1-2 byte instructions over registers a/b/c/d, memory M,
// hash memory H, a 256-entry register file r[], relative jumps,
// hash/hashd helpers, halt, out) without committing to the reference's
// exact opcode numbering, which this module does not need to be
// binary-compatible with.
const (
	opHalt byte = iota
	opSetA      // setA <imm8>: a = imm8
	opSetB
	opSetC
	opSetD
	opAddA // a += b
	opSubA // a -= b
	opXorA // a ^= b
	opAndA // a &= b
	opShlA // a <<= imm8
	opShrA // a >>= imm8
	opMovAB
	opMovBA
	opMovAC
	opMovCA
	opMovAD
	opMovDA
	opLoadR  // a = r[imm8]
	opStoreR // r[imm8] = a
	opLoadM  // a = M[b & (len(M)-1)]
	opStoreM // M[b & (len(M)-1)] = byte(a)
	opHash   // H[d] = (H[d] + a + 512) * 773
	opHashD  // H[d] = (H[d]*773 + a + 1)
	opJmp    // jmp <rel8 signed>
	opJz     // jz <rel8 signed>: if a == 0
	opJnz    // jnz <rel8 signed>: if a != 0
	opOut    // emit byte(a) to PCOMP output
)

// vm is the HCOMP/PCOMP register bank and memory (spec.md §3 "Predictor
// state", "A VM program register bank").
type vm struct {
	a, b, c, d uint32
	f          bool
	pc         int
	r          [256]uint32
	m          []byte
	h          []uint32
	prog       []byte
	out        []byte
}

func newVM(hm, hh int, prog []byte) *vm {
	return &vm{
		m:    make([]byte, 1<<uint(hm)),
		h:    make([]uint32, 1<<uint(hh)),
		prog: prog,
	}
}

// errAbort signals an invalid opcode, a pc outside the program, or a
// program that does not halt within its step budget. Predictor.beginByte
// does not abort the block on it: it sets every component's context to 0
// and coding goes on.
type errAbort struct{ msg string }

func (e errAbort) Error() string { return "lrzip: zpaq vm: " + e.msg }

// run executes the program to completion (opHalt) or until it runs out
// of budget, starting with the input byte (for HCOMP, c8-256; for PCOMP,
// the next decoded byte) preloaded into register a.
func (m *vm) run(input uint32) error {
	m.a, m.pc = input, 0
	const maxSteps = 1 << 20 // generous bound; a real program halts in tens of steps
	for step := 0; step < maxSteps; step++ {
		if m.pc < 0 || m.pc >= len(m.prog) {
			return errAbort{"pc out of bounds"}
		}
		op := m.prog[m.pc]
		m.pc++
		switch op {
		case opHalt:
			return nil
		case opSetA:
			m.a = uint32(m.arg())
		case opSetB:
			m.b = uint32(m.arg())
		case opSetC:
			m.c = uint32(m.arg())
		case opSetD:
			m.d = uint32(m.arg())
		case opAddA:
			m.a += m.b
		case opSubA:
			m.a -= m.b
		case opXorA:
			m.a ^= m.b
		case opAndA:
			m.a &= m.b
		case opShlA:
			m.a <<= uint(m.arg())
		case opShrA:
			m.a >>= uint(m.arg())
		case opMovAB:
			m.b = m.a
		case opMovBA:
			m.a = m.b
		case opMovAC:
			m.c = m.a
		case opMovCA:
			m.a = m.c
		case opMovAD:
			m.d = m.a
		case opMovDA:
			m.a = m.d
		case opLoadR:
			m.a = m.r[m.arg()]
		case opStoreR:
			m.r[m.arg()] = m.a
		case opLoadM:
			m.a = uint32(m.m[m.b&uint32(len(m.m)-1)])
		case opStoreM:
			m.m[m.b&uint32(len(m.m)-1)] = byte(m.a)
		case opHash:
			idx := m.d & uint32(len(m.h)-1)
			m.h[idx] = (m.h[idx] + m.a + 512) * 773
		case opHashD:
			idx := m.d & uint32(len(m.h)-1)
			m.h[idx] = m.h[idx]*773 + m.a + 1
		case opJmp:
			m.pc += int(int8(m.arg()))
		case opJz:
			rel := int8(m.arg())
			if m.a == 0 {
				m.pc += int(rel)
			}
		case opJnz:
			rel := int8(m.arg())
			if m.a != 0 {
				m.pc += int(rel)
			}
		case opOut:
			m.out = append(m.out, byte(m.a))
		default:
			return errAbort{"invalid opcode"}
		}
	}
	return errAbort{"program did not halt"}
}

func (m *vm) arg() byte {
	if m.pc >= len(m.prog) {
		return 0
	}
	b := m.prog[m.pc]
	m.pc++
	return b
}
