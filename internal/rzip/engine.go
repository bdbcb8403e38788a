package rzip

import "hash/crc32"

// Engine performs one chunk's worth of rzip matching: it owns a hash
// table and hash-index constants for the lifetime of a single chunk, and
// is discarded at chunk end (spec.md §3, "A chunk's rzip state is
// initialized at chunk start and freed at chunk end").
type Engine struct {
	hashIndex [256]uint64
	table     *hashTable
	level     level
}

// NewEngine builds a fresh engine for one chunk at the given compression
// level (1..9).
func NewEngine(compressionLevel int) *Engine {
	lv := levelFor(compressionLevel)
	return &Engine{
		hashIndex: newHashIndex(),
		table:     newHashTable(lv),
		level:     lv,
	}
}

// candidate tracks the best pending match while scanning forward.
type candidate struct {
	start  int64
	length int64
	offset int64
}

// Run scans buf end to end, emitting literal and match records to sink
// and returning the CRC32 (reflected, IEEE polynomial) of buf in emission
// order — which for rzip is simply the CRC32 of buf itself, since every
// byte is reconstructed exactly once, in order.
func (e *Engine) Run(buf []byte, sink Sink) (uint32, error) {
	n := int64(len(buf))
	if n < minimumMatch {
		if n > 0 {
			if err := emitLiteral(sink, buf, 0, n); err != nil {
				return 0, err
			}
		}
		if err := sink.PutSentinel(); err != nil {
			return 0, err
		}
		return crc32.ChecksumIEEE(buf), nil
	}

	end := n - minimumMatch
	tagMask := (uint64(1) << e.level.initialFreq) - 1
	e.table.minTagMask = tagMask

	lastMatch := int64(0)
	cur := candidate{start: 0, length: 0}

	t := fullTag(&e.hashIndex, buf, 0)
	p := int64(0)

	for p < end {
		p++
		leaving := buf[p-1]
		entering := buf[p+minimumMatch-1]
		t = nextTag(&e.hashIndex, t, leaving, entering)

		if (t & e.table.minTagMask) != e.table.minTagMask {
			continue
		}

		mlen, offset, reverse := e.findBestMatch(t, buf, p, end, lastMatch)

		if (t & tagMask) == tagMask {
			e.table.count++
			e.table.insert(t, p)
			if e.table.count > e.table.limit {
				tagMask = e.table.cleanOne()
			}
		}

		if mlen > cur.length {
			cur.start = p - reverse
			cur.length = mlen
			cur.offset = offset
		}

		if (cur.length >= greatMatch || p >= cur.start+minimumMatch) && cur.length >= minimumMatch {
			if lastMatch < cur.start {
				if err := emitLiteral(sink, buf, lastMatch, cur.start); err != nil {
					return 0, err
				}
			}
			if err := emitMatch(sink, cur.start-cur.offset, cur.length); err != nil {
				return 0, err
			}
			lastMatch = cur.start + cur.length
			cur.start, p = lastMatch, lastMatch
			cur.length = 0
			if p < end {
				t = fullTag(&e.hashIndex, buf, int(p))
			}
		}
	}

	if lastMatch < n {
		if err := emitLiteral(sink, buf, lastMatch, n); err != nil {
			return 0, err
		}
	}
	if err := sink.PutSentinel(); err != nil {
		return 0, err
	}
	return crc32.ChecksumIEEE(buf), nil
}

// findBestMatch probes the primary bucket for t forward, extending every
// equal-tagged candidate and keeping the longest (first-equal wins on
// ties, matching the observed reference behaviour noted in spec.md §9).
func (e *Engine) findBestMatch(t uint64, buf []byte, p, end, lastMatch int64) (length, offset, reverse int64) {
	e.table.find(t, func(candOffset int64) {
		if candOffset >= p {
			return
		}
		mlen, rev := matchLen(buf, p, candOffset, end, lastMatch)
		if mlen > length {
			length = mlen
			offset = candOffset - rev
			reverse = rev
		}
	})
	return
}

// matchLen extends a candidate match forward from (p, op) while bytes
// agree, then backward through already-emitted bytes (never crossing
// lastMatch), matching spec.md §4.1's forward+backward extension rule.
func matchLen(buf []byte, p, op, end, lastMatch int64) (length, reverse int64) {
	if op >= p {
		return 0, 0
	}
	fp, fo := p, op
	for fp < end && buf[fp] == buf[fo] {
		fp++
		fo++
	}
	length = fp - p

	bp, bo := p, op
	boundary := lastMatch
	for bp > boundary && bo > 0 && buf[bo-1] == buf[bp-1] {
		bo--
		bp--
	}
	reverse = p - bp
	length += reverse

	if length < minimumMatch {
		return 0, 0
	}
	return length, reverse
}

func emitLiteral(sink Sink, buf []byte, from, to int64) error {
	for from < to {
		n := to - from
		if n > maxEmission {
			n = maxEmission
		}
		if err := sink.PutRecord(Record{Kind: KindLiteral, Length: n}); err != nil {
			return err
		}
		if err := sink.PutLiteralBytes(buf[from : from+n]); err != nil {
			return err
		}
		from += n
	}
	return nil
}

// emitMatch splits a long match into pieces of at most maxEmission bytes.
// The byte distance back to the source stays constant across pieces: both
// the write cursor and the read cursor advance by the same amount.
func emitMatch(sink Sink, distance, length int64) error {
	for length > 0 {
		n := length
		if n > maxEmission {
			n = maxEmission
		}
		if err := sink.PutRecord(Record{Kind: KindMatch, Length: n, Offset: distance}); err != nil {
			return err
		}
		length -= n
	}
	return nil
}
