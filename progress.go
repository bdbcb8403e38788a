package lrzip

import (
	"time"

	"github.com/lrzipgo/lrzip/internal/container"
)

// Progress reports one completed chunk, the same shape as the teacher's
// pbzip2.Progress (Duration, Block, CRC, Compressed, Size) but widened
// with chunk, stream and codec fields. CompressTo sends one per chunk and
// fills in Duration, Chunk and Size only; Stream, Codec and Compressed
// are left zero.
type Progress struct {
	Duration   time.Duration
	Chunk      int
	Stream     int
	Codec      container.Codec
	Compressed int
	Size       int
}

func sendProgress(ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}
