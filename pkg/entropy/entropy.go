// Package entropy scores day fragmentation as normalized block entropy and
// derives its inverse, the antientropy score.
package entropy

import (
	"math"

	"github.com/dayscore-dev/dayscore/pkg/blocks"
	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

// Result is the entropy-variant score record for one day.
type Result struct {
	H           float64        // Shannon entropy over block-duration proportions
	HMax        float64        // ln(1440), a maximally fragmented day
	HNorm       float64        // H / HMax
	Scaled      float64        // HNorm * K
	Antientropy float64        // 1000 / Scaled, +Inf when Scaled is zero
	K           int            // distinct block count
	Blocks      []blocks.Block // temporal order
}

// Score computes the normalized block entropy of one day. A single block
// spanning the whole day has zero entropy and is defined as maximal,
// infinite antientropy; the zero divisor is special-cased explicitly
// rather than left to produce a numeric fault.
func Score(seg blocks.Segmentation) Result {
	r := Result{
		HMax:   math.Log(timeparse.MinutesPerDay),
		K:      len(seg.Blocks),
		Blocks: seg.Blocks,
	}
	for _, b := range seg.Blocks {
		p := float64(b.Duration) / timeparse.MinutesPerDay
		r.H -= p * math.Log(p)
	}
	r.HNorm = r.H / r.HMax
	r.Scaled = r.HNorm * float64(r.K)
	if r.Scaled > 0 {
		r.Antientropy = 1000 / r.Scaled
	} else {
		r.Antientropy = math.Inf(1)
	}
	return r
}
