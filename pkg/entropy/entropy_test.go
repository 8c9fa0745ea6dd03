package entropy

import (
	"math"
	"testing"

	"github.com/dayscore-dev/dayscore/pkg/blocks"
)

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func TestScoreSingleBlock(t *testing.T) {
	r := Score(blocks.Segment(repeat("sleep", 1440)))
	if r.K != 1 {
		t.Errorf("K = %d, want 1", r.K)
	}
	if r.H != 0 {
		t.Errorf("H = %v, want 0", r.H)
	}
	if !math.IsInf(r.Antientropy, 1) {
		t.Errorf("Antientropy = %v, want +Inf", r.Antientropy)
	}
}

func TestScoreTwoEqualBlocks(t *testing.T) {
	minutes := append(repeat("sleep", 720), repeat("work", 720)...)
	r := Score(blocks.Segment(minutes))

	wantH := math.Log(2)
	if math.Abs(r.H-wantH) > 1e-12 {
		t.Errorf("H = %v, want ln 2 = %v", r.H, wantH)
	}
	if r.K != 2 {
		t.Errorf("K = %d, want 2", r.K)
	}
	wantScaled := wantH / math.Log(1440) * 2
	if math.Abs(r.Scaled-wantScaled) > 1e-12 {
		t.Errorf("Scaled = %v, want %v", r.Scaled, wantScaled)
	}
	if math.Abs(r.Antientropy-1000/wantScaled) > 1e-9 {
		t.Errorf("Antientropy = %v, want %v", r.Antientropy, 1000/wantScaled)
	}
}

func TestScoreMaximallyFragmented(t *testing.T) {
	// One block per minute: entropy hits H_max and H_norm is exactly 1.
	minutes := make([]string, 1440)
	for i := range minutes {
		if i%2 == 0 {
			minutes[i] = "a"
		} else {
			minutes[i] = "b"
		}
	}
	r := Score(blocks.Segment(minutes))
	if r.K != 1440 {
		t.Fatalf("K = %d, want 1440", r.K)
	}
	if math.Abs(r.HNorm-1) > 1e-12 {
		t.Errorf("HNorm = %v, want 1", r.HNorm)
	}
}

func TestScoreBlockDurationsPreserved(t *testing.T) {
	minutes := append(repeat("a", 100), repeat("b", 1340)...)
	r := Score(blocks.Segment(minutes))
	total := 0
	for _, b := range r.Blocks {
		total += b.Duration
	}
	if total != 1440 {
		t.Errorf("block durations sum to %d, want 1440", total)
	}
}
