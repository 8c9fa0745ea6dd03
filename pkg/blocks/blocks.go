// Package blocks collapses a minute-resolution timeline into maximal
// contiguous same-label runs.
package blocks

import "fmt"

// Block is one maximal run of consecutive minutes sharing a label. Name is
// "{label}_{ordinal}" with a run-global ordinal, so recurring labels still
// get unique block names.
type Block struct {
	Name     string
	Label    string
	Start    int
	Duration int
}

// Segmentation is the block decomposition of one day.
type Segmentation struct {
	Blocks   []Block  // temporal order
	ByMinute []string // block name at each minute
}

// Segment scans the timeline left to right; a new block begins whenever the
// label changes. Block durations always sum to len(minutes).
func Segment(minutes []string) Segmentation {
	seg := Segmentation{ByMinute: make([]string, len(minutes))}
	prev := ""
	for t, label := range minutes {
		if t == 0 || label != prev {
			seg.Blocks = append(seg.Blocks, Block{
				Name:  fmt.Sprintf("%s_%d", label, len(seg.Blocks)),
				Label: label,
				Start: t,
			})
		}
		last := &seg.Blocks[len(seg.Blocks)-1]
		last.Duration++
		seg.ByMinute[t] = last.Name
		prev = label
	}
	return seg
}

// Durations maps block name to duration in minutes.
func (s Segmentation) Durations() map[string]int {
	d := make(map[string]int, len(s.Blocks))
	for _, b := range s.Blocks {
		d[b.Name] = b.Duration
	}
	return d
}
