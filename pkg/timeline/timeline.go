// Package timeline normalizes labeled day intervals into a complete,
// non-overlapping minute-resolution schedule.
//
// Two normalization strategies exist for two data-quality assumptions:
// Lenient resolves conflicts (first interval wins) and fills gaps with the
// unscheduled sentinel, which suits third-party calendar exports. Strict
// rejects any overlap or coverage gap outright, which suits directly
// authored schedules.
package timeline

import (
	"fmt"
	"sort"

	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

// GapLabel marks minutes no interval claimed on the lenient path.
const GapLabel = "unscheduled"

// Interval is one labeled span of the day. Start is inclusive, End
// exclusive, both in [0, 1440].
type Interval struct {
	Label string
	Start int
	End   int
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s-%s %q", timeparse.Format(iv.Start), timeparse.Format(iv.End), iv.Label)
}

// Strategy selects how raw intervals become a full-coverage timeline.
type Strategy int

const (
	// Lenient merges overlaps (first wins) and fills gaps.
	Lenient Strategy = iota
	// Strict fails on any overlap or incomplete coverage.
	Strict
)

// OverlapError reports two intervals claiming the same minute on the
// strict path.
type OverlapError struct {
	Interval Interval
	Minute   int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping schedule at %s (interval %s)", timeparse.Format(e.Minute), e.Interval)
}

// CoverageError reports a strict-path schedule whose union is not the full
// day.
type CoverageError struct {
	FirstGap int
	Missing  int
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("schedule does not cover the full 24h day: %d minutes missing, first gap at %s",
		e.Missing, timeparse.Format(e.FirstGap))
}

// Normalize turns raw intervals into a sorted, non-overlapping timeline
// covering exactly [0, 1440) according to the chosen strategy.
func Normalize(rows []Interval, strategy Strategy) ([]Interval, error) {
	for _, iv := range rows {
		if iv.Start < 0 || iv.End > timeparse.MinutesPerDay || iv.Start >= iv.End {
			return nil, fmt.Errorf("invalid interval %s", iv)
		}
	}
	switch strategy {
	case Strict:
		if err := Validate(rows); err != nil {
			return nil, err
		}
		return SortByStart(rows), nil
	case Lenient:
		return FillGaps(MergeOverlapping(SortByStart(rows)), GapLabel), nil
	default:
		return nil, fmt.Errorf("unknown normalization strategy %d", strategy)
	}
}

// SortByStart returns a copy of rows ordered by start minute. The sort is
// stable so ties keep input order, which the first-wins merge depends on.
func SortByStart(rows []Interval) []Interval {
	sorted := make([]Interval, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return sorted
}

// MergeOverlapping resolves conflicts in start-sorted intervals. The first
// interval to claim a minute keeps it; later overlapping intervals are
// truncated to their uncovered tail or dropped entirely.
func MergeOverlapping(sorted []Interval) []Interval {
	merged := make([]Interval, 0, len(sorted))
	covered := 0
	for _, iv := range sorted {
		switch {
		case iv.Start >= covered:
			merged = append(merged, iv)
			covered = iv.End
		case iv.End > covered:
			merged = append(merged, Interval{Label: iv.Label, Start: covered, End: iv.End})
			covered = iv.End
		default:
			// Entirely inside already-covered territory.
		}
	}
	return merged
}

// FillGaps completes a sorted, non-overlapping interval list to full day
// coverage by emitting synthetic gapLabel intervals for unclaimed spans.
// The result is gap-free and overlap-free by construction, and the
// operation is idempotent on already-complete input.
func FillGaps(rows []Interval, gapLabel string) []Interval {
	filled := make([]Interval, 0, len(rows)+2)
	cursor := 0
	for _, iv := range rows {
		if iv.Start > cursor {
			filled = append(filled, Interval{Label: gapLabel, Start: cursor, End: iv.Start})
		}
		start := iv.Start
		if start < cursor {
			start = cursor
		}
		if start < iv.End {
			filled = append(filled, Interval{Label: iv.Label, Start: start, End: iv.End})
			cursor = iv.End
		}
	}
	if cursor < timeparse.MinutesPerDay {
		filled = append(filled, Interval{Label: gapLabel, Start: cursor, End: timeparse.MinutesPerDay})
	}
	return filled
}

// Validate checks that rows cover every minute of the day exactly once.
// It never repairs: the first double-claimed minute yields an OverlapError
// and incomplete coverage yields a CoverageError.
func Validate(rows []Interval) error {
	var claimed [timeparse.MinutesPerDay]bool
	for _, iv := range rows {
		for t := iv.Start; t < iv.End; t++ {
			if claimed[t] {
				return &OverlapError{Minute: t, Interval: iv}
			}
			claimed[t] = true
		}
	}
	missing := 0
	firstGap := -1
	for t, ok := range claimed {
		if !ok {
			missing++
			if firstGap < 0 {
				firstGap = t
			}
		}
	}
	if missing > 0 {
		return &CoverageError{FirstGap: firstGap, Missing: missing}
	}
	return nil
}

// Minutes expands a complete normalized timeline into one label per minute.
// Full coverage and non-overlap must already hold; a violation here is a
// fatal input error, never silently repaired.
func Minutes(rows []Interval) ([]string, error) {
	minutes := make([]string, timeparse.MinutesPerDay)
	cursor := 0
	for _, iv := range rows {
		if iv.Start != cursor {
			return nil, fmt.Errorf("timeline not contiguous at %s (interval %s)", timeparse.Format(cursor), iv)
		}
		if iv.End <= iv.Start || iv.End > timeparse.MinutesPerDay {
			return nil, fmt.Errorf("invalid interval %s", iv)
		}
		for t := iv.Start; t < iv.End; t++ {
			minutes[t] = iv.Label
		}
		cursor = iv.End
	}
	if cursor != timeparse.MinutesPerDay {
		return nil, &CoverageError{FirstGap: cursor, Missing: timeparse.MinutesPerDay - cursor}
	}
	return minutes, nil
}

// Labels returns the distinct labels of a timeline in first-seen order.
func Labels(rows []Interval) []string {
	seen := make(map[string]bool, len(rows))
	var labels []string
	for _, iv := range rows {
		if !seen[iv.Label] {
			seen[iv.Label] = true
			labels = append(labels, iv.Label)
		}
	}
	return labels
}
