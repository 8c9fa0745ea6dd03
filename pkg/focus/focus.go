// Package focus scores a day's category timeline by its weighted category
// switches and derives the inverse focus score.
package focus

import (
	"fmt"
	"math"

	"github.com/dayscore-dev/dayscore/pkg/category"
	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

// Result is the switch-penalty score record for one day.
type Result struct {
	Focus    float64 // 1000 / Penalty, +Inf when the day has no switches
	Penalty  float64 // accumulated switch weights
	Switches int     // number of category transitions
}

// Score scans minutes 1..1439 and accumulates the weight of every ordered
// category transition. A day with zero category changes is maximally
// focused by definition, so the zero divisor maps to +Inf explicitly.
func Score(categories []category.Category, weights map[category.Pair]float64) (Result, error) {
	if len(categories) != timeparse.MinutesPerDay {
		return Result{}, fmt.Errorf("category timeline has %d minutes, want %d", len(categories), timeparse.MinutesPerDay)
	}
	if err := category.ValidateWeights(weights); err != nil {
		return Result{}, fmt.Errorf("switch weights: %w", err)
	}

	var r Result
	for t := 1; t < timeparse.MinutesPerDay; t++ {
		prev, curr := categories[t-1], categories[t]
		if prev == curr {
			continue
		}
		r.Switches++
		r.Penalty += weights[category.Pair{From: prev, To: curr}]
	}
	if r.Penalty > 0 {
		r.Focus = 1000 / r.Penalty
	} else {
		r.Focus = math.Inf(1)
	}
	return r, nil
}
