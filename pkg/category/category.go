// Package category defines the fixed activity-category model used for
// scoring: the closed four-category set, the built-in activity tables, and
// the switch-weight matrix for category transitions.
package category

import (
	"fmt"
	"sort"
	"strings"
)

// Category is one of the closed set of semantic day-activity classes.
type Category string

const (
	Core       Category = "core"
	SelfCare   Category = "self-care"
	Peripheral Category = "peripheral"
	Waste      Category = "waste"
)

// Default is the safe fallback for labels the oracle never resolves.
const Default = Peripheral

// All lists the category set in a stable order.
func All() []Category {
	return []Category{Core, SelfCare, Peripheral, Waste}
}

// Parse normalizes text and reports whether it names a known category.
func Parse(text string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(text)))
	switch c {
	case Core, SelfCare, Peripheral, Waste:
		return c, true
	default:
		return "", false
	}
}

var coreActivities = []string{
	"work", "lecture", "lab", "coding",
	"class-english", "class-math", "class-science", "class-history", "class-pe",
	"study", "homework", "writing", "office-work", "meetings",
	"design", "product", "fundraising", "email", "paperwork",
	"ward-rounds", "clinic", "hospital-duty", "mining",
	"dance-practice", "vocal-practice", "rehearsal", "performance", "show", "media",
}

var selfCareActivities = []string{
	"sleep", "sleeping", "alarm", "hygiene", "bathroom", "brushing-teeth",
	"shower", "skincare", "getting-dressed",
	"breakfast", "lunch", "dinner", "snack", "break-snack", "food", "coffee",
	"commute", "walking", "walk", "bus-ride", "travel",
	"locker", "corridor", "packing-bag", "changing-clothes",
	"chores", "housework", "washing-dishes", "childcare", "errands",
	"exercise", "gym", "rest", "prepare-next-day", "self",
}

var wasteActivities = []string{
	"social-media", "phone-scrolling", "gaming", "tv",
}

var peripheralActivities = []string{
	"reading", "family", "socializing", "chatting-friends", "gardening",
}

// BuiltinMap builds the static label-to-category table. Construction fails
// if two groups claim the same label, so conflicts surface at startup
// rather than as nondeterministic lookups.
func BuiltinMap() (map[string]Category, error) {
	groups := []struct {
		category Category
		labels   []string
	}{
		{Core, coreActivities},
		{SelfCare, selfCareActivities},
		{Waste, wasteActivities},
		{Peripheral, peripheralActivities},
	}
	mapping := make(map[string]Category, 80)
	for _, g := range groups {
		for _, label := range g.labels {
			key := strings.ToLower(strings.TrimSpace(label))
			if existing, ok := mapping[key]; ok && existing != g.category {
				return nil, fmt.Errorf("activity %q mapped to both %s and %s", key, existing, g.category)
			}
			mapping[key] = g.category
		}
	}
	return mapping, nil
}

// Pair is an ordered category transition. Direction matters: the matrix is
// asymmetric (e.g. waste to core is free, core to waste is not).
type Pair struct {
	From Category
	To   Category
}

// DefaultSwitchWeights returns the transition penalty matrix.
func DefaultSwitchWeights() map[Pair]float64 {
	return map[Pair]float64{
		{Core, SelfCare}:       0.6,
		{Core, Waste}:          1.0,
		{Core, Peripheral}:     0.5,
		{SelfCare, Core}:       0.2,
		{SelfCare, Waste}:      0.7,
		{SelfCare, Peripheral}: 0.3,
		{Waste, Core}:          0.0,
		{Waste, SelfCare}:      0.4,
		{Waste, Peripheral}:    0.6,
		{Peripheral, Core}:     0.2,
		{Peripheral, SelfCare}: 0.4,
		{Peripheral, Waste}:    0.8,
	}
}

// ValidateWeights checks that a weight matrix defines a non-negative value
// for every ordered pair of distinct categories and nothing else. Missing
// or extra pairs are fatal at startup.
func ValidateWeights(weights map[Pair]float64) error {
	expected := make(map[Pair]bool)
	for _, from := range All() {
		for _, to := range All() {
			if from != to {
				expected[Pair{from, to}] = true
			}
		}
	}
	var missing, extra []string
	for p := range expected {
		if _, ok := weights[p]; !ok {
			missing = append(missing, fmt.Sprintf("%s->%s", p.From, p.To))
		}
	}
	for p, w := range weights {
		if !expected[p] {
			extra = append(extra, fmt.Sprintf("%s->%s", p.From, p.To))
		} else if w < 0 {
			return fmt.Errorf("negative switch weight for %s->%s", p.From, p.To)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	if len(missing) > 0 {
		return fmt.Errorf("missing switch weights for: %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		return fmt.Errorf("unexpected switch weights for: %s", strings.Join(extra, ", "))
	}
	return nil
}
