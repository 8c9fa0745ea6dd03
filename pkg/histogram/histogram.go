// Package histogram renders a day's category timeline for the terminal.
package histogram

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dayscore-dev/dayscore/pkg/blocks"
	"github.com/dayscore-dev/dayscore/pkg/category"
	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

// cellMinutes is the resolution of the strip: one cell per quarter hour.
const cellMinutes = 15

// categoryColor maps each category to a stable terminal color.
func categoryColor(c category.Category) *color.Color {
	switch c {
	case category.Core:
		return color.New(color.FgGreen)
	case category.SelfCare:
		return color.New(color.FgCyan)
	case category.Peripheral:
		return color.New(color.FgYellow)
	case category.Waste:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

func categoryGlyph(c category.Category) string {
	switch c {
	case category.Core:
		return "█"
	case category.SelfCare:
		return "▓"
	case category.Peripheral:
		return "▒"
	case category.Waste:
		return "░"
	default:
		return "·"
	}
}

// Strip draws a 24-hour bar with one colored cell per quarter hour, plus an
// hour axis underneath.
func Strip(minutes []category.Category) string {
	var b strings.Builder
	b.WriteString("    ")
	for cell := 0; cell*cellMinutes < len(minutes); cell++ {
		c := minutes[cell*cellMinutes]
		b.WriteString(categoryColor(c).Sprint(categoryGlyph(c)))
	}
	b.WriteString("\n    ")
	for h := 0; h < 24; h += 3 {
		b.WriteString(fmt.Sprintf("%-12d", h))
	}
	b.WriteString("\n")
	return b.String()
}

// BlockTable lists the day's blocks with time span and duration.
func BlockTable(seg blocks.Segmentation) string {
	var b strings.Builder
	for _, blk := range seg.Blocks {
		c, _ := category.Parse(blk.Label)
		line := fmt.Sprintf("%s → %s  %-12s %4dm",
			timeparse.Format(blk.Start),
			timeparse.Format(blk.Start+blk.Duration),
			blk.Name,
			blk.Duration)
		b.WriteString("    " + categoryColor(c).Sprint(line) + "\n")
	}
	return b.String()
}

// Legend names the category glyphs used by Strip.
func Legend() string {
	var parts []string
	for _, c := range category.All() {
		parts = append(parts, categoryColor(c).Sprintf("%s %s", categoryGlyph(c), c))
	}
	return "    " + strings.Join(parts, "  ") + "\n"
}
