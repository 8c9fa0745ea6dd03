// Package main implements the dayscore CLI for scoring a single day's
// schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dayscore-dev/dayscore/pkg/blocks"
	"github.com/dayscore-dev/dayscore/pkg/dayscore"
	"github.com/dayscore-dev/dayscore/pkg/gemini"
	"github.com/dayscore-dev/dayscore/pkg/histogram"
	"github.com/dayscore-dev/dayscore/pkg/labelcache"
	"github.com/dayscore-dev/dayscore/pkg/schedule"
	"github.com/dayscore-dev/dayscore/pkg/timeline"
)

var (
	csvPath      = flag.String("csv", "", "Path to a schedule CSV (start,end,activity), validated strictly")
	eventsPath   = flag.String("events", "", "Path to an exported calendar events JSON, normalized leniently")
	goals        = flag.String("goals", "", "Goals context for the classification oracle")
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	geminiModel  = flag.String("gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	cacheDir     = flag.String("cache-dir", "", "Label cache directory (or set CACHE_DIR)")
	noCache      = flag.Bool("no-cache", false, "Disable the label cache")
	strictLabels = flag.Bool("strict-labels", false, "Fail on labels the oracle never resolves instead of defaulting them")
	lenient      = flag.Bool("lenient", false, "Use lenient normalization (merge overlaps, fill gaps) even for CSV input")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("dayscore CLI v1.0.0")
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	if (*csvPath == "") == (*eventsPath == "") {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] --csv schedule.csv | --events events.json\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	rows, strategy, err := loadRows()
	if err != nil {
		logger.Error("loading schedule failed", "error", err)
		os.Exit(1)
	}

	opts := []dayscore.Option{
		dayscore.WithLogger(logger),
		dayscore.WithGoals(*goals),
	}

	var cache *labelcache.Store
	if !*noCache {
		dir := *cacheDir
		if dir == "" {
			if userCacheDir, err := os.UserCacheDir(); err == nil {
				dir = filepath.Join(userCacheDir, "dayscore")
			}
		}
		if dir != "" {
			cache, err = labelcache.Open(dir, logger)
			if err != nil {
				logger.Warn("label cache unavailable, continuing without it", "error", err)
			} else {
				opts = append(opts, dayscore.WithCache(cache))
				defer func() {
					if err := cache.Close(); err != nil {
						logger.Error("saving label cache failed", "error", err)
					}
				}()
			}
		}
	}

	if *geminiAPIKey != "" {
		oracle := gemini.New(
			gemini.WithAPIKey(*geminiAPIKey),
			gemini.WithModel(*geminiModel),
			gemini.WithLogger(logger),
		)
		opts = append(opts, dayscore.WithOracle(oracle))
	}
	if *strictLabels {
		opts = append(opts, dayscore.WithStrictLabels())
	}

	scorer, err := dayscore.New(opts...)
	if err != nil {
		logger.Error("building scorer failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	day, err := scorer.ScoreDay(ctx, rows, strategy)
	if err != nil {
		logger.Error("scoring failed", "error", err)
		os.Exit(1)
	}

	printDay(day)
}

func loadRows() ([]timeline.Interval, timeline.Strategy, error) {
	if *csvPath != "" {
		rows, err := schedule.LoadCSV(*csvPath)
		strategy := timeline.Strict
		if *lenient {
			strategy = timeline.Lenient
		}
		return rows, strategy, err
	}
	rows, err := schedule.LoadEventsJSON(*eventsPath)
	return rows, timeline.Lenient, err
}

func printDay(day *dayscore.Day) {
	fmt.Println("\n📅 Day Score")
	fmt.Println(strings.Repeat("─", 50))

	ent := day.Entropy
	fmt.Printf("🧮 Antientropy:   %s (K=%d blocks)\n", formatScore(ent.Antientropy), ent.K)
	fmt.Printf("   H=%.4g  H_max=%.4g  H_norm=%.4g  H_norm*K=%.4g\n", ent.H, ent.HMax, ent.HNorm, ent.Scaled)

	foc := day.Focus
	fmt.Printf("🎯 Focus:         %s (%d switches, penalty %.2f)\n", formatScore(foc.Focus), foc.Switches, foc.Penalty)

	fmt.Println("\n🕐 Timeline")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Print(histogram.Strip(day.Minutes))
	fmt.Print(histogram.Legend())

	catLabels := make([]string, len(day.Minutes))
	for i, c := range day.Minutes {
		catLabels[i] = string(c)
	}
	fmt.Println("\n📦 Blocks")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Print(histogram.BlockTable(blocks.Segment(catLabels)))
	fmt.Println()
}

func formatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.4g", v)
}
