// Package dayscore scores how a single 24-hour day was spent.
//
// The pipeline is strictly top to bottom: raw intervals are normalized
// into a complete label timeline, labels resolve to categories, and two
// independent scorers consume the category timeline. Everything but the
// oracle call is pure and synchronous.
package dayscore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dayscore-dev/dayscore/pkg/blocks"
	"github.com/dayscore-dev/dayscore/pkg/category"
	"github.com/dayscore-dev/dayscore/pkg/entropy"
	"github.com/dayscore-dev/dayscore/pkg/focus"
	"github.com/dayscore-dev/dayscore/pkg/resolver"
	"github.com/dayscore-dev/dayscore/pkg/timeline"
)

// Day couples the two score records for one scored day.
type Day struct {
	Timeline []timeline.Interval
	Minutes  []category.Category
	Entropy  entropy.Result
	Focus    focus.Result
}

// Scorer runs the scoring pipeline. All configuration is fixed at
// construction; one Scorer may score many days.
type Scorer struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
	weights  map[category.Pair]float64
}

type options struct {
	cache        resolver.Cache
	oracle       resolver.Oracle
	logger       *slog.Logger
	weights      map[category.Pair]float64
	goals        string
	strictLabels bool
}

// Option configures a Scorer.
type Option func(*options)

// WithOracle attaches the classification oracle for unknown labels.
func WithOracle(o resolver.Oracle) Option {
	return func(opts *options) { opts.oracle = o }
}

// WithCache attaches a caller-owned label cache.
func WithCache(c resolver.Cache) Option {
	return func(opts *options) { opts.cache = c }
}

// WithGoals sets the goals context passed to the oracle.
func WithGoals(goals string) Option {
	return func(opts *options) { opts.goals = goals }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) { opts.logger = logger }
}

// WithWeights overrides the switch-weight matrix. The matrix is validated
// at construction; missing or extra pairs are fatal.
func WithWeights(w map[category.Pair]float64) Option {
	return func(opts *options) { opts.weights = w }
}

// WithStrictLabels fails on labels the oracle never resolves instead of
// defaulting them.
func WithStrictLabels() Option {
	return func(opts *options) { opts.strictLabels = true }
}

// New builds a Scorer, validating the switch-weight matrix and the builtin
// activity table up front.
func New(opts ...Option) (*Scorer, error) {
	o := &options{
		logger:  slog.Default(),
		weights: category.DefaultSwitchWeights(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := category.ValidateWeights(o.weights); err != nil {
		return nil, fmt.Errorf("switch weights: %w", err)
	}

	resolverOpts := []resolver.Option{
		resolver.WithLogger(o.logger),
		resolver.WithGoals(o.goals),
	}
	if o.cache != nil {
		resolverOpts = append(resolverOpts, resolver.WithCache(o.cache))
	}
	if o.oracle != nil {
		resolverOpts = append(resolverOpts, resolver.WithOracle(o.oracle))
	}
	if o.strictLabels {
		resolverOpts = append(resolverOpts, resolver.WithStrict())
	}
	res, err := resolver.New(resolverOpts...)
	if err != nil {
		return nil, err
	}
	return &Scorer{
		resolver: res,
		logger:   o.logger,
		weights:  o.weights,
	}, nil
}

// ScoreDay normalizes one day of raw intervals and computes both scores.
func (s *Scorer) ScoreDay(ctx context.Context, rows []timeline.Interval, strategy timeline.Strategy) (*Day, error) {
	norm, err := timeline.Normalize(rows, strategy)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.Resolve(ctx, timeline.Labels(norm))
	if err != nil {
		return nil, err
	}
	return s.scoreResolved(norm, resolved)
}

// ScoreDays scores many days in one session. Unknown labels are unioned
// across all days and resolved in one shared oracle batch; days then score
// concurrently, since scoring is side-effect-free once the category map is
// available.
func (s *Scorer) ScoreDays(ctx context.Context, days [][]timeline.Interval, strategy timeline.Strategy) ([]*Day, error) {
	normalized := make([][]timeline.Interval, len(days))
	var labels []string
	for i, rows := range days {
		norm, err := timeline.Normalize(rows, strategy)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		normalized[i] = norm
		labels = append(labels, timeline.Labels(norm)...)
	}
	resolved, err := s.resolver.Resolve(ctx, labels)
	if err != nil {
		return nil, err
	}

	results := make([]*Day, len(days))
	errs := make([]error, len(days))
	var wg sync.WaitGroup
	for i := range normalized {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day, err := s.scoreResolved(normalized[i], resolved)
			if err != nil {
				errs[i] = fmt.Errorf("day %d: %w", i, err)
				return
			}
			results[i] = day
		}(i)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// scoreResolved computes both scores for an already-normalized timeline
// with a complete label-to-category map.
func (s *Scorer) scoreResolved(norm []timeline.Interval, resolved map[string]category.Category) (*Day, error) {
	minuteLabels, err := timeline.Minutes(norm)
	if err != nil {
		return nil, err
	}

	cats := make([]category.Category, len(minuteLabels))
	catLabels := make([]string, len(minuteLabels))
	for t, label := range minuteLabels {
		c, ok := resolved[resolver.Normalize(label)]
		if !ok {
			return nil, fmt.Errorf("unresolved label %q at minute %d", label, t)
		}
		cats[t] = c
		catLabels[t] = string(c)
	}

	ent := entropy.Score(blocks.Segment(catLabels))
	foc, err := focus.Score(cats, s.weights)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scored day",
		"blocks", ent.K,
		"antientropy", ent.Antientropy,
		"switches", foc.Switches,
		"focus", foc.Focus)
	return &Day{
		Timeline: norm,
		Minutes:  cats,
		Entropy:  ent,
		Focus:    foc,
	}, nil
}
