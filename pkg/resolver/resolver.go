// Package resolver maps free-text activity labels to semantic categories.
//
// Resolution order is builtin table, then cache, then classification
// oracle. Labels the oracle keeps omitting are retried as a shrinking
// batch and finally forced to the safe default category: one bad label
// must never abort scoring of an otherwise valid day.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dayscore-dev/dayscore/pkg/category"
)

// retryBudget bounds how many extra oracle calls a missing label gets.
const retryBudget = 2

// previewLimit caps how many offending labels an UnknownActivityError names.
const previewLimit = 10

// ErrMalformedResponse marks an oracle answer that was not valid structured
// data. Implementations wrap it; the resolver treats the attempt as "all
// requested labels missing" and keeps going, rather than failing the run.
var ErrMalformedResponse = errors.New("malformed oracle response")

// Oracle is an external classification capability.
type Oracle interface {
	// ClassifyMany resolves activity labels to categories in one batched
	// call. An empty label list is a no-op. The response may omit labels
	// or carry invalid categories; omissions are not an error.
	ClassifyMany(ctx context.Context, labels []string, goals string) (map[string]category.Category, error)
}

// Cache is a caller-owned store of previously resolved labels. The
// resolver reads it and appends to it but never deletes from it.
type Cache interface {
	Lookup(label string) (category.Category, bool)
	Store(label string, c category.Category)
}

// UnknownActivityError reports labels that could not be resolved without an
// oracle, naming a bounded preview of the offenders.
type UnknownActivityError struct {
	Labels []string // sorted, complete
}

func (e *UnknownActivityError) Error() string {
	preview := e.Labels
	suffix := ""
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
		suffix = "..."
	}
	return fmt.Sprintf("unknown activity label(s): %s%s", strings.Join(preview, ", "), suffix)
}

// Resolver resolves labels for one scoring session. All fields are fixed
// at construction; the cache is the only shared mutable collaborator.
type Resolver struct {
	builtin map[string]category.Category
	cache   Cache
	oracle  Oracle
	logger  *slog.Logger
	goals   string
	strict  bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache attaches a caller-owned result cache.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithOracle attaches the classification oracle for unknown labels.
func WithOracle(o Oracle) Option {
	return func(r *Resolver) { r.oracle = o }
}

// WithGoals sets the goals context passed to the oracle.
func WithGoals(goals string) Option {
	return func(r *Resolver) { r.goals = goals }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithStrict makes exhausted retries an error instead of defaulting the
// leftover labels. The lenient default matches the reference behavior.
func WithStrict() Option {
	return func(r *Resolver) { r.strict = true }
}

// New builds a Resolver over the validated builtin activity table.
func New(opts ...Option) (*Resolver, error) {
	builtin, err := category.BuiltinMap()
	if err != nil {
		return nil, fmt.Errorf("building builtin activity map: %w", err)
	}
	r := &Resolver{
		builtin: builtin,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Normalize canonicalizes an activity label for lookup.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Resolve returns a complete mapping covering every requested label. Input
// labels are normalized before lookup, and the returned map is keyed by the
// normalized form.
func (r *Resolver) Resolve(ctx context.Context, labels []string) (map[string]category.Category, error) {
	resolved := make(map[string]category.Category, len(labels))
	var missing []string
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		key := Normalize(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if c, ok := r.builtin[key]; ok {
			resolved[key] = c
			continue
		}
		if r.cache != nil {
			if c, ok := r.cache.Lookup(key); ok {
				resolved[key] = c
				continue
			}
		}
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return resolved, nil
	}
	sort.Strings(missing)

	if r.oracle == nil {
		return nil, &UnknownActivityError{Labels: missing}
	}

	// Bounded iterative retry over the shrinking missing subset. Attempt
	// count is deliberately not call-stack depth.
	for attempt := 0; attempt <= retryBudget && len(missing) > 0; attempt++ {
		if attempt > 0 {
			r.logger.Debug("retrying oracle for missing labels", "attempt", attempt, "labels", missing)
		}
		classified, err := r.oracle.ClassifyMany(ctx, missing, r.goals)
		if err != nil {
			if errors.Is(err, ErrMalformedResponse) {
				r.logger.Warn("oracle returned malformed response, treating batch as missing",
					"attempt", attempt, "error", err)
				continue
			}
			return nil, fmt.Errorf("classifying activities: %w", err)
		}
		var still []string
		for _, label := range missing {
			if c, ok := classified[label]; ok {
				if _, valid := category.Parse(string(c)); valid {
					resolved[label] = c
					if r.cache != nil {
						r.cache.Store(label, c)
					}
					continue
				}
			}
			still = append(still, label)
		}
		missing = still
	}

	if len(missing) > 0 {
		if r.strict {
			return nil, &UnknownActivityError{Labels: missing}
		}
		for _, label := range missing {
			r.logger.Warn("giving up on activity label, using default category",
				"label", label, "category", category.Default)
			resolved[label] = category.Default
		}
	}
	return resolved, nil
}
