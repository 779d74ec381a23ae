// Package aggregate runs every adapter of a profile concurrently, waits for
// all of them to settle and merges what they produced into one ranked,
// deduplicated result.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/metrics"
	"github.com/lysyi3m/regwatch/app/source"
)

var (
	ErrNoAdapters = errors.New("no adapters configured for profile")
	ErrMerge      = errors.New("failed to merge source results")
)

// EmptyMessage accompanies a result in which no source produced an item.
const EmptyMessage = "No items are available from any source right now. Please try again shortly."

// SourceOutcome is what one adapter produced during a pass.
type SourceOutcome struct {
	Name     string
	Kind     feed.Kind
	Items    []feed.Item
	Err      error
	Duration time.Duration
}

func (o SourceOutcome) Failed() bool {
	return o.Err != nil
}

type Result struct {
	Profile     feed.Profile
	Items       []feed.Item
	Stats       Stats
	Outcomes    []SourceOutcome
	GeneratedAt time.Time
}

// Empty reports the degraded-success case: the pass completed but nothing
// survived to the output.
func (r *Result) Empty() bool {
	return len(r.Items) == 0
}

// Aggregator holds the adapters of each profile. It keeps no state between
// passes and is safe for concurrent use.
type Aggregator struct {
	adapters map[feed.Profile][]source.Adapter
	maxItems map[feed.Profile]int
	now      func() time.Time
}

func New(adapters map[feed.Profile][]source.Adapter, maxItems map[feed.Profile]int, now func() time.Time) *Aggregator {
	metrics.Init()

	if now == nil {
		now = time.Now
	}

	return &Aggregator{
		adapters: adapters,
		maxItems: maxItems,
		now:      now,
	}
}

// Sources lists the adapter names of a profile in configuration order.
func (a *Aggregator) Sources(profile feed.Profile) []string {
	adapters := a.adapters[profile]
	names := make([]string, 0, len(adapters))
	for _, ad := range adapters {
		names = append(names, ad.Name())
	}
	return names
}

// Run performs one aggregation pass. Adapter failures never surface as an
// error; only a fault in the merge itself does.
func (a *Aggregator) Run(ctx context.Context, profile feed.Profile) (result *Result, err error) {
	adapters := a.adapters[profile]
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapters, profile)
	}

	start := time.Now()
	outcomes := a.fetchAll(ctx, adapters)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Aggregation merge panicked", "profile", profile, "panic", r)
			result, err = nil, fmt.Errorf("%w: %v", ErrMerge, r)
		}
	}()

	result = a.merge(profile, outcomes)

	duration := time.Since(start)
	metrics.ObserveAggregation(string(profile), len(result.Items), duration)
	slog.Info("Aggregation completed",
		"profile", profile,
		"items", len(result.Items),
		"fetched", result.Stats.FetchedItems,
		"duplicates", result.Stats.DuplicatesRemoved,
		"successful_sources", result.Stats.SuccessfulSources,
		"failed_sources", result.Stats.FailedSources,
		"duration", duration)

	return result, nil
}

// fetchAll is a settle-all join: every goroutine records its own outcome and
// returns nil, so no adapter cancels another.
func (a *Aggregator) fetchAll(ctx context.Context, adapters []source.Adapter) []SourceOutcome {
	outcomes := make([]SourceOutcome, len(adapters))

	var g errgroup.Group
	for i, ad := range adapters {
		g.Go(func() error {
			outcomes[i] = settle(ctx, ad)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

type fetched struct {
	items []feed.Item
	err   error
}

// settle runs one adapter under its own timeout. An adapter that ignores
// its context is abandoned when the timeout fires.
func settle(ctx context.Context, ad source.Adapter) SourceOutcome {
	timeout := ad.Timeout()
	if timeout <= 0 {
		timeout = feed.DefaultTimeout * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan fetched, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetched{err: fmt.Errorf("adapter panicked: %v", r)}
			}
		}()
		items, err := ad.Fetch(ctx)
		done <- fetched{items: items, err: err}
	}()

	outcome := SourceOutcome{Name: ad.Name(), Kind: ad.Kind()}
	select {
	case f := <-done:
		outcome.Items, outcome.Err = f.items, f.err
	case <-ctx.Done():
		outcome.Err = ctx.Err()
	}
	outcome.Duration = time.Since(start)

	status := metrics.StatusSuccess
	if outcome.Err != nil {
		outcome.Items = nil
		status = metrics.StatusError
		if errors.Is(outcome.Err, context.DeadlineExceeded) {
			status = metrics.StatusTimeout
		}
		slog.Warn("Source fetch failed",
			"source", outcome.Name,
			"kind", outcome.Kind,
			"status", status,
			"duration", outcome.Duration,
			"error", outcome.Err)
	} else {
		slog.Debug("Source fetched",
			"source", outcome.Name,
			"kind", outcome.Kind,
			"items", len(outcome.Items),
			"duration", outcome.Duration)
	}
	metrics.ObserveSourceFetch(outcome.Name, status, len(outcome.Items), outcome.Duration)

	return outcome
}

func (a *Aggregator) merge(profile feed.Profile, outcomes []SourceOutcome) *Result {
	var (
		all                []feed.Item
		successful, failed int
	)
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			continue
		}
		successful++
		all = append(all, o.Items...)
	}

	items := Dedup(all)
	duplicates := len(all) - len(items)

	Sort(items)

	if limit := a.maxItems[profile]; limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	stats := Summarize(items)
	stats.SuccessfulSources = successful
	stats.FailedSources = failed
	stats.FetchedItems = len(all)
	stats.DuplicatesRemoved = duplicates

	return &Result{
		Profile:     profile,
		Items:       items,
		Stats:       stats,
		Outcomes:    outcomes,
		GeneratedAt: a.now(),
	}
}
