// Package source fetches one upstream per adapter and maps its entries into
// classified feed items.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lysyi3m/regwatch/app/classify"
	"github.com/lysyi3m/regwatch/app/feed"
)

// Adapter owns one upstream endpoint. Fetch honours ctx; the aggregator sets
// the deadline from Timeout.
type Adapter interface {
	Name() string
	Kind() feed.Kind
	Timeout() time.Duration
	Fetch(ctx context.Context) ([]feed.Item, error)
}

// Deps are shared by every adapter. All fields are read-only after startup.
type Deps struct {
	Client       *http.Client
	UserAgent    string
	Classifier   *classify.Classifier
	Filterer     *feed.Filterer
	DocketAPIKey string
	Now          func() time.Time
}

// New builds the adapter for one source within a profile.
func New(sourceConfig *feed.Config, profile feed.Profile, deps Deps) (Adapter, error) {
	if deps.Client == nil {
		deps.Client = http.DefaultClient
	}
	if deps.Filterer == nil {
		deps.Filterer = feed.NewFilterer()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	b := base{
		config:  sourceConfig,
		profile: profile,
		deps:    deps,
	}

	switch sourceConfig.Kind {
	case feed.KindFeed:
		return &FeedAdapter{base: b, parser: feed.NewParser()}, nil
	case feed.KindDocket:
		return &DocketAdapter{base: b}, nil
	case feed.KindListing:
		return &ListingAdapter{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %s", feed.ErrUnknownKind, sourceConfig.Kind)
	}
}

// Build creates adapters for the given sources, keeping their order.
func Build(configs []*feed.Config, profile feed.Profile, deps Deps) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(configs))
	for _, c := range configs {
		adapter, err := New(c, profile, deps)
		if err != nil {
			return nil, fmt.Errorf("failed to build adapter for %s: %w", c.Name, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

type base struct {
	config  *feed.Config
	profile feed.Profile
	deps    Deps
}

func (b *base) Name() string {
	return b.config.Name
}

func (b *base) Kind() feed.Kind {
	return b.config.Kind
}

func (b *base) Timeout() time.Duration {
	return time.Duration(b.config.Settings.Timeout) * time.Second
}

func (b *base) builder() *builder {
	return &builder{
		config:     b.config,
		profile:    b.profile,
		classifier: b.deps.Classifier,
		filterer:   b.deps.Filterer,
		now:        b.deps.Now(),
	}
}
