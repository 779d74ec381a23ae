package source

import (
	"context"

	"github.com/lysyi3m/regwatch/app/feed"
)

// FeedAdapter reads RSS, Atom and JSON Feed documents.
type FeedAdapter struct {
	base
	parser *feed.Parser
}

func (a *FeedAdapter) Fetch(ctx context.Context) ([]feed.Item, error) {
	data, err := a.fetch(ctx, a.config.URL, "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if err != nil {
		return nil, err
	}

	entries, err := a.parser.Run(data)
	if err != nil {
		return nil, err
	}

	return a.builder().build(entries, false), nil
}
