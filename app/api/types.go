package api

import (
	"context"
	"time"

	"github.com/lysyi3m/regwatch/app/aggregate"
	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/response"
)

type AggregatorInterface interface {
	Run(ctx context.Context, profile feed.Profile) (*aggregate.Result, error)
	Sources(profile feed.Profile) []string
}

var _ AggregatorInterface = (*aggregate.Aggregator)(nil)

type GeneratorInterface interface {
	Run(payload response.Payload, selfLink, siteLink string) (string, error)
}

var _ GeneratorInterface = (*response.Generator)(nil)

type Handler struct {
	aggregator      AggregatorInterface
	generator       GeneratorInterface
	publicURL       func(path string) string
	requestTimeout  time.Duration
	newsCacheMaxAge int
	version         string
	now             func() time.Time
}

type Options struct {
	PublicURL       func(path string) string
	RequestTimeout  time.Duration
	NewsCacheMaxAge int
	Version         string
}

// Route paths per profile. The RSS variant appends ".xml".
var profileRoutes = map[feed.Profile]string{
	feed.ProfileNews:       "/api/feed",
	feed.ProfileRegulatory: "/api/regulatory",
}
