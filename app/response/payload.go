// Package response turns an aggregation result into the outbound JSON
// payload, its RSS rendering and the matching cache directives.
package response

import (
	"fmt"
	"time"

	"github.com/lysyi3m/regwatch/app/aggregate"
	"github.com/lysyi3m/regwatch/app/feed"
)

const (
	NoStore = "no-store"

	// emptyMaxAge keeps a degraded result cached briefly so dead upstreams
	// are not hammered, without pinning the empty answer for long.
	emptyMaxAge = 60
)

type Payload struct {
	Profile     feed.Profile    `json:"profile"`
	Items       []feed.Item     `json:"items"`
	Count       int             `json:"count"`
	GeneratedAt string          `json:"generatedAt"`
	Sources     []string        `json:"sources"`
	FocusAreas  []string        `json:"focusAreas"`
	Stats       aggregate.Stats `json:"stats"`
	Error       string          `json:"error,omitempty"`
}

// Build wraps a result. It has no side effects and reads the result only.
func Build(result *aggregate.Result) Payload {
	items := result.Items
	if items == nil {
		items = []feed.Item{}
	}

	payload := Payload{
		Profile:     result.Profile,
		Items:       items,
		Count:       len(items),
		GeneratedAt: result.GeneratedAt.UTC().Format(time.RFC3339),
		Sources:     Sources(items),
		FocusAreas:  FocusAreas(),
		Stats:       result.Stats,
	}

	if result.Empty() {
		payload.Error = aggregate.EmptyMessage
	}

	return payload
}

// Fault is the body served when the pass itself failed.
func Fault(profile feed.Profile, now time.Time) Payload {
	return Payload{
		Profile:     profile,
		Items:       []feed.Item{},
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Sources:     []string{},
		FocusAreas:  FocusAreas(),
		Stats:       aggregate.Summarize(nil),
		Error:       "Failed to aggregate sources",
	}
}

// Sources lists distinct item sources in order of first appearance.
func Sources(items []feed.Item) []string {
	seen := make(map[string]bool)
	sources := make([]string, 0)
	for _, item := range items {
		if !seen[item.Source] {
			seen[item.Source] = true
			sources = append(sources, item.Source)
		}
	}
	return sources
}

func FocusAreas() []string {
	areas := make([]string, 0, len(feed.Categories))
	for _, c := range feed.Categories {
		areas = append(areas, c.String())
	}
	return areas
}

// CacheControl returns the directive for a profile. News tolerates
// staleness: browsers keep it for half of sharedMaxAge and shared caches may
// serve it stale for twice as long while revalidating. Regulatory postings
// are never cached.
func CacheControl(profile feed.Profile, empty bool, sharedMaxAge int) string {
	if profile != feed.ProfileNews || sharedMaxAge <= 0 {
		return NoStore
	}
	if empty {
		return fmt.Sprintf("public, max-age=%d", emptyMaxAge)
	}
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d, stale-while-revalidate=%d",
		sharedMaxAge/2, sharedMaxAge, sharedMaxAge*2)
}
