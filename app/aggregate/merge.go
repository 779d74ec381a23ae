package aggregate

import (
	"slices"

	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/normalize"
)

// Titles longer than this are cut before keying so that a trailing
// difference in very long titles does not defeat deduplication.
const titleKeyLen = 120

type Stats struct {
	ByCategory        map[string]int `json:"byCategory"`
	ByLocation        map[string]int `json:"byLocation"`
	BySource          map[string]int `json:"bySource"`
	ByImpact          map[string]int `json:"byImpact"`
	SuccessfulSources int            `json:"successfulSources"`
	FailedSources     int            `json:"failedSources"`
	FetchedItems      int            `json:"fetchedItems"`
	DuplicatesRemoved int            `json:"duplicatesRemoved"`
}

// Dedup keeps the first item for every canonical link and every
// source+title pair. An item is dropped when either of its keys was seen.
// The result is never nil.
func Dedup(items []feed.Item) []feed.Item {
	seen := make(map[string]struct{}, 2*len(items))
	kept := make([]feed.Item, 0, len(items))

	for _, item := range items {
		linkKey := "link:" + normalize.LinkKey(item.Link)
		titleKey := "title:" + TitleKey(item)

		if _, ok := seen[linkKey]; ok {
			continue
		}
		if _, ok := seen[titleKey]; ok {
			continue
		}

		seen[linkKey] = struct{}{}
		seen[titleKey] = struct{}{}
		kept = append(kept, item)
	}

	return kept
}

func TitleKey(item feed.Item) string {
	title := []rune(item.Title)
	if len(title) > titleKeyLen {
		title = title[:titleKeyLen]
	}
	return normalize.Fold(item.Source + "|" + string(title))
}

// Sort orders items newest first by primary time. Ties keep their order.
func Sort(items []feed.Item) {
	slices.SortStableFunc(items, func(a, b feed.Item) int {
		return b.PrimaryTime().Compare(a.PrimaryTime())
	})
}

// Summarize counts the items per category, location, source and impact.
// Unset category and location are counted under their display names.
func Summarize(items []feed.Item) Stats {
	stats := Stats{
		ByCategory: make(map[string]int),
		ByLocation: make(map[string]int),
		BySource:   make(map[string]int),
		ByImpact:   make(map[string]int),
	}

	for _, item := range items {
		stats.ByCategory[item.Category.String()]++
		stats.ByLocation[item.Location.String()]++
		stats.BySource[item.Source]++
		stats.ByImpact[string(item.Impact)]++
	}

	return stats
}
