package aggregate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/regwatch/app/feed"
)

func TestDedup(t *testing.T) {
	items := []feed.Item{
		item("TCEQ", "Air permit renewed", "https://tceq.gov/a", nil),
		item("TCEQ", "AIR PERMIT RENEWED", "https://tceq.gov/b", nil),
		item("EPA", "Air permit renewed", "https://epa.gov/c", nil),
		item("EPA", "Different title", "https://EPA.gov/c?utm_campaign=x", nil),
	}

	kept := Dedup(items)
	require.Len(t, kept, 2)
	assert.Equal(t, "https://tceq.gov/a", kept[0].Link)
	assert.Equal(t, "https://epa.gov/c", kept[1].Link, "same title from another source is kept")
}

func TestDedup_EitherKeyDropsButBothAreRecorded(t *testing.T) {
	items := []feed.Item{
		item("A", "First", "https://a.gov/1", nil),
		// Link seen: dropped, and its title key is not recorded.
		item("A", "Second", "https://a.gov/1", nil),
		item("A", "Second", "https://a.gov/2", nil),
	}

	kept := Dedup(items)
	require.Len(t, kept, 2)
	assert.Equal(t, "Second", kept[1].Title)
	assert.Equal(t, "https://a.gov/2", kept[1].Link)
}

func TestDedup_EmptyInput(t *testing.T) {
	kept := Dedup(nil)
	assert.NotNil(t, kept)
	assert.Empty(t, kept)
}

func TestTitleKey_Bounded(t *testing.T) {
	long := strings.Repeat("x", 200)
	a := item("S", long+"tail-one", "https://s.gov/1", nil)
	b := item("S", long+"tail-two", "https://s.gov/2", nil)

	assert.Equal(t, TitleKey(a), TitleKey(b))
	assert.Len(t, TitleKey(a), len("s|")+titleKeyLen)
}

func TestSort(t *testing.T) {
	deadline := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	items := []feed.Item{
		item("A", "old", "https://a.gov/old", at(1)),
		item("A", "undated", "https://a.gov/undated", nil),
		item("A", "recent-1", "https://a.gov/r1", at(18)),
		{Title: "deadline-only", Link: "https://a.gov/d", Source: "A", Deadline: &deadline},
		item("A", "recent-2", "https://a.gov/r2", at(18)),
		{Title: "stale-with-deadline", Link: "https://a.gov/s", Source: "A", PublishedAt: at(2), Deadline: &deadline},
	}

	Sort(items)

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{"deadline-only", "stale-with-deadline", "recent-1", "recent-2", "old", "undated"}, titles)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].PrimaryTime().After(items[i-1].PrimaryTime()))
	}
}

func TestSummarize(t *testing.T) {
	items := []feed.Item{
		{Source: "TCEQ", Category: feed.CategoryAir, Location: feed.LocationHouston, Impact: feed.ImpactHigh},
		{Source: "TCEQ", Category: feed.CategoryAir, Impact: feed.ImpactLow},
		{Source: "EPA", Location: feed.LocationHouston, Impact: feed.ImpactLow},
	}

	stats := Summarize(items)
	assert.Equal(t, map[string]int{"Air Quality": 2, "General": 1}, stats.ByCategory)
	assert.Equal(t, map[string]int{"Houston": 2, "Statewide": 1}, stats.ByLocation)
	assert.Equal(t, map[string]int{"TCEQ": 2, "EPA": 1}, stats.BySource)
	assert.Equal(t, map[string]int{"high": 1, "low": 2}, stats.ByImpact)
}
