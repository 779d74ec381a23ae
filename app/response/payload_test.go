package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/regwatch/app/aggregate"
	"github.com/lysyi3m/regwatch/app/feed"
)

var generatedAt = time.Date(2026, 2, 20, 18, 30, 0, 0, time.UTC)

func sampleResult() *aggregate.Result {
	published := time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	items := []feed.Item{
		{
			ID: "tceq-1-a", Title: "Comment period on Austin wastewater permit", Link: "https://tceq.gov/a",
			Source: "TCEQ", Category: feed.CategoryWater, Location: feed.LocationAustin,
			Impact: feed.ImpactHigh, Deadline: &deadline, Type: feed.DocTypePermit,
			Tags: []string{"urgent", "deadline", "comment-period", "permit"},
		},
		{
			ID: "epa-1-b", Title: "Ozone plan & Houston", Link: "https://epa.gov/b?x=1&y=2",
			Source: "EPA", PublishedAt: &published, Impact: feed.ImpactLow,
		},
		{
			ID: "tceq-2-c", Title: "Another", Link: "https://tceq.gov/c",
			Source: "TCEQ", Impact: feed.ImpactMedium,
		},
	}

	stats := aggregate.Summarize(items)
	stats.SuccessfulSources = 2
	stats.FailedSources = 1

	return &aggregate.Result{
		Profile:     feed.ProfileRegulatory,
		Items:       items,
		Stats:       stats,
		GeneratedAt: generatedAt,
	}
}

func TestBuild(t *testing.T) {
	payload := Build(sampleResult())

	assert.Equal(t, feed.ProfileRegulatory, payload.Profile)
	assert.Equal(t, 3, payload.Count)
	assert.Len(t, payload.Items, payload.Count)
	assert.Equal(t, "2026-02-20T18:30:00Z", payload.GeneratedAt)
	assert.Equal(t, []string{"TCEQ", "EPA"}, payload.Sources)
	assert.Len(t, payload.FocusAreas, len(feed.Categories))
	assert.Contains(t, payload.FocusAreas, "Water Quality")
	assert.Empty(t, payload.Error)
	assert.Equal(t, 1, payload.Stats.FailedSources)
}

func TestBuild_JSONShape(t *testing.T) {
	data, err := json.Marshal(Build(sampleResult()))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.NotContains(t, doc, "error")
	assert.Equal(t, 3.0, doc["count"])

	items := doc["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "2026-03-03", first["deadline"])
	assert.Equal(t, "permit", first["type"])
	assert.NotContains(t, first, "publishedAt")

	second := items[1].(map[string]any)
	assert.Equal(t, "General", second["category"])
	assert.Equal(t, "Statewide", second["location"])
	assert.Equal(t, "2026-02-18T15:00:00Z", second["publishedAt"])
	assert.NotContains(t, second, "deadline")
	assert.NotContains(t, second, "tags")

	stats := doc["stats"].(map[string]any)
	assert.Equal(t, 2.0, stats["successfulSources"])
	assert.Equal(t, 2.0, stats["bySource"].(map[string]any)["TCEQ"])
}

func TestBuild_Empty(t *testing.T) {
	payload := Build(&aggregate.Result{
		Profile:     feed.ProfileNews,
		Stats:       aggregate.Summarize(nil),
		GeneratedAt: generatedAt,
	})

	assert.NotNil(t, payload.Items)
	assert.Equal(t, 0, payload.Count)
	assert.Equal(t, aggregate.EmptyMessage, payload.Error)
	assert.Equal(t, []string{}, payload.Sources)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
}

func TestFault(t *testing.T) {
	payload := Fault(feed.ProfileNews, generatedAt)

	assert.Equal(t, 0, payload.Count)
	assert.NotNil(t, payload.Items)
	assert.NotEmpty(t, payload.Error)
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name    string
		profile feed.Profile
		empty   bool
		maxAge  int
		want    string
	}{
		{"news", feed.ProfileNews, false, 1800, "public, max-age=900, s-maxage=1800, stale-while-revalidate=3600"},
		{"news empty", feed.ProfileNews, true, 1800, "public, max-age=60"},
		{"news caching disabled", feed.ProfileNews, false, 0, NoStore},
		{"regulatory", feed.ProfileRegulatory, false, 1800, NoStore},
		{"regulatory empty", feed.ProfileRegulatory, true, 1800, NoStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheControl(tt.profile, tt.empty, tt.maxAge))
		})
	}
}
