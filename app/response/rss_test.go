package response

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Run(t *testing.T) {
	generator := NewGenerator("1.2.3")

	rss, err := generator.Run(Build(sampleResult()), "https://regwatch.example/api/regulatory.xml", "https://regwatch.example")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rss, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, rss, "<title>Texas Regulatory Actions</title>")
	assert.Contains(t, rss, `<atom:link href="https://regwatch.example/api/regulatory.xml" rel="self" type="application/rss+xml" />`)
	assert.Contains(t, rss, "<lastBuildDate>Fri, 20 Feb 2026 18:30:00 +0000</lastBuildDate>")
	assert.Contains(t, rss, "<generator>regwatch/1.2.3</generator>")

	assert.Contains(t, rss, `<guid isPermaLink="false">tceq-1-a</guid>`)
	assert.Contains(t, rss, "<description>Deadline: 2026-03-03.</description>")
	assert.Contains(t, rss, "<category>Water Quality</category>")
	assert.Contains(t, rss, "<category>Austin</category>")
	assert.Contains(t, rss, "<category>impact:high</category>")
	assert.Contains(t, rss, "<category>type:permit</category>")
	assert.Contains(t, rss, "<category>comment-period</category>")

	assert.Contains(t, rss, "<title>Ozone plan &amp; Houston</title>")
	assert.Contains(t, rss, "<link>https://epa.gov/b?x=1&amp;y=2</link>")
	assert.Contains(t, rss, "<pubDate>Wed, 18 Feb 2026 15:00:00 +0000</pubDate>")
	assert.Contains(t, rss, "<category>Statewide</category>")
	assert.Contains(t, rss, "<description>No description available</description>")

	assert.Equal(t, 3, strings.Count(rss, "<item>"))

	var doc struct {
		Channel struct {
			Items []struct {
				Title string `xml:"title"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal([]byte(rss), &doc))
	require.Len(t, doc.Channel.Items, 3)
	assert.Equal(t, "Ozone plan & Houston", doc.Channel.Items[1].Title)
}

func TestGenerator_EmptyPayload(t *testing.T) {
	payload := Fault("news", generatedAt)

	rss, err := NewGenerator("dev").Run(payload, "", "https://regwatch.example")
	require.NoError(t, err)

	assert.Contains(t, rss, "<title>Texas Environmental News</title>")
	assert.NotContains(t, rss, "<item>")
	assert.NotContains(t, rss, "atom:link")
}
