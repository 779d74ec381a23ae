package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/regwatch/app/feed"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion(), "GetVersion should never return empty string")
}

func TestLoadArgs_Defaults(t *testing.T) {
	t.Setenv("TZ", "UTC")

	c, err := LoadArgs([]string{})
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 20*time.Second, c.RequestTimeout)
	assert.Empty(t, c.SourcesDir)
	assert.Equal(t, 100, c.NewsMaxItems)
	assert.Equal(t, 60, c.RegulatoryMaxItems)
	assert.Equal(t, 1800, c.NewsCacheMaxAge)
	assert.False(t, c.Debug)
	assert.Same(t, c, Get())
}

func TestLoadArgs_FlagsAndEnv(t *testing.T) {
	t.Setenv("REGULATIONS_GOV_API_KEY", "secret")
	t.Setenv("NEWS_MAX_ITEMS", "80")

	c, err := LoadArgs([]string{"--port", "9090", "--base-url", "https://regwatch.example/", "--debug", "--regulatory-max-items", "40"})
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "https://regwatch.example", c.BaseUrl)
	assert.Equal(t, "secret", c.DocketAPIKey)
	assert.Equal(t, 80, c.NewsMaxItems)
	assert.Equal(t, 40, c.RegulatoryMaxItems)
	assert.True(t, c.Debug)

	assert.Equal(t, map[feed.Profile]int{feed.ProfileNews: 80, feed.ProfileRegulatory: 40}, c.MaxItems())
	assert.Equal(t, "https://regwatch.example/api/feed.xml", c.PublicURL("/api/feed.xml"))
}

func TestLoadArgs_Invalid(t *testing.T) {
	_, err := LoadArgs([]string{"--news-max-items", "0"})
	assert.ErrorContains(t, err, "max items must be positive")

	_, err = LoadArgs([]string{"--request-timeout", "0"})
	assert.ErrorContains(t, err, "request timeout")

	_, err = LoadArgs([]string{"--port"})
	assert.ErrorContains(t, err, "failed to parse configuration")
}

func TestPublicURL_Localhost(t *testing.T) {
	c := &Cfg{Port: "8080"}
	assert.Equal(t, "http://localhost:8080/api/feed.xml", c.PublicURL("/api/feed.xml"))
}
