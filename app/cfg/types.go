package cfg

import (
	"time"

	"github.com/lysyi3m/regwatch/app/feed"
)

type Cfg struct {
	// Server configuration
	Port           string
	BaseUrl        string
	RequestTimeout time.Duration

	// Source configuration
	SourcesDir   string
	UserAgent    string
	DocketAPIKey string

	// Output configuration
	NewsMaxItems       int
	RegulatoryMaxItems int
	NewsCacheMaxAge    int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// MaxItems returns the output ceiling of a profile.
func (c *Cfg) MaxItems() map[feed.Profile]int {
	return map[feed.Profile]int{
		feed.ProfileNews:       c.NewsMaxItems,
		feed.ProfileRegulatory: c.RegulatoryMaxItems,
	}
}

// PublicURL joins path onto the base URL, falling back to localhost.
func (c *Cfg) PublicURL(path string) string {
	if c.BaseUrl != "" {
		return c.BaseUrl + path
	}
	return "http://localhost:" + c.Port + path
}
