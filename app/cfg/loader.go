package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl        string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://regwatch.example.com)"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"20" description:"Upper bound for one aggregation request in seconds"`

	// Source configuration
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" description:"Directory containing source configuration files (built-in sources when empty)"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"regwatch/1.0 (+https://github.com/lysyi3m/regwatch)" description:"User agent string for upstream requests"`
	DocketAPIKey string `long:"docket-api-key" env:"REGULATIONS_GOV_API_KEY" default:"DEMO_KEY" description:"API key for regulations.gov docket sources"`

	// Output configuration
	NewsMaxItems       int `long:"news-max-items" env:"NEWS_MAX_ITEMS" default:"100" description:"Maximum items returned by the news feed"`
	RegulatoryMaxItems int `long:"regulatory-max-items" env:"REGULATORY_MAX_ITEMS" default:"60" description:"Maximum items returned by the regulatory feed"`
	NewsCacheMaxAge    int `long:"news-cache-max-age" env:"NEWS_CACHE_MAX_AGE" default:"1800" description:"Shared cache lifetime of the news feed in seconds (0 disables caching)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/Chicago)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args. A nil slice means os.Args.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	cfg := &Cfg{
		Port:               raw.Port,
		BaseUrl:            strings.TrimRight(raw.BaseUrl, "/"),
		RequestTimeout:     time.Duration(raw.RequestTimeout) * time.Second,
		SourcesDir:         raw.SourcesDir,
		UserAgent:          raw.UserAgent,
		DocketAPIKey:       raw.DocketAPIKey,
		NewsMaxItems:       raw.NewsMaxItems,
		RegulatoryMaxItems: raw.RegulatoryMaxItems,
		NewsCacheMaxAge:    raw.NewsCacheMaxAge,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func validate(raw *rawCfg) error {
	if raw.NewsMaxItems < 1 || raw.RegulatoryMaxItems < 1 {
		return fmt.Errorf("max items must be positive (news: %d, regulatory: %d)", raw.NewsMaxItems, raw.RegulatoryMaxItems)
	}
	if raw.RequestTimeout < 1 {
		return fmt.Errorf("request timeout must be positive, got %d", raw.RequestTimeout)
	}
	if raw.NewsCacheMaxAge < 0 {
		return fmt.Errorf("news cache max age must not be negative, got %d", raw.NewsCacheMaxAge)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			slog.Debug("Timezone configured", "timezone", timezone)
		}
	}
	return nil
}
