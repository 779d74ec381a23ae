package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/regwatch/app/aggregate"
	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/response"
)

func NewHandler(aggregator AggregatorInterface, generator GeneratorInterface, opts Options) *Handler {
	publicURL := opts.PublicURL
	if publicURL == nil {
		publicURL = func(path string) string { return path }
	}

	return &Handler{
		aggregator:      aggregator,
		generator:       generator,
		publicURL:       publicURL,
		requestTimeout:  opts.RequestTimeout,
		newsCacheMaxAge: opts.NewsCacheMaxAge,
		version:         opts.Version,
		now:             time.Now,
	}
}

// GetFeed serves one profile as JSON.
func (h *Handler) GetFeed(profile feed.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := h.aggregate(c, profile)
		if !ok {
			c.JSON(http.StatusInternalServerError, response.Fault(profile, h.now()))
			return
		}

		payload := response.Build(result)
		h.writeHeaders(c, profile, result, payload.Count)

		c.JSON(http.StatusOK, payload)
	}
}

// GetFeedRSS serves one profile as RSS 2.0.
func (h *Handler) GetFeedRSS(profile feed.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := h.aggregate(c, profile)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}

		payload := response.Build(result)
		rss, err := h.generator.Run(payload, h.publicURL(profileRoutes[profile]+".xml"), h.publicURL("/"))
		if err != nil {
			slog.Error("RSS generation error", "profile", profile, "error", err)
			c.Header("Cache-Control", response.NoStore)
			c.Status(http.StatusInternalServerError)
			return
		}

		h.writeHeaders(c, profile, result, payload.Count)
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
	}
}

func (h *Handler) aggregate(c *gin.Context, profile feed.Profile) (*aggregate.Result, bool) {
	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	result, err := h.aggregator.Run(ctx, profile)
	if err != nil {
		slog.Error("Aggregation failed", "profile", profile, "request_id", c.GetString(requestIDKey), "error", err)
		c.Header("Cache-Control", response.NoStore)
		return nil, false
	}

	if result.Empty() {
		slog.Warn("Aggregation returned no items", "profile", profile, "failed_sources", result.Stats.FailedSources)
	}

	return result, true
}

func (h *Handler) writeHeaders(c *gin.Context, profile feed.Profile, result *aggregate.Result, count int) {
	c.Header("Cache-Control", response.CacheControl(profile, result.Empty(), h.newsCacheMaxAge))
	c.Header("X-Feed-Items", strconv.Itoa(count))
	c.Header("X-Feed-Profile", string(profile))
}

func (h *Handler) GetHealth(c *gin.Context) {
	sources := make(map[string]int, len(feed.Profiles))
	for _, profile := range feed.Profiles {
		sources[string(profile)] = len(h.aggregator.Sources(profile))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   sources,
	})
}

func (h *Handler) GetIndex(c *gin.Context) {
	endpoints := map[string]string{
		"health":  "/health",
		"metrics": "/metrics",
	}
	for profile, route := range profileRoutes {
		endpoints[string(profile)] = route
		endpoints[string(profile)+"_rss"] = route + ".xml"
	}

	c.JSON(http.StatusOK, gin.H{
		"service":     "regwatch",
		"version":     h.version,
		"description": "Texas environmental and regulatory news aggregated from agency feeds, newsrooms and federal dockets",
		"endpoints":   endpoints,
		"focusAreas":  response.FocusAreas(),
	})
}
