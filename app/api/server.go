package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/metrics"
)

// NewServer creates the router with all routes configured. The gin mode is
// left to the caller.
func NewServer(handler *Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\" %s\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
				param.Request.Header.Get(requestIDHeader),
			)
		},
		SkipPaths: []string{"/health", "/metrics"},
	}))
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(cors())
	r.Use(observe())

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	for _, profile := range feed.Profiles {
		route := profileRoutes[profile]
		r.GET(route, handler.GetFeed(profile))
		r.GET(route+".xml", handler.GetFeedRSS(profile))
	}

	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/", handler.GetIndex)

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
}
