package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/regwatch/app/aggregate"
	"github.com/lysyi3m/regwatch/app/api"
	"github.com/lysyi3m/regwatch/app/cfg"
	"github.com/lysyi3m/regwatch/app/classify"
	"github.com/lysyi3m/regwatch/app/feed"
	"github.com/lysyi3m/regwatch/app/response"
	"github.com/lysyi3m/regwatch/app/source"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	if appCfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting regwatch", "version", appCfg.Version)

	registry := feed.NewRegistry(appCfg.SourcesDir)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", registry.GetConfigCount())

	deps := source.Deps{
		Client: &http.Client{
			Timeout: time.Duration(feed.MaxTimeout) * time.Second,
		},
		UserAgent:    appCfg.UserAgent,
		Classifier:   classify.New(classify.DefaultTables()),
		Filterer:     feed.NewFilterer(),
		DocketAPIKey: appCfg.DocketAPIKey,
	}

	adapters := make(map[feed.Profile][]source.Adapter, len(feed.Profiles))
	for _, profile := range feed.Profiles {
		built, err := source.Build(registry.ForProfile(profile), profile, deps)
		if err != nil {
			slog.Error("Failed to build source adapters", "profile", profile, "error", err)
			os.Exit(1)
		}
		adapters[profile] = built
		slog.Info("Profile ready", "profile", profile, "sources", len(built))
	}

	aggregator := aggregate.New(adapters, appCfg.MaxItems(), nil)

	handler := api.NewHandler(aggregator, response.NewGenerator(appCfg.Version), api.Options{
		PublicURL:       appCfg.PublicURL,
		RequestTimeout:  appCfg.RequestTimeout,
		NewsCacheMaxAge: appCfg.NewsCacheMaxAge,
		Version:         appCfg.Version,
	})
	router := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening",
			"port", appCfg.Port,
			"news", appCfg.PublicURL("/api/feed"),
			"regulatory", appCfg.PublicURL("/api/regulatory"))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
