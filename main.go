package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"secretlocale/pkg/config"
	"secretlocale/pkg/handlers"
	"secretlocale/pkg/planner"
	"secretlocale/pkg/services"
	"secretlocale/pkg/storage"
)

func main() {
	// Initialize config
	config.Init()

	scanner := services.NewScanner(config.ContentDir)
	scanner.MaxDepth = config.ScanMaxDepth

	index := services.NewIndex(scanner, config.CacheFile, config.PostsPerPage)
	if err := index.Load(); err != nil {
		slog.Info("no usable cache snapshot, rebuilding", "error", err)
		if _, err := index.Rebuild(); err != nil {
			slog.Error("initial index rebuild failed", "error", err)
		}
	}

	resolver := services.NewResolver(config.ContentDir)
	resolver.MaxDepth = config.ScanMaxDepth

	sitemap := services.NewSitemap(config.SiteURL, config.PublicDir)

	store, err := storage.New(config.DBPath)
	if err != nil {
		slog.Error("opening itinerary store failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	generator := planner.NewGenerator(config.LLMAPIKey(), config.LLMModel,
		&http.Client{Timeout: 30 * time.Second})

	if config.CacheCron != "" {
		scheduler := services.NewScheduler()
		err := scheduler.Schedule(config.CacheCron, func() {
			if _, err := index.Rebuild(); err != nil {
				slog.Error("scheduled rebuild failed", "error", err)
				return
			}
			if err := sitemap.Write(index.Posts()); err != nil {
				slog.Error("scheduled sitemap write failed", "error", err)
			}
		})
		if err != nil {
			slog.Error("scheduling rebuild failed", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	r := gin.Default()

	api := &handlers.API{Index: index, Sitemap: sitemap, CronSecret: config.CronSecret}
	content := &handlers.Content{Resolver: resolver, Index: index, SiteURL: config.SiteURL}
	plan := &handlers.Planner{Store: store, Generator: generator}

	r.GET("/api/blog-posts", api.ListPosts)
	r.GET("/api/tags", api.TopTags)
	r.GET("/api/cities", api.Cities)
	r.POST("/api/cron/generate-cache", api.GenerateCache)
	r.POST("/api/itinerary", plan.Itinerary)
	r.StaticFile("/sitemap.xml", filepath.Join(config.PublicDir, "sitemap.xml"))

	// Every other path is a content path: article, folder index, or listing.
	r.NoRoute(content.Page)

	r.Run(":" + config.Port)
}
