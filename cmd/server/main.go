// Package main is the entry point for the launch dashboard server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/launchdash/server/internal/api"
	"github.com/launchdash/server/internal/cache"
	"github.com/launchdash/server/internal/config"
	"github.com/launchdash/server/internal/dashboard"
	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/internal/render"
	"github.com/launchdash/server/internal/service"
	"github.com/launchdash/server/pkg/colormap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/server.yaml", "Path to configuration file")
	dataPath := flag.String("data", "", "Launch records file (.csv or SQLite); overrides data.path")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}

	log.Printf("Starting launch dashboard on port %d", cfg.Server.Port)

	ctx := context.Background()

	// Load the launch records once; the dataset is read-only from here on.
	ds, err := launches.Load(cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		log.Fatalf("Failed to load launch records: %v", err)
	}
	bounds := ds.PayloadBounds()
	log.Printf("Loaded %d launches from %s", ds.Len(), ds.Source())
	log.Printf("  Sites: %d, payload range: %g..%g kg", len(ds.Sites()), bounds.Min, bounds.Max)

	cacheManager, err := cache.NewManager(cache.Config{
		ImageCacheSizeMB: cfg.Cache.ImageSizeMB,
		ImageTTL:         time.Duration(cfg.Cache.ImageTTLMinutes) * time.Minute,
		SVGCacheSize:     cfg.Cache.SVGEntries,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheManager.Close()

	slider := dashboard.SliderOptions{
		Min:  cfg.UI.SliderMin,
		Max:  cfg.UI.SliderMax,
		Step: cfg.UI.SliderStep,
	}

	// The scatter x axis spans the slider extents so charts stay comparable.
	renderer := render.NewChartRenderer(render.Config{
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
		XMin:   slider.Min,
		XMax:   slider.Max,
	})

	app := dashboard.NewApp(ds, dashboard.Options{
		Title:   cfg.UI.Title,
		Slider:  slider,
		Scatter: dashboard.ScatterOptions{EnforceUpperBound: cfg.UI.EnforceUpperBound},
		Palette: colormap.ByName(cfg.Render.Palette),
	})
	if cfg.UI.EnforceUpperBound {
		log.Println("Scatter filter enforces the slider upper bound")
	}

	charts := service.NewChartService(service.ChartServiceConfig{
		App:      app,
		Cache:    cacheManager,
		Renderer: renderer,
	})

	// Set up HTTP router
	router := api.NewRouter(api.RouterConfig{
		Charts:      charts,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
