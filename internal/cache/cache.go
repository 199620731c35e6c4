// Package cache memoizes rendered chart images.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Config contains cache configuration.
type Config struct {
	ImageCacheSizeMB int
	ImageTTL         time.Duration
	SVGCacheSize     int
}

// Manager manages the PNG and SVG image caches.
type Manager struct {
	pngCache *bigcache.BigCache
	svgCache *lru.Cache[string, []byte]
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) (*Manager, error) {
	pngCacheConfig := bigcache.Config{
		Shards:             16,
		LifeWindow:         cfg.ImageTTL,
		CleanWindow:        cfg.ImageTTL / 2,
		MaxEntriesInWindow: 1024,
		MaxEntrySize:       64 * 1024, // typical chart PNG
		HardMaxCacheSize:   cfg.ImageCacheSizeMB,
		Verbose:            false,
	}

	pngCache, err := bigcache.New(context.Background(), pngCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create png cache: %w", err)
	}

	svgCache, err := lru.New[string, []byte](cfg.SVGCacheSize)
	if err != nil {
		pngCache.Close()
		return nil, fmt.Errorf("failed to create svg cache: %w", err)
	}

	return &Manager{
		pngCache: pngCache,
		svgCache: svgCache,
	}, nil
}

// GetPNG retrieves a PNG from cache.
func (m *Manager) GetPNG(key string) ([]byte, bool) {
	data, err := m.pngCache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetPNG stores a PNG in cache.
func (m *Manager) SetPNG(key string, data []byte) error {
	return m.pngCache.Set(key, data)
}

// GetSVG retrieves an SVG from cache.
func (m *Manager) GetSVG(key string) ([]byte, bool) {
	return m.svgCache.Get(key)
}

// SetSVG stores an SVG in cache.
func (m *Manager) SetSVG(key string, data []byte) {
	m.svgCache.Add(key, data)
}

// ImageKey generates a cache key for a rendered chart. Two specs with the same
// content share a key regardless of the control values that produced them.
func ImageKey(kind string, spec any, width, height int) (string, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("failed to hash chart spec: %w", err)
	}
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%s:%dx%d:%s", kind, width, height, hex.EncodeToString(sum[:])[:32]), nil
}

// Stats returns cache statistics.
func (m *Manager) Stats() map[string]interface{} {
	return map[string]interface{}{
		"png_cache_len":  m.pngCache.Len(),
		"png_cache_cap":  m.pngCache.Capacity(),
		"png_cache_hits": m.pngCache.Stats().Hits,
		"svg_cache_len":  m.svgCache.Len(),
	}
}

// Close closes the cache manager.
func (m *Manager) Close() error {
	return m.pngCache.Close()
}
