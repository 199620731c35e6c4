// Package config handles configuration loading for the launch dashboard server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	UI     UIConfig     `yaml:"ui"`
	Cache  CacheConfig  `yaml:"cache"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DataConfig contains data source settings.
type DataConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"` // only used for SQLite sources
}

// UIConfig contains dashboard control settings.
type UIConfig struct {
	Title             string  `yaml:"title"`
	SliderMin         float64 `yaml:"slider_min"`
	SliderMax         float64 `yaml:"slider_max"`
	SliderStep        float64 `yaml:"slider_step"`
	EnforceUpperBound bool    `yaml:"enforce_upper_bound"`
}

// CacheConfig contains rendered image cache settings.
type CacheConfig struct {
	ImageSizeMB     int `yaml:"image_size_mb"`
	ImageTTLMinutes int `yaml:"image_ttl_minutes"`
	SVGEntries      int `yaml:"svg_entries"`
}

// RenderConfig contains chart rendering settings.
type RenderConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Palette string `yaml:"palette"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8050,
			CORSOrigins: []string{"http://localhost:8050"},
		},
		Data: DataConfig{
			Path:  "spacex_launch_dash.csv",
			Table: "launches",
		},
		UI: UIConfig{
			Title:      "SpaceX Launch Records Dashboard",
			SliderMin:  0,
			SliderMax:  10000,
			SliderStep: 1000,
		},
		Cache: CacheConfig{
			ImageSizeMB:     64,
			ImageTTLMinutes: 10,
			SVGEntries:      256,
		},
		Render: RenderConfig{
			Width:   800,
			Height:  450,
			Palette: "plotly",
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if cfg.Data.Path == "" {
		cfg.Data.Path = defaults.Data.Path
	}
	if cfg.Data.Table == "" {
		cfg.Data.Table = defaults.Data.Table
	}
	if cfg.UI.Title == "" {
		cfg.UI.Title = defaults.UI.Title
	}
	// A zero max means the section was omitted; slider_min may legitimately be 0.
	if cfg.UI.SliderMax == 0 {
		cfg.UI.SliderMin = defaults.UI.SliderMin
		cfg.UI.SliderMax = defaults.UI.SliderMax
	}
	if cfg.UI.SliderStep == 0 {
		cfg.UI.SliderStep = defaults.UI.SliderStep
	}
	if cfg.Cache.ImageSizeMB == 0 {
		cfg.Cache.ImageSizeMB = defaults.Cache.ImageSizeMB
	}
	if cfg.Cache.ImageTTLMinutes == 0 {
		cfg.Cache.ImageTTLMinutes = defaults.Cache.ImageTTLMinutes
	}
	if cfg.Cache.SVGEntries == 0 {
		cfg.Cache.SVGEntries = defaults.Cache.SVGEntries
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = defaults.Render.Width
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = defaults.Render.Height
	}
	if cfg.Render.Palette == "" {
		cfg.Render.Palette = defaults.Render.Palette
	}
}
