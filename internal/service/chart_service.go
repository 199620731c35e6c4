// Package service provides business logic for the dashboard server.
package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/launchdash/server/internal/cache"
	"github.com/launchdash/server/internal/dashboard"
	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/internal/render"
)

// ChartServiceConfig contains chart service configuration.
type ChartServiceConfig struct {
	App      *dashboard.App
	Cache    *cache.Manager
	Renderer *render.ChartRenderer
}

// ChartService computes chart specs through the dashboard and renders them
// to images. Specs are recomputed on every call; only rendered images are
// cached, keyed by spec content.
type ChartService struct {
	app      *dashboard.App
	cache    *cache.Manager
	renderer *render.ChartRenderer
}

// NewChartService creates a new chart service.
func NewChartService(cfg ChartServiceConfig) *ChartService {
	return &ChartService{
		app:      cfg.App,
		cache:    cfg.Cache,
		renderer: cfg.Renderer,
	}
}

// App returns the dashboard the service renders.
func (s *ChartService) App() *dashboard.App { return s.app }

// Pie returns the success pie spec for site.
func (s *ChartService) Pie(site string) dashboard.PieSpec {
	return s.app.Pie(site)
}

// Scatter returns the payload scatter spec for site and r.
func (s *ChartService) Scatter(site string, r dashboard.PayloadRange) dashboard.ScatterSpec {
	return s.app.Scatter(site, r)
}

// PieImage renders the success pie for site.
func (s *ChartService) PieImage(site string, format render.Format) ([]byte, error) {
	spec := s.app.Pie(site)
	return s.image("pie", spec, format, func() ([]byte, error) {
		return s.renderer.RenderPie(spec, format)
	})
}

// ScatterImage renders the payload scatter for site and r.
func (s *ChartService) ScatterImage(site string, r dashboard.PayloadRange, format render.Format) ([]byte, error) {
	spec := s.app.Scatter(site, r)
	return s.image("scatter", spec, format, func() ([]byte, error) {
		return s.renderer.RenderScatter(spec, format)
	})
}

func (s *ChartService) image(kind string, spec any, format render.Format, draw func() ([]byte, error)) ([]byte, error) {
	if s.cache == nil {
		return draw()
	}

	w, h := s.renderer.Size()
	key, err := cache.ImageKey(kind+"."+string(format), spec, w, h)
	if err != nil {
		return nil, err
	}

	if format == render.SVG {
		if data, ok := s.cache.GetSVG(key); ok {
			return data, nil
		}
	} else if data, ok := s.cache.GetPNG(key); ok {
		return data, nil
	}

	data, err := draw()
	if err != nil {
		return nil, err
	}

	if format == render.SVG {
		s.cache.SetSVG(key, data)
	} else if err := s.cache.SetPNG(key, data); err != nil {
		log.Printf("chart cache: failed to store %s: %v", key, err)
	}
	return data, nil
}

// ExportCSV writes the records the scatter chart would plot for site and r.
func (s *ChartService) ExportCSV(w io.Writer, site string, r dashboard.PayloadRange) (int, error) {
	records := dashboard.FilterRecords(s.app.Dataset(), site, r, s.app.ScatterOptions())

	cw := csv.NewWriter(w)
	if err := cw.Write(launches.RequiredColumns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Site,
			strconv.FormatFloat(rec.PayloadMass, 'f', -1, 64),
			strconv.Itoa(rec.Class),
			rec.BoosterCategory,
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(records), cw.Error()
}

// Stats summarizes the dataset and caches.
func (s *ChartService) Stats() map[string]interface{} {
	ds := s.app.Dataset()
	stats := map[string]interface{}{
		"source":         ds.Source(),
		"records":        ds.Len(),
		"sites":          len(ds.Sites()),
		"payload_bounds": ds.PayloadBounds(),
	}
	if s.cache != nil {
		stats["cache"] = s.cache.Stats()
	}
	return stats
}
