package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/launchdash/server/internal/cache"
	"github.com/launchdash/server/internal/dashboard"
	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/internal/render"
)

func newTestService(t *testing.T, opts dashboard.Options) (*ChartService, *cache.Manager) {
	t.Helper()

	ds, err := launches.New("mem", []launches.Record{
		{Site: "siteA", PayloadMass: 500, Class: 1, BoosterCategory: "v1"},
		{Site: "siteA", PayloadMass: 1500, Class: 0, BoosterCategory: "v1"},
		{Site: "siteB", PayloadMass: 2000, Class: 1, BoosterCategory: "v2"},
	})
	if err != nil {
		t.Fatalf("launches.New: %v", err)
	}

	cacheManager, err := cache.NewManager(cache.Config{
		ImageCacheSizeMB: 8,
		ImageTTL:         time.Minute,
		SVGCacheSize:     8,
	})
	if err != nil {
		t.Fatalf("Failed to initialize cache: %v", err)
	}
	t.Cleanup(func() { cacheManager.Close() })

	svc := NewChartService(ChartServiceConfig{
		App:      dashboard.NewApp(ds, opts),
		Cache:    cacheManager,
		Renderer: render.NewChartRenderer(render.Config{Width: 400, Height: 300}),
	})
	return svc, cacheManager
}

func TestChartService_PieImageIsCached(t *testing.T) {
	svc, cm := newTestService(t, dashboard.Options{})

	first, err := svc.PieImage(launches.AllSites, render.PNG)
	if err != nil {
		t.Fatalf("PieImage: %v", err)
	}
	if cm.Stats()["png_cache_len"] != 1 {
		t.Fatalf("expected one cached png, got %v", cm.Stats())
	}

	second, err := svc.PieImage(launches.AllSites, render.PNG)
	if err != nil {
		t.Fatalf("PieImage: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical bytes from cache")
	}

	if _, err := svc.PieImage("siteA", render.SVG); err != nil {
		t.Fatalf("PieImage svg: %v", err)
	}
	if cm.Stats()["svg_cache_len"] != 1 {
		t.Fatalf("expected one cached svg, got %v", cm.Stats())
	}
}

func TestChartService_ScatterImageRepeatedInputs(t *testing.T) {
	svc, cm := newTestService(t, dashboard.Options{})

	if _, err := svc.ScatterImage(launches.AllSites, dashboard.PayloadRange{Low: 1000, High: 3000}, render.PNG); err != nil {
		t.Fatalf("ScatterImage: %v", err)
	}
	if _, err := svc.ScatterImage(launches.AllSites, dashboard.PayloadRange{Low: 1000, High: 3000}, render.PNG); err != nil {
		t.Fatalf("ScatterImage: %v", err)
	}
	if cm.Stats()["png_cache_len"] != 1 {
		t.Fatalf("expected one cached png, got %v", cm.Stats())
	}
}

func TestChartService_ExportCSV(t *testing.T) {
	svc, _ := newTestService(t, dashboard.Options{})

	var buf bytes.Buffer
	n, err := svc.ExportCSV(&buf, launches.AllSites, dashboard.PayloadRange{Low: 1000, High: 3000})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	want := strings.Join([]string{
		"Launch Site,Payload Mass (kg),class,Booster Version Category",
		"siteA,1500,0,v1",
		"siteB,2000,1,v2",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}

	// The export round-trips through the loader.
	recs, err := launches.ReadCSV(strings.NewReader(buf.String()))
	if err != nil || len(recs) != 2 {
		t.Fatalf("ReadCSV: %v %v", recs, err)
	}
}

func TestChartService_ExportCSVUpperBound(t *testing.T) {
	svc, _ := newTestService(t, dashboard.Options{Scatter: dashboard.ScatterOptions{EnforceUpperBound: true}})

	var buf bytes.Buffer
	n, err := svc.ExportCSV(&buf, "siteA", dashboard.PayloadRange{Low: 0, High: 1000})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d:\n%s", n, buf.String())
	}
}

func TestChartService_Stats(t *testing.T) {
	svc, _ := newTestService(t, dashboard.Options{})
	stats := svc.Stats()
	if stats["records"] != 3 || stats["sites"] != 2 {
		t.Fatalf("unexpected stats %v", stats)
	}
	if b := stats["payload_bounds"].(launches.Bounds); b.Min != 500 || b.Max != 2000 {
		t.Fatalf("unexpected bounds %+v", b)
	}
}
