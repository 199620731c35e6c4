package cache

import (
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		ImageCacheSizeMB: 8,
		ImageTTL:         time.Minute,
		SVGCacheSize:     4,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestImageKey(t *testing.T) {
	type spec struct {
		Title  string
		Values []int
	}

	t.Run("stable", func(t *testing.T) {
		k1, err := ImageKey("pie.png", spec{"a", []int{1, 0}}, 800, 450)
		if err != nil {
			t.Fatalf("ImageKey: %v", err)
		}
		k2, _ := ImageKey("pie.png", spec{"a", []int{1, 0}}, 800, 450)
		if k1 != k2 {
			t.Fatalf("expected stable key, got %q vs %q", k1, k2)
		}
		if !strings.HasPrefix(k1, "pie.png:800x450:") {
			t.Fatalf("unexpected key %q", k1)
		}
	})

	t.Run("contentSensitive", func(t *testing.T) {
		k1, _ := ImageKey("pie.png", spec{"a", []int{1, 0}}, 800, 450)
		k2, _ := ImageKey("pie.png", spec{"a", []int{0, 1}}, 800, 450)
		if k1 == k2 {
			t.Fatalf("expected different keys for different specs")
		}
	})

	t.Run("sizeSensitive", func(t *testing.T) {
		k1, _ := ImageKey("pie.png", spec{"a", nil}, 800, 450)
		k2, _ := ImageKey("pie.png", spec{"a", nil}, 400, 300)
		if k1 == k2 {
			t.Fatalf("expected different keys for different sizes")
		}
	})
}

func TestManager_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	if _, ok := m.GetPNG("missing"); ok {
		t.Fatal("expected miss")
	}
	if err := m.SetPNG("k", []byte("png")); err != nil {
		t.Fatalf("SetPNG: %v", err)
	}
	if got, ok := m.GetPNG("k"); !ok || string(got) != "png" {
		t.Fatalf("GetPNG: %q %v", got, ok)
	}

	m.SetSVG("k", []byte("<svg/>"))
	if got, ok := m.GetSVG("k"); !ok || string(got) != "<svg/>" {
		t.Fatalf("GetSVG: %q %v", got, ok)
	}

	stats := m.Stats()
	if stats["png_cache_len"] != 1 || stats["svg_cache_len"] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestManager_SVGEviction(t *testing.T) {
	m := newTestManager(t)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		m.SetSVG(k, []byte(k))
	}
	if _, ok := m.GetSVG("a"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	if _, ok := m.GetSVG("e"); !ok {
		t.Fatal("expected newest entry to be present")
	}
}
