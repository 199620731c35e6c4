// Package render turns chart specifications into images using go-chart, with
// fogleman/gg for the empty-state placeholder.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/launchdash/server/internal/dashboard"
)

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat maps a file extension to a Format.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Config contains renderer configuration.
type Config struct {
	Width  int
	Height int
	// Scatter x-axis extents; widened to the data when points fall outside.
	XMin float64
	XMax float64
}

// ChartRenderer renders pie and scatter specs.
type ChartRenderer struct {
	config     Config
	bufferPool sync.Pool
}

// NewChartRenderer creates a new chart renderer.
func NewChartRenderer(cfg Config) *ChartRenderer {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 450
	}
	if cfg.XMax <= cfg.XMin {
		cfg.XMin, cfg.XMax = 0, 10000
	}
	return &ChartRenderer{
		config: cfg,
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 32*1024))
			},
		},
	}
}

// Size returns the output dimensions in pixels.
func (r *ChartRenderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// RenderPie renders the success pie. Zero-valued slices are omitted from the
// drawing; an all-zero pie renders the placeholder.
func (r *ChartRenderer) RenderPie(spec dashboard.PieSpec, format Format) ([]byte, error) {
	values := make([]chart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Value),
			Value: float64(s.Value),
			Style: chart.Style{
				FillColor:   parseHex(s.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	if len(values) == 0 {
		return r.RenderPlaceholder(spec.Title, "No launches for this selection", format)
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  r.config.Width,
		Height: r.config.Height,
		Values: values,
	}

	return r.encode(func(buf *bytes.Buffer) error {
		return pie.Render(format.provider(), buf)
	})
}

// RenderScatter renders the payload/outcome scatter, one series per booster category.
func (r *ChartRenderer) RenderScatter(spec dashboard.ScatterSpec, format Format) ([]byte, error) {
	if spec.Len() == 0 {
		return r.RenderPlaceholder(spec.Title, "No launches for this selection", format)
	}

	xMin, xMax := r.config.XMin, r.config.XMax
	series := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X
			ys[i] = float64(p.Y)
			if p.X < xMin {
				xMin = p.X
			}
			if p.X > xMax {
				xMax = p.X
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(parseHex(s.Color)),
		})
	}

	graph := chart.Chart{
		Title:      spec.Title,
		Width:      r.config.Width,
		Height:     r.config.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return r.encode(func(buf *bytes.Buffer) error {
		return graph.Render(format.provider(), buf)
	})
}

// RenderPlaceholder renders a titled image with a centered message.
func (r *ChartRenderer) RenderPlaceholder(title, message string, format Format) ([]byte, error) {
	if format == SVG {
		return r.svgPlaceholder(title, message)
	}

	w, h := r.config.Width, r.config.Height
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.RGBA{R: 51, G: 51, B: 51, A: 255})
	dc.DrawStringAnchored(title, float64(w)/2, 24, 0.5, 0.5)
	dc.SetColor(color.RGBA{R: 127, G: 127, B: 127, A: 255})
	dc.DrawStringAnchored(message, float64(w)/2, float64(h)/2, 0.5, 0.5)

	return r.encode(func(buf *bytes.Buffer) error {
		return dc.EncodePNG(buf)
	})
}

func (r *ChartRenderer) svgPlaceholder(title, message string) ([]byte, error) {
	w, h := r.config.Width, r.config.Height
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	vr, err := chart.SVG(w, h)
	if err != nil {
		return nil, err
	}
	vr.SetFont(font)

	vr.SetFillColor(drawing.ColorWhite)
	vr.MoveTo(0, 0)
	vr.LineTo(w, 0)
	vr.LineTo(w, h)
	vr.LineTo(0, h)
	vr.Close()
	vr.Fill()

	drawCentered := func(text string, size float64, c drawing.Color, y int) {
		vr.SetFontSize(size)
		vr.SetFontColor(c)
		box := vr.MeasureText(text)
		vr.Text(text, (w-box.Width())/2, y)
	}
	drawCentered(title, 14, drawing.Color{R: 51, G: 51, B: 51, A: 255}, 28)
	drawCentered(message, 12, drawing.Color{R: 127, G: 127, B: 127, A: 255}, h/2)

	return r.encode(func(buf *bytes.Buffer) error {
		return vr.Save(buf)
	})
}

func (r *ChartRenderer) encode(draw func(*bytes.Buffer) error) ([]byte, error) {
	buf := r.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer r.bufferPool.Put(buf)

	if err := draw(buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// pointStyle renders points only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func parseHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
