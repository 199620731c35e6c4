// Package dashboard declares the launch dashboard: its page layout, the pure
// chart handlers, and the bindings that connect control values to charts.
package dashboard

import (
	"math"

	"github.com/launchdash/server/internal/data/launches"
)

// Component IDs shared by the layout, the bindings and the page script.
const (
	SiteDropdownID  = "site-dropdown"
	PayloadSliderID = "payload-slider"
	PieGraphID      = "success-pie-chart"
	ScatterGraphID  = "success-payload-scatter-chart"
)

// Heading is the page title.
type Heading struct {
	Text  string            `json:"text"`
	Style map[string]string `json:"style"`
}

// Dropdown is a single-select control.
type Dropdown struct {
	ID          string                `json:"id"`
	Options     []launches.SiteOption `json:"options"`
	Value       string                `json:"value"`
	Placeholder string                `json:"placeholder"`
	Searchable  bool                  `json:"searchable"`
}

// RangeSlider is a dual-handle numeric range control.
type RangeSlider struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Step  float64    `json:"step"`
	Value [2]float64 `json:"value"`
	Marks []float64  `json:"marks"`
}

// Graph is a chart placeholder filled by a binding.
type Graph struct {
	ID string `json:"id"`
}

// Layout is the static page declaration.
type Layout struct {
	Heading  Heading     `json:"heading"`
	Dropdown Dropdown    `json:"dropdown"`
	Pie      Graph       `json:"pie"`
	Slider   RangeSlider `json:"slider"`
	Scatter  Graph       `json:"scatter"`
}

// SliderOptions sets the fixed extents of the payload slider.
type SliderOptions struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultSlider is 0–10000 kg in 1000 kg steps.
var DefaultSlider = SliderOptions{Min: 0, Max: 10000, Step: 1000}

// NewLayout declares the page for ds. The slider extents come from slider and
// do not depend on the data; only its initial selection is the data's bounds.
func NewLayout(ds *launches.Dataset, title string, slider SliderOptions) Layout {
	bounds := ds.PayloadBounds()
	return Layout{
		Heading: Heading{
			Text: title,
			Style: map[string]string{
				"textAlign": "center",
				"color":     "#503D36",
				"font-size": "40px",
			},
		},
		Dropdown: Dropdown{
			ID:          SiteDropdownID,
			Options:     ds.SiteCatalog(),
			Value:       launches.AllSites,
			Placeholder: "Select a Launch Site here",
			Searchable:  true,
		},
		Pie: Graph{ID: PieGraphID},
		Slider: RangeSlider{
			ID:    PayloadSliderID,
			Label: "Payload range (Kg):",
			Min:   slider.Min,
			Max:   slider.Max,
			Step:  slider.Step,
			Value: [2]float64{bounds.Min, bounds.Max},
			Marks: sliderMarks(slider),
		},
		Scatter: Graph{ID: ScatterGraphID},
	}
}

func sliderMarks(s SliderOptions) []float64 {
	if s.Step <= 0 || s.Max < s.Min {
		return []float64{s.Min, s.Max}
	}
	n := int(math.Floor((s.Max-s.Min)/s.Step)) + 1
	marks := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		marks = append(marks, s.Min+float64(i)*s.Step)
	}
	if marks[len(marks)-1] != s.Max {
		marks = append(marks, s.Max)
	}
	return marks
}
