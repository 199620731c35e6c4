// Package colormap provides color schemes for visualization.
package colormap

import (
	"fmt"
	"image/color"
	"strings"
)

// Colormap maps category indices to colors.
type Colormap interface {
	AtIndex(i int) color.RGBA
	Len() int
}

// CategoricalColormap provides distinct colors for categories.
type CategoricalColormap struct {
	colors []color.RGBA
}

// AtIndex returns color at index (wraps around).
func (c CategoricalColormap) AtIndex(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return c.colors[i%len(c.colors)]
}

// Len returns the number of distinct colors before wrapping.
func (c CategoricalColormap) Len() int {
	return len(c.colors)
}

// Hex formats a color as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ByName returns a named palette, falling back to Plotly.
func ByName(name string) Colormap {
	switch strings.ToLower(name) {
	case "d3", "category10", "categorical":
		return Categorical
	case "outcome":
		return Outcome
	default:
		return Plotly
	}
}

// Plotly is the default qualitative palette of plotly express.
var Plotly = CategoricalColormap{
	colors: []color.RGBA{
		{99, 110, 250, 255},  // #636efa
		{239, 85, 59, 255},   // #ef553b
		{0, 204, 150, 255},   // #00cc96
		{171, 99, 250, 255},  // #ab63fa
		{255, 161, 90, 255},  // #ffa15a
		{25, 211, 243, 255},  // #19d3f3
		{255, 102, 146, 255}, // #ff6692
		{182, 232, 128, 255}, // #b6e880
		{255, 151, 255, 255}, // #ff97ff
		{254, 203, 82, 255},  // #fecb52
	},
}

// Outcome colors success (index 0) and failure (index 1).
var Outcome = CategoricalColormap{
	colors: []color.RGBA{
		{44, 160, 44, 255},  // Green
		{214, 39, 40, 255},  // Red
	},
}

// Categorical colormap with 20 distinct colors
var Categorical = CategoricalColormap{
	colors: []color.RGBA{
		{31, 119, 180, 255},  // Blue
		{255, 127, 14, 255},  // Orange
		{44, 160, 44, 255},   // Green
		{214, 39, 40, 255},   // Red
		{148, 103, 189, 255}, // Purple
		{140, 86, 75, 255},   // Brown
		{227, 119, 194, 255}, // Pink
		{127, 127, 127, 255}, // Gray
		{188, 189, 34, 255},  // Olive
		{23, 190, 207, 255},  // Cyan
		{174, 199, 232, 255}, // Light blue
		{255, 187, 120, 255}, // Light orange
		{152, 223, 138, 255}, // Light green
		{255, 152, 150, 255}, // Light red
		{197, 176, 213, 255}, // Light purple
		{196, 156, 148, 255}, // Light brown
		{247, 182, 210, 255}, // Light pink
		{199, 199, 199, 255}, // Light gray
		{219, 219, 141, 255}, // Light olive
		{158, 218, 229, 255}, // Light cyan
	},
}
