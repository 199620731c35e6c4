package dashboard

import (
	"fmt"
	"sort"

	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/pkg/colormap"
)

// Chart titles.
const (
	PieTitleAllSites = "Total Success Launches By Site"
	PieTitleSiteFmt  = "Total Success Launches For Site %s"
	ScatterTitle     = "Correlation between Payload and Success for all sites"
)

// Slice is one pie slice.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// PieSpec describes the success pie chart.
type PieSpec struct {
	Kind   string  `json:"kind"`
	Title  string  `json:"title"`
	Site   string  `json:"site"`
	Slices []Slice `json:"slices"`
}

// Total returns the sum of all slice values.
func (p PieSpec) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Value
	}
	return total
}

// PayloadRange is the slider selection [Low, High].
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Point is one scatter marker.
type Point struct {
	X    float64 `json:"x"`
	Y    int     `json:"y"`
	Site string  `json:"site"`
}

// ScatterSeries groups the points of one booster category.
type ScatterSeries struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// ScatterSpec describes the payload/outcome scatter chart.
type ScatterSpec struct {
	Kind   string          `json:"kind"`
	Title  string          `json:"title"`
	Site   string          `json:"site"`
	Range  PayloadRange    `json:"payload_range"`
	XLabel string          `json:"x_label"`
	YLabel string          `json:"y_label"`
	Series []ScatterSeries `json:"series"`
}

// Len returns the number of points across all series.
func (s ScatterSpec) Len() int {
	n := 0
	for _, series := range s.Series {
		n += len(series.Points)
	}
	return n
}

// ScatterOptions tunes the scatter filter.
type ScatterOptions struct {
	// EnforceUpperBound also drops records above Range.High.
	// Off by default: only the lower bound of the slider filters.
	EnforceUpperBound bool
}

// PieChart computes the success pie for site using the default palette.
func PieChart(ds *launches.Dataset, site string) PieSpec {
	return pieChart(ds, colormap.Plotly, site)
}

// ScatterChart computes the payload scatter for site and r using the default palette.
func ScatterChart(ds *launches.Dataset, site string, r PayloadRange, opts ScatterOptions) ScatterSpec {
	return scatterChart(ds, colormap.Plotly, site, r, opts)
}

func pieChart(ds *launches.Dataset, palette colormap.Colormap, site string) PieSpec {
	if site == launches.AllSites {
		sums := make(map[string]int)
		for _, rec := range ds.Records() {
			sums[rec.Site] += rec.Class
		}

		// Colors follow catalog order so a site keeps its color; slices are
		// ordered by site name like a group-by.
		colors := make(map[string]string)
		for i, s := range ds.Sites() {
			colors[s] = colormap.Hex(palette.AtIndex(i))
		}

		sites := make([]string, 0, len(sums))
		for s := range sums {
			sites = append(sites, s)
		}
		sort.Strings(sites)

		slices := make([]Slice, 0, len(sites))
		for _, s := range sites {
			slices = append(slices, Slice{Label: s, Value: sums[s], Color: colors[s]})
		}
		return PieSpec{Kind: "pie", Title: PieTitleAllSites, Site: site, Slices: slices}
	}

	var total, success int
	for _, rec := range ds.Records() {
		if rec.Site != site {
			continue
		}
		total++
		success += rec.Class
	}

	return PieSpec{
		Kind:  "pie",
		Title: fmt.Sprintf(PieTitleSiteFmt, site),
		Site:  site,
		Slices: []Slice{
			{Label: "1", Value: success, Color: colormap.Hex(colormap.Outcome.AtIndex(0))},
			{Label: "0", Value: total - success, Color: colormap.Hex(colormap.Outcome.AtIndex(1))},
		},
	}
}

// FilterRecords returns the records the scatter chart plots for site and r,
// in dataset order.
func FilterRecords(ds *launches.Dataset, site string, r PayloadRange, opts ScatterOptions) []launches.Record {
	var out []launches.Record
	for _, rec := range ds.Records() {
		if rec.PayloadMass < r.Low {
			continue
		}
		if opts.EnforceUpperBound && rec.PayloadMass > r.High {
			continue
		}
		if site != launches.AllSites && rec.Site != site {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func scatterChart(ds *launches.Dataset, palette colormap.Colormap, site string, r PayloadRange, opts ScatterOptions) ScatterSpec {
	boosters := ds.BoosterCategories()
	byBooster := make(map[string][]Point, len(boosters))

	for _, rec := range FilterRecords(ds, site, r, opts) {
		byBooster[rec.BoosterCategory] = append(byBooster[rec.BoosterCategory], Point{
			X:    rec.PayloadMass,
			Y:    rec.Class,
			Site: rec.Site,
		})
	}

	series := make([]ScatterSeries, 0, len(byBooster))
	for i, b := range boosters {
		pts, ok := byBooster[b]
		if !ok {
			continue
		}
		series = append(series, ScatterSeries{
			Name:   b,
			Color:  colormap.Hex(palette.AtIndex(i)),
			Points: pts,
		})
	}

	return ScatterSpec{
		Kind:   "scatter",
		Title:  ScatterTitle,
		Site:   site,
		Range:  r,
		XLabel: launches.ColumnPayloadMass,
		YLabel: launches.ColumnClass,
		Series: series,
	}
}
