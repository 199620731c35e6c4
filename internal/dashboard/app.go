package dashboard

import (
	"log"

	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/pkg/colormap"
)

// Options configures an App.
type Options struct {
	Title   string
	Slider  SliderOptions
	Scatter ScatterOptions
	Palette colormap.Colormap
}

// App is the assembled dashboard: the dataset context, the layout declared
// from it, and the bindings that recompute the charts. It is read-only after
// NewApp returns and safe for concurrent use.
type App struct {
	ds       *launches.Dataset
	opts     Options
	layout   Layout
	registry *Registry
}

// NewApp declares the layout for ds and registers the chart bindings.
func NewApp(ds *launches.Dataset, opts Options) *App {
	if opts.Palette == nil {
		opts.Palette = colormap.Plotly
	}
	if opts.Slider == (SliderOptions{}) {
		opts.Slider = DefaultSlider
	}

	a := &App{
		ds:       ds,
		opts:     opts,
		layout:   NewLayout(ds, opts.Title, opts.Slider),
		registry: NewRegistry(),
	}

	siteInput := Input{ID: SiteDropdownID, Property: "value"}
	payloadInput := Input{ID: PayloadSliderID, Property: "value"}

	// Both registrations target distinct outputs with non-nil handlers.
	_ = a.registry.Register(Binding{
		Output: Output{ID: PieGraphID, Property: "figure"},
		Inputs: []Input{siteInput},
		Handler: func(v Values) (any, error) {
			site, err := v.String(siteInput.Key())
			if err != nil {
				return nil, err
			}
			return a.Pie(site), nil
		},
	})
	_ = a.registry.Register(Binding{
		Output: Output{ID: ScatterGraphID, Property: "figure"},
		Inputs: []Input{siteInput, payloadInput},
		Handler: func(v Values) (any, error) {
			site, err := v.String(siteInput.Key())
			if err != nil {
				return nil, err
			}
			r, err := v.Range(payloadInput.Key())
			if err != nil {
				return nil, err
			}
			log.Printf("scatter: site=%q payload=[%g, %g]", site, r.Low, r.High)
			return a.Scatter(site, r), nil
		},
	})

	return a
}

// Dataset returns the dataset context.
func (a *App) Dataset() *launches.Dataset { return a.ds }

// Layout returns the page declaration.
func (a *App) Layout() Layout { return a.layout }

// Registry returns the chart bindings.
func (a *App) Registry() *Registry { return a.registry }

// ScatterOptions returns the filter options used by Scatter.
func (a *App) ScatterOptions() ScatterOptions { return a.opts.Scatter }

// DefaultRange is the slider's initial selection.
func (a *App) DefaultRange() PayloadRange {
	v := a.layout.Slider.Value
	return PayloadRange{Low: v[0], High: v[1]}
}

// Pie computes the success pie for site.
func (a *App) Pie(site string) PieSpec {
	return pieChart(a.ds, a.opts.Palette, site)
}

// Scatter computes the payload scatter for site and r.
func (a *App) Scatter(site string, r PayloadRange) ScatterSpec {
	return scatterChart(a.ds, a.opts.Palette, site, r, a.opts.Scatter)
}
