// Package launches loads launch records and derives the read-only lookup
// tables the dashboard controls are built from.
package launches

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Column names expected in every data source.
const (
	ColumnSite            = "Launch Site"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
)

// Sentinel catalog entry meaning "no site filter".
const (
	AllSites      = "ALL"
	AllSitesLabel = "All Sites"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned when a cell cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
	// ErrEmpty is returned when the source contains no records.
	ErrEmpty = errors.New("dataset contains no records")
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{ColumnSite, ColumnPayloadMass, ColumnClass, ColumnBoosterCategory}

// Record is a single launch.
type Record struct {
	Site            string  `json:"site"`
	PayloadMass     float64 `json:"payload_mass"`
	Class           int     `json:"class"`
	BoosterCategory string  `json:"booster_category"`
}

// Bounds is the closed [Min, Max] interval of payload masses.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SiteOption is one selectable entry of the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dataset is the immutable in-memory record set plus derived state.
// It is built once by Load or New and never modified afterwards.
type Dataset struct {
	source   string
	records  []Record
	bounds   Bounds
	catalog  []SiteOption
	siteSet  map[string]struct{}
	boosters []string
}

// New builds a Dataset from records. The slice is copied.
func New(source string, records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	recs := make([]Record, len(records))
	copy(recs, records)

	ds := &Dataset{
		source:  source,
		records: recs,
		bounds:  Bounds{Min: recs[0].PayloadMass, Max: recs[0].PayloadMass},
		catalog: BuildSiteCatalog(recs),
		siteSet: make(map[string]struct{}),
	}

	seenBooster := make(map[string]struct{})
	for _, rec := range recs {
		if rec.PayloadMass < ds.bounds.Min {
			ds.bounds.Min = rec.PayloadMass
		}
		if rec.PayloadMass > ds.bounds.Max {
			ds.bounds.Max = rec.PayloadMass
		}
		ds.siteSet[rec.Site] = struct{}{}
		if _, ok := seenBooster[rec.BoosterCategory]; !ok {
			seenBooster[rec.BoosterCategory] = struct{}{}
			ds.boosters = append(ds.boosters, rec.BoosterCategory)
		}
	}

	return ds, nil
}

// Load reads a dataset from path, choosing the reader by file extension.
func Load(path, table string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path, table)
	default:
		return LoadCSV(path)
	}
}

// BuildSiteCatalog returns the dropdown options: the "All Sites" sentinel
// followed by each distinct site in order of first appearance.
func BuildSiteCatalog(records []Record) []SiteOption {
	opts := []SiteOption{{Label: AllSitesLabel, Value: AllSites}}
	seen := make(map[string]struct{})
	for _, rec := range records {
		if _, ok := seen[rec.Site]; ok {
			continue
		}
		seen[rec.Site] = struct{}{}
		opts = append(opts, SiteOption{Label: rec.Site, Value: rec.Site})
	}
	return opts
}

// Source returns the path the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the records in source order. Callers must not modify the slice.
func (d *Dataset) Records() []Record { return d.records }

// PayloadBounds returns the min and max payload mass across all records.
func (d *Dataset) PayloadBounds() Bounds { return d.bounds }

// SiteCatalog returns a copy of the dropdown options.
func (d *Dataset) SiteCatalog() []SiteOption {
	out := make([]SiteOption, len(d.catalog))
	copy(out, d.catalog)
	return out
}

// Sites returns the distinct sites in first-appearance order.
func (d *Dataset) Sites() []string {
	sites := make([]string, 0, len(d.catalog)-1)
	for _, opt := range d.catalog[1:] {
		sites = append(sites, opt.Value)
	}
	return sites
}

// HasSite reports whether any record has the given site.
func (d *Dataset) HasSite(site string) bool {
	_, ok := d.siteSet[site]
	return ok
}

// BoosterCategories returns the distinct booster categories in first-appearance order.
func (d *Dataset) BoosterCategories() []string {
	out := make([]string, len(d.boosters))
	copy(out, d.boosters)
	return out
}

func validateRecord(rec Record, row int) error {
	if math.IsNaN(rec.PayloadMass) || math.IsInf(rec.PayloadMass, 0) || rec.PayloadMass < 0 {
		return fmt.Errorf("row %d: %s=%v is not a non-negative number: %w", row, ColumnPayloadMass, rec.PayloadMass, ErrInvalidValue)
	}
	if rec.Class != 0 && rec.Class != 1 {
		return fmt.Errorf("row %d: %s=%d is not 0 or 1: %w", row, ColumnClass, rec.Class, ErrInvalidValue)
	}
	return nil
}
