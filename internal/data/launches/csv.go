package launches

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads launch records from a CSV file with a header row.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(path, records)
}

// ReadCSV parses launch records from r. Columns beyond the required ones are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cols := make([]int, len(RequiredColumns))
	for i, name := range RequiredColumns {
		idx, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		cols[i] = idx
	}

	var records []Record
	row := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec, err := parseRow(fields, cols, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return records, nil
}

func parseRow(fields []string, cols []int, row int) (Record, error) {
	cell := func(i int) string {
		if cols[i] >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[cols[i]])
	}

	payload, err := strconv.ParseFloat(cell(1), 64)
	if err != nil {
		return Record{}, fmt.Errorf("row %d: %s=%q: %w", row, ColumnPayloadMass, cell(1), ErrInvalidValue)
	}
	class, err := parseClass(cell(2))
	if err != nil {
		return Record{}, fmt.Errorf("row %d: %s=%q: %w", row, ColumnClass, cell(2), ErrInvalidValue)
	}

	rec := Record{
		Site:            cell(0),
		PayloadMass:     payload,
		Class:           class,
		BoosterCategory: cell(3),
	}
	if err := validateRecord(rec, row); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// parseClass accepts "0"/"1" as well as float renderings such as "1.0".
func parseClass(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("non-integer class %v", f)
	}
	return int(f), nil
}
