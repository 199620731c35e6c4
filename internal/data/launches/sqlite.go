package launches

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads launch records from a table in a SQLite database.
// The table must carry the same column names as the CSV source.
func LoadSQLite(path, table string) (*Dataset, error) {
	if table == "" {
		table = "launches"
	}
	// sql.Open would silently create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer db.Close()

	records, err := querySQLite(db, table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(path, records)
}

func querySQLite(db *sql.DB, table string) ([]Record, error) {
	if err := checkColumns(db, table); err != nil {
		return nil, err
	}

	cols := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		cols[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), quoteIdent(table))

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var records []Record
	row := 0
	for rows.Next() {
		row++
		var (
			site, booster sql.NullString
			payload       sql.NullFloat64
			class         sql.NullFloat64
		)
		if err := rows.Scan(&site, &payload, &class, &booster); err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", row, err, ErrInvalidValue)
		}
		if !payload.Valid {
			return nil, fmt.Errorf("row %d: %s is NULL: %w", row, ColumnPayloadMass, ErrInvalidValue)
		}
		if !class.Valid || class.Float64 != float64(int(class.Float64)) {
			return nil, fmt.Errorf("row %d: %s is not an integer: %w", row, ColumnClass, ErrInvalidValue)
		}

		rec := Record{
			Site:            site.String,
			PayloadMass:     payload.Float64,
			Class:           int(class.Float64),
			BoosterCategory: booster.String,
		}
		if err := validateRecord(rec, row); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return records, nil
}

func checkColumns(db *sql.DB, table string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(present) == 0 {
		return fmt.Errorf("table %q not found: %w", table, ErrMissingColumn)
	}
	for _, c := range RequiredColumns {
		if !present[c] {
			return fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
