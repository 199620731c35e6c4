package launches

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `Flight Number,Launch Site,class,Payload Mass (kg),Booster Version,Booster Version Category
1,CCAFS LC-40,0,0,F9 v1.0  B0003,v1.0
2,CCAFS LC-40,0,525,F9 v1.0  B0005,v1.0
3,VAFB SLC-4E,1,500,F9 v1.1  B1003,v1.1
4,KSC LC-39A,1,2490,F9 FT  B1031.1,FT
5,CCAFS LC-40,1,9600,F9 B5  B1046.1,B5
6,VAFB SLC-4E,0,9600,F9 FT  B1036.1,FT
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	ds, err := Load(writeFile(t, "launches.csv", sampleCSV), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if ds.Len() != 6 {
		t.Fatalf("expected 6 records, got %d", ds.Len())
	}
	want := Record{Site: "KSC LC-39A", PayloadMass: 2490, Class: 1, BoosterCategory: "FT"}
	if got := ds.Records()[3]; got != want {
		t.Fatalf("record 3: got %+v want %+v", got, want)
	}
	if b := ds.PayloadBounds(); b.Min != 0 || b.Max != 9600 {
		t.Fatalf("unexpected bounds %+v", b)
	}
	if got := ds.BoosterCategories(); !reflect.DeepEqual(got, []string{"v1.0", "v1.1", "FT", "B5"}) {
		t.Fatalf("unexpected boosters %v", got)
	}
	if !ds.HasSite("VAFB SLC-4E") || ds.HasSite("ALL") {
		t.Fatalf("HasSite mismatch")
	}
}

func TestSiteCatalog(t *testing.T) {
	ds, err := Load(writeFile(t, "launches.csv", sampleCSV), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []SiteOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "CCAFS LC-40", Value: "CCAFS LC-40"},
		{Label: "VAFB SLC-4E", Value: "VAFB SLC-4E"},
		{Label: "KSC LC-39A", Value: "KSC LC-39A"},
	}
	if got := ds.SiteCatalog(); !reflect.DeepEqual(got, want) {
		t.Fatalf("catalog: got %#v want %#v", got, want)
	}
	if got := ds.Sites(); !reflect.DeepEqual(got, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A"}) {
		t.Fatalf("sites: %v", got)
	}

	// Mutating the returned copy must not leak into the dataset.
	cat := ds.SiteCatalog()
	cat[0].Value = "mutated"
	if ds.SiteCatalog()[0].Value != AllSites {
		t.Fatalf("catalog is not immutable")
	}
}

func TestBuildSiteCatalog_NoDuplicates(t *testing.T) {
	recs := []Record{{Site: "b"}, {Site: "a"}, {Site: "b"}, {Site: "c"}, {Site: "a"}}
	got := BuildSiteCatalog(recs)
	want := []SiteOption{{"All Sites", "ALL"}, {"b", "b"}, {"a", "a"}, {"c", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missingColumn",
			content: "Launch Site,class,Payload Mass (kg)\nA,1,10\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "headerOnly",
			content: "Launch Site,class,Payload Mass (kg),Booster Version Category\n",
			wantErr: ErrEmpty,
		},
		{
			name:    "emptyFile",
			content: "",
			wantErr: ErrEmpty,
		},
		{
			name:    "badPayload",
			content: "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,heavy,FT\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negativePayload",
			content: "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,-5,FT\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "classOutOfRange",
			content: "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,2,5,FT\n",
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(writeFile(t, "bad.csv", tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestReadCSV_FloatClassAndBOM(t *testing.T) {
	in := "\ufeffLaunch Site,Payload Mass (kg),class,Booster Version Category\nA, 1500.5 ,1.0,FT\n"
	recs, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := []Record{{Site: "A", PayloadMass: 1500.5, Class: 1, BoosterCategory: "FT"}}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("got %#v want %#v", recs, want)
	}
}

func TestNew_Empty(t *testing.T) {
	if _, err := New("mem", nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launches.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE launches (
			"Flight Number" INTEGER,
			"Launch Site" TEXT,
			"class" INTEGER,
			"Payload Mass (kg)" REAL,
			"Booster Version Category" TEXT
		);
		INSERT INTO launches VALUES (1, 'siteA', 1, 500, 'v1');
		INSERT INTO launches VALUES (2, 'siteA', 0, 1500, 'v1');
		INSERT INTO launches VALUES (3, 'siteB', 1, 2000, 'v2');
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Close()

	ds, err := Load(path, "launches")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []Record{
		{Site: "siteA", PayloadMass: 500, Class: 1, BoosterCategory: "v1"},
		{Site: "siteA", PayloadMass: 1500, Class: 0, BoosterCategory: "v1"},
		{Site: "siteB", PayloadMass: 2000, Class: 1, BoosterCategory: "v2"},
	}
	if !reflect.DeepEqual(ds.Records(), want) {
		t.Fatalf("got %#v want %#v", ds.Records(), want)
	}
	if b := ds.PayloadBounds(); b.Min != 500 || b.Max != 2000 {
		t.Fatalf("unexpected bounds %+v", b)
	}
}

func TestLoadSQLite_Errors(t *testing.T) {
	t.Run("missingFile", func(t *testing.T) {
		_, err := LoadSQLite(filepath.Join(t.TempDir(), "absent.db"), "launches")
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("missingColumn", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "launches.db")
		db, err := sql.Open("sqlite", path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, err := db.Exec(`CREATE TABLE launches ("Launch Site" TEXT, "class" INTEGER)`); err != nil {
			t.Fatalf("seed: %v", err)
		}
		db.Close()

		_, err = LoadSQLite(path, "launches")
		if !errors.Is(err, ErrMissingColumn) {
			t.Fatalf("expected ErrMissingColumn, got %v", err)
		}
	})

	t.Run("missingTable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "launches.db")
		db, err := sql.Open("sqlite", path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if _, err := db.Exec(`CREATE TABLE other (x INTEGER)`); err != nil {
			t.Fatalf("seed: %v", err)
		}
		db.Close()

		_, err = LoadSQLite(path, "launches")
		if !errors.Is(err, ErrMissingColumn) {
			t.Fatalf("expected ErrMissingColumn, got %v", err)
		}
	})
}
