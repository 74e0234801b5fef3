package datatable

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

// writeFiles lays out a manifest and CSV sources in a temp dir and returns
// the manifest path.
func writeFiles(t *testing.T, manifest string, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	manifestPath := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifestPath
}

const itemsManifest = `
tables:
  - name: items
    source: items.csv
    output: gen/items.xml
    columns:
      - {name: id, type: int}
      - {name: title, type: string}
      - {name: price, type: float}
      - {name: stackable, type: bool}
`

const itemsCSV = "id,title,price,stackable\n" +
	"1,Sword,12.5,false\n" +
	"2,Potion,3.0,true\n"

// parsedTable mirrors the generated XML for assertions.
type parsedTable struct {
	Name string      `xml:"name,attr"`
	Rows []parsedRow `xml:"row"`
}

type parsedRow struct {
	ID        string `xml:"id,attr"`
	Title     string `xml:"title,attr"`
	Price     string `xml:"price,attr"`
	Stackable string `xml:"stackable,attr"`
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	manifestPath := writeFiles(t, itemsManifest, map[string]string{"items.csv": itemsCSV})

	if err := Generate(manifestPath); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(filepath.Dir(manifestPath), "gen", "items.xml"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var got parsedTable
	if err := xml.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid XML: %v\n%s", err, out)
	}
	if got.Name != "items" {
		t.Errorf("table name = %q, want items", got.Name)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if got.Rows[0].Title != "Sword" || got.Rows[0].Price != "12.5" {
		t.Errorf("first row = %+v", got.Rows[0])
	}
	if got.Rows[1].Stackable != "true" {
		t.Errorf("second row stackable = %q, want true", got.Rows[1].Stackable)
	}
}

func TestGenerateRejectsBadCells(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		csv     string
		wantErr error
	}{
		"non-numeric int": {
			csv:     "id,title,price,stackable\nx,Sword,1.0,true\n",
			wantErr: ErrBadCell,
		},
		"non-boolean": {
			csv:     "id,title,price,stackable\n1,Sword,1.0,maybe\n",
			wantErr: ErrBadCell,
		},
		"wrong header": {
			csv:     "identifier,title,price,stackable\n",
			wantErr: ErrSchemaMismatch,
		},
		"empty file": {
			csv:     "",
			wantErr: ErrSchemaMismatch,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			manifestPath := writeFiles(t, itemsManifest, map[string]string{"items.csv": tc.csv})
			if err := Generate(manifestPath); !errors.Is(err, tc.wantErr) {
				t.Errorf("Generate = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCheckCellUnknownType(t *testing.T) {
	t.Parallel()

	// Validation rejects unknown types before rows are read; the cell
	// check must still refuse them on its own.
	if err := checkCell("x", ColumnType("uuid")); !errors.Is(err, ErrBadCell) {
		t.Errorf("checkCell with unknown type = %v, want ErrBadCell", err)
	}
}

func TestManifestValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]Manifest{
		"no tables": {},
		"unnamed table": {Tables: []Table{
			{Source: "a.csv", Output: "a.xml", Columns: []Column{{Name: "id", Type: TypeInt}}},
		}},
		"duplicate table": {Tables: []Table{
			{Name: "a", Source: "a.csv", Output: "a.xml", Columns: []Column{{Name: "id", Type: TypeInt}}},
			{Name: "a", Source: "b.csv", Output: "b.xml", Columns: []Column{{Name: "id", Type: TypeInt}}},
		}},
		"missing source": {Tables: []Table{
			{Name: "a", Output: "a.xml", Columns: []Column{{Name: "id", Type: TypeInt}}},
		}},
		"missing output": {Tables: []Table{
			{Name: "a", Source: "a.csv", Columns: []Column{{Name: "id", Type: TypeInt}}},
		}},
		"no columns": {Tables: []Table{
			{Name: "a", Source: "a.csv", Output: "a.xml"},
		}},
		"duplicate column": {Tables: []Table{
			{Name: "a", Source: "a.csv", Output: "a.xml", Columns: []Column{
				{Name: "id", Type: TypeInt}, {Name: "id", Type: TypeInt},
			}},
		}},
		"unknown column type": {Tables: []Table{
			{Name: "a", Source: "a.csv", Output: "a.xml", Columns: []Column{
				{Name: "id", Type: "uuid"},
			}},
		}},
	}

	for name, m := range tests {
		m := m
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if err := m.Validate(); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("Validate = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	manifestPath := writeFiles(t, itemsManifest, nil)
	m, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(m.Tables) != 1 || m.Tables[0].Name != "items" {
		t.Errorf("manifest = %+v", m)
	}
	if m.Tables[0].Columns[2].Type != TypeFloat {
		t.Errorf("price column type = %q, want float", m.Tables[0].Columns[2].Type)
	}
}

func TestRelevantEvents(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ev   fsnotify.Event
		want bool
	}{
		"csv write":     {ev: fsnotify.Event{Name: "items.csv", Op: fsnotify.Write}, want: true},
		"yaml create":   {ev: fsnotify.Event{Name: "tables.yaml", Op: fsnotify.Create}, want: true},
		"csv rename":    {ev: fsnotify.Event{Name: "items.csv", Op: fsnotify.Rename}, want: true},
		"chmod only":    {ev: fsnotify.Event{Name: "items.csv", Op: fsnotify.Chmod}, want: false},
		"xml output":    {ev: fsnotify.Event{Name: "items.xml", Op: fsnotify.Write}, want: false},
		"editor swap":   {ev: fsnotify.Event{Name: "items.csv~", Op: fsnotify.Write}, want: false},
		"unrelated ext": {ev: fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, want: false},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := relevant(tc.ev); got != tc.want {
				t.Errorf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}
