package datatable

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/playforge/gamecore/internal/logging"
)

// Generate loads the manifest at manifestPath and writes the XML output for
// every table. Tables are processed independently; the first failure stops
// the run so designers see one actionable error at a time.
func Generate(manifestPath string) error {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(manifestPath)
	for _, table := range m.Tables {
		if err := generateTable(baseDir, table); err != nil {
			return fmt.Errorf("table %q: %w", table.Name, err)
		}
		logging.Logger().Info("generated data table",
			"table", table.Name, "output", resolve(baseDir, table.Output))
	}
	return nil
}

// generateTable converts one table's CSV into its XML document.
func generateTable(baseDir string, table Table) error {
	rows, err := readRows(resolve(baseDir, table.Source), table.Columns)
	if err != nil {
		return err
	}
	return writeXML(resolve(baseDir, table.Output), table, rows)
}

// readRows parses and validates the CSV at path against the column schema.
// The first record must be a header naming the columns in schema order.
func readRows(path string, columns []Column) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file, expected a header row", ErrSchemaMismatch)
	}

	header := records[0]
	for i, col := range columns {
		if header[i] != col.Name {
			return nil, fmt.Errorf("%w: header column %d is %q, schema expects %q",
				ErrSchemaMismatch, i, header[i], col.Name)
		}
	}

	rows := records[1:]
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if err := checkCell(cell, columns[colIdx].Type); err != nil {
				// +2: one for the header, one for 1-based line numbers.
				return nil, fmt.Errorf("line %d column %q: %w",
					rowIdx+2, columns[colIdx].Name, err)
			}
		}
	}
	return rows, nil
}

// checkCell validates one cell against its column type.
func checkCell(cell string, t ColumnType) error {
	switch t {
	case TypeString:
		return nil
	case TypeInt:
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			return fmt.Errorf("%w: %q is not an int", ErrBadCell, cell)
		}
	case TypeFloat:
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return fmt.Errorf("%w: %q is not a float", ErrBadCell, cell)
		}
	case TypeBool:
		if _, err := strconv.ParseBool(cell); err != nil {
			return fmt.Errorf("%w: %q is not a bool", ErrBadCell, cell)
		}
	default:
		// Manifest validation rejects unknown types before rows are read;
		// kept here so the two checks cannot drift apart.
		return fmt.Errorf("%w: unknown column type %q", ErrBadCell, t)
	}
	return nil
}

// writeXML renders the validated rows as an XML document:
//
//	<table name="items">
//	  <row id="1" title="Sword"/>
//	</table>
//
// Output is written atomically: to a temp file in the destination directory,
// then renamed, so a watcher or the game never reads a half-written table.
func writeXML(path string, table Table, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".datatable-*")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name()) // no-op after successful rename
	}()

	enc := xml.NewEncoder(tmp)
	enc.Indent("", "  ")

	start := xml.StartElement{
		Name: xml.Name{Local: "table"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: table.Name}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}
	for _, row := range rows {
		el := xml.StartElement{Name: xml.Name{Local: "row"}}
		for i, col := range table.Columns {
			el.Attr = append(el.Attr, xml.Attr{
				Name:  xml.Name{Local: col.Name},
				Value: row[i],
			})
		}
		if err := enc.EncodeToken(el); err != nil {
			return fmt.Errorf("encoding xml: %w", err)
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return fmt.Errorf("encoding xml: %w", err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flushing xml: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}
	return nil
}

// resolve joins path onto baseDir unless it is already absolute.
func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
