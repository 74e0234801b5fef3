package datatable

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnType names the value type a column's cells must parse as.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
)

// IsValid reports whether the value is a recognized column type.
func (t ColumnType) IsValid() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBool:
		return true
	default:
		return false
	}
}

// Column describes one CSV column and the type its cells must carry.
type Column struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type"`
}

// Table binds a source CSV to its schema and output XML path. Relative
// paths resolve against the manifest's directory.
type Table struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Output  string   `yaml:"output"`
	Columns []Column `yaml:"columns"`
}

// Manifest is the root of the pipeline configuration file.
type Manifest struct {
	Tables []Table `yaml:"tables"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for structural problems. All findings wrap
// ErrInvalidManifest.
func (m *Manifest) Validate() error {
	if len(m.Tables) == 0 {
		return fmt.Errorf("%w: no tables defined", ErrInvalidManifest)
	}

	seen := make(map[string]struct{}, len(m.Tables))
	for i, table := range m.Tables {
		if table.Name == "" {
			return fmt.Errorf("%w: table %d has no name", ErrInvalidManifest, i)
		}
		if _, dup := seen[table.Name]; dup {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidManifest, table.Name)
		}
		seen[table.Name] = struct{}{}

		if table.Source == "" {
			return fmt.Errorf("%w: table %q has no source", ErrInvalidManifest, table.Name)
		}
		if table.Output == "" {
			return fmt.Errorf("%w: table %q has no output", ErrInvalidManifest, table.Name)
		}
		if len(table.Columns) == 0 {
			return fmt.Errorf("%w: table %q has no columns", ErrInvalidManifest, table.Name)
		}

		cols := make(map[string]struct{}, len(table.Columns))
		for _, col := range table.Columns {
			if col.Name == "" {
				return fmt.Errorf("%w: table %q has an unnamed column", ErrInvalidManifest, table.Name)
			}
			if _, dup := cols[col.Name]; dup {
				return fmt.Errorf("%w: table %q repeats column %q", ErrInvalidManifest, table.Name, col.Name)
			}
			cols[col.Name] = struct{}{}
			if !col.Type.IsValid() {
				return fmt.Errorf("%w: table %q column %q has unknown type %q",
					ErrInvalidManifest, table.Name, col.Name, col.Type)
			}
		}
	}
	return nil
}
