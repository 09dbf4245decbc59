// Package specfile loads declarative import passes from YAML.
//
// A spec file covers the same feature set as hand-written Go specs:
// constant, column, multi-column, dynamic and cross-reference
// attributes, gating predicates, and foreign-key lookups into the
// retained records of earlier passes. Passes run in file order within
// one process, which is the only place cross-pass references can be
// resolved.
package specfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the root of a spec file.
type File struct {
	Passes []Pass `yaml:"passes"`
}

// Pass describes one import pass over one source file.
type Pass struct {
	Name   string  `yaml:"name"`
	Source string  `yaml:"source"`
	RowID  string  `yaml:"row_id"`
	Retain string  `yaml:"retain"` // table whose records later passes may look up
	Tables []Table `yaml:"tables"`
}

// Table declares the roles emitted into one output table.
type Table struct {
	Table string `yaml:"table"`
	Roles []Role `yaml:"roles"`
}

// Role declares one record per source row, optionally gated.
type Role struct {
	Role  string `yaml:"role"`
	When  *Gate  `yaml:"when"`
	Attrs []Attr `yaml:"attrs"`
}

// Gate is a column comparison gating record emission. Exactly one of
// Equals and NotEquals must be set.
type Gate struct {
	Column    string  `yaml:"column"`
	Equals    *string `yaml:"equals"`
	NotEquals *string `yaml:"not_equals"`
}

// Attr declares one output attribute. Exactly one of Const, Column,
// Columns, Dynamic and XRef must be set. Convert and Sep refine
// Column and Columns; Lookup refines Column.
type Attr struct {
	Name    string   `yaml:"name"`
	Const   *string  `yaml:"const"`
	Column  string   `yaml:"column"`
	Columns []string `yaml:"columns"`
	Convert string   `yaml:"convert"` // "quote" or "join"
	Sep     string   `yaml:"sep"`     // join separator, default " "
	Dynamic string   `yaml:"dynamic"` // "sequence" or "uuid"
	XRef    *XRef    `yaml:"xref"`
	Lookup  *Lookup  `yaml:"lookup"`
}

// XRef references an attribute of the record produced for the same
// source row under (Table, Role).
type XRef struct {
	Table string `yaml:"table"`
	Role  string `yaml:"role"`
	Attr  string `yaml:"attr"`
}

// Lookup resolves the column value as a business key into the
// retained records of a named earlier pass.
type Lookup struct {
	Pass string `yaml:"pass"`
	Attr string `yaml:"attr"`
}

// Load reads and validates a spec file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("spec file %s: %w", path, err)
	}
	return f, nil
}

// Parse parses and validates spec file contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Passes) == 0 {
		return fmt.Errorf("no passes defined")
	}
	seen := make(map[string]bool, len(f.Passes))
	for _, p := range f.Passes {
		if p.Name == "" || p.Source == "" {
			return fmt.Errorf("every pass needs a name and a source")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate pass %q", p.Name)
		}
		for _, t := range p.Tables {
			if t.Table == "" {
				return fmt.Errorf("pass %q: table with empty name", p.Name)
			}
			for _, role := range t.Roles {
				if err := role.validate(seen); err != nil {
					return fmt.Errorf("pass %q table %q role %q: %w", p.Name, t.Table, role.Role, err)
				}
			}
		}
		seen[p.Name] = true
	}
	return nil
}

func (r Role) validate(earlier map[string]bool) error {
	if r.When != nil {
		if r.When.Column == "" {
			return fmt.Errorf("gate needs a column")
		}
		if (r.When.Equals == nil) == (r.When.NotEquals == nil) {
			return fmt.Errorf("gate needs exactly one of equals and not_equals")
		}
	}
	if len(r.Attrs) == 0 {
		return fmt.Errorf("no attributes declared")
	}
	for _, a := range r.Attrs {
		if err := a.validate(earlier); err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
	}
	return nil
}

func (a Attr) validate(earlier map[string]bool) error {
	if a.Name == "" {
		return fmt.Errorf("missing name")
	}

	kinds := 0
	if a.Const != nil {
		kinds++
	}
	if a.Column != "" {
		kinds++
	}
	if len(a.Columns) > 0 {
		kinds++
	}
	if a.Dynamic != "" {
		kinds++
	}
	if a.XRef != nil {
		kinds++
	}
	if kinds != 1 {
		return fmt.Errorf("exactly one of const, column, columns, dynamic and xref required")
	}

	switch a.Dynamic {
	case "", "sequence", "uuid":
	default:
		return fmt.Errorf("unknown dynamic kind %q", a.Dynamic)
	}
	switch a.Convert {
	case "", "quote":
	case "join":
		if len(a.Columns) == 0 {
			return fmt.Errorf("join requires columns")
		}
	default:
		return fmt.Errorf("unknown convert %q", a.Convert)
	}
	if a.Lookup != nil {
		if a.Column == "" {
			return fmt.Errorf("lookup requires column")
		}
		if a.Convert != "" {
			return fmt.Errorf("lookup and convert are mutually exclusive")
		}
		if a.Lookup.Pass == "" || a.Lookup.Attr == "" {
			return fmt.Errorf("lookup needs pass and attr")
		}
		if !earlier[a.Lookup.Pass] {
			return fmt.Errorf("lookup pass %q is not an earlier pass", a.Lookup.Pass)
		}
	}
	return nil
}
