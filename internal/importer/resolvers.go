package importer

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Const is a Resolver that ignores the row and always yields a fixed,
// already-serialized literal.
type Const string

func (c Const) Resolve(Row, *RowContext) (string, error) {
	return string(c), nil
}

// Column yields the raw value of one column, optionally passed
// through a conversion.
type Column struct {
	Name    string
	Convert Convert
}

func (c Column) Resolve(row Row, _ *RowContext) (string, error) {
	v, err := row.Get(c.Name)
	if err != nil {
		return "", err
	}
	if c.Convert == nil {
		return v, nil
	}
	return c.Convert(v)
}

// Columns yields the result of a conversion applied to the
// sub-mapping of the named columns.
type Columns struct {
	Names   []string
	Convert ConvertMulti
}

func (c Columns) Resolve(row Row, _ *RowContext) (string, error) {
	sub, err := row.Subset(c.Names)
	if err != nil {
		return "", err
	}
	if c.Convert == nil {
		return "", fmt.Errorf("columns %v: no conversion configured", c.Names)
	}
	return c.Convert(sub)
}

// Dynamic yields a freshly generated value for every emitted record.
type Dynamic struct {
	Gen Generator
}

func (d Dynamic) Resolve(Row, *RowContext) (string, error) {
	if d.Gen == nil {
		return "", fmt.Errorf("dynamic attribute: no generator configured")
	}
	return d.Gen(), nil
}

// CrossRef yields an attribute of the record produced for the same
// source row under (Table, Role). The referenced role must be
// declared before the referencing one; a missing record fails the
// run.
type CrossRef struct {
	Table string
	Role  string
	Attr  string
}

func (x CrossRef) Resolve(_ Row, rc *RowContext) (string, error) {
	rec, err := rc.lookup(x.Table, x.Role)
	if err != nil {
		return "", err
	}
	v, ok := rec.Attr(x.Attr)
	if !ok {
		return "", fmt.Errorf("record %s/%s has no attribute %q", x.Table, x.Role, x.Attr)
	}
	return v, nil
}

// Sequence returns a Generator yielding "1", "2", ... with no gaps.
// Share a single Sequence across every record spec that must draw
// from one identifier space; reuse across unrelated runs defeats
// uniqueness.
func Sequence() Generator {
	n := 0
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

// UUIDs returns a Generator yielding random UUIDs as quoted SQL
// string literals.
func UUIDs() Generator {
	return func() string {
		return "'" + uuid.NewString() + "'"
	}
}
