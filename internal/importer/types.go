package importer

import "fmt"

// Row is one parsed line of delimited input, addressable by column
// name. Rows are ephemeral: they are consumed by resolution and not
// retained.
type Row map[string]string

// Get returns the raw value for the named column. A missing column is
// a malformed-source error, not a per-row condition.
func (r Row) Get(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	return v, nil
}

// Subset returns the sub-mapping of the named columns. Every named
// column must be present.
func (r Row) Subset(names []string) (map[string]string, error) {
	sub := make(map[string]string, len(names))
	for _, name := range names {
		v, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		sub[name] = v
	}
	return sub, nil
}

// Convert transforms a single raw column value into a serialized SQL
// literal or expression. Conversions must be pure; the one sanctioned
// exception is a lookup against records retained from an earlier pass
// (see LookupAttr).
type Convert func(string) (string, error)

// ConvertMulti transforms the sub-mapping of several columns into one
// serialized value.
type ConvertMulti func(map[string]string) (string, error)

// Generator produces a fresh value on every call. Generators carry
// mutable state and are invoked once per emitted record, so sharing
// one Generator across several record specs yields a single
// identifier space.
type Generator func() string

// Predicate gates whether a record spec emits a record for a row. A
// predicate that cannot be evaluated (typically a missing gate
// column) returns an error, which is a malformed-source failure, not
// a closed gate.
type Predicate func(Row) (bool, error)

// Resolver computes one output attribute value from a row.
type Resolver interface {
	Resolve(row Row, rc *RowContext) (string, error)
}

// Attr binds an output attribute name to the resolver that computes
// it.
type Attr struct {
	Name  string
	Value Resolver
}

// RecordSpec is the declarative template for one output record
// derived from a row.
//
// Evaluating a RecordSpec against a row yields exactly one record, or
// nothing when When returns false. A false predicate skips the
// resolvers entirely: Dynamic generators do not fire for skipped
// records, so identifier sequences track emitted records only.
type RecordSpec struct {
	Attrs []Attr    // evaluated in declaration order
	When  Predicate // nil means always emit
}

// RoleSpec names one RecordSpec within a table. Roles disambiguate
// multiple records emitted into the same table from one row.
type RoleSpec struct {
	Role string
	Spec RecordSpec
}

// TableSpec declares the records emitted into one table.
type TableSpec struct {
	Table string
	Roles []RoleSpec
}

// ImportSpec is the complete table/role mapping for one import pass.
// Declaration order is evaluation order: tables that are
// cross-referenced must be declared before the tables referencing
// them.
type ImportSpec []TableSpec

// RowSource yields parsed rows, typically backed by a
// csvsource.Reader.
type RowSource interface {
	Next() bool
	Row() Row
	Err() error
}
