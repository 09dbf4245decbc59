package importer

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Record is a realized table/attribute-value bundle. Values are held
// exactly as the resolvers serialized them. Records are immutable
// once the importer has built them.
type Record struct {
	table string
	role  string
	rowID string

	names  []string
	values map[string]string
}

func newRecord(table, role, rowID string, size int) *Record {
	return &Record{
		table:  table,
		role:   role,
		rowID:  rowID,
		names:  make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

func (r *Record) set(name, value string) error {
	if _, dup := r.values[name]; dup {
		return fmt.Errorf("duplicate attribute %q", name)
	}
	r.names = append(r.names, name)
	r.values[name] = value
	return nil
}

// Table returns the target table name.
func (r *Record) Table() string { return r.table }

// Role returns the role the record was produced under.
func (r *Record) Role() string { return r.role }

// RowID returns the business key the record was tagged with, or "".
func (r *Record) RowID() string { return r.rowID }

// Attr returns the serialized value of the named attribute.
func (r *Record) Attr(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// AttrNames returns the attribute names in declaration order.
func (r *Record) AttrNames() []string {
	return append([]string(nil), r.names...)
}

// InsertStatement renders the record as one INSERT statement with
// attributes in declaration order. Values are inserted verbatim: the
// resolver layer is responsible for quoting string literals and
// leaving numeric or function-call expressions bare. No further
// escaping happens here.
func (r *Record) InsertStatement() string { return r.render(false) }

// QuotedInsertStatement is InsertStatement with the table and column
// names quoted and escaped through pgx identifier sanitization, for
// targets with reserved-word or mixed-case identifiers.
func (r *Record) QuotedInsertStatement() string { return r.render(true) }

func (r *Record) render(quoteIdents bool) string {
	ident := func(name string) string {
		if quoteIdents {
			return pgx.Identifier{name}.Sanitize()
		}
		return name
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(ident(r.table))
	b.WriteString(" (")
	for i, name := range r.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ident(name))
	}
	b.WriteString(") VALUES (")
	for i, name := range r.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.values[name])
	}
	b.WriteString(");")
	return b.String()
}
