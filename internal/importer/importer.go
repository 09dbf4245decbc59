package importer

// importer.go drives an import pass: rows in, ordered records out.
//
// Evaluation is table-major. Every table in the ImportSpec is
// processed in declaration order, within a table every source row in
// read order, and within a row every role in declaration order.
// Grouping the output by table keeps the emitted statements in
// dependency order: referenced tables insert before the tables
// holding their foreign keys. Cross-references remain scoped to the
// source row: each row keeps its own registry of produced records, so
// a record can only reference siblings derived from the same input
// line.

import (
	"fmt"
	"log/slog"
)

// Importer evaluates an ImportSpec over a row source.
//
// Importers carry no state of their own; all mutable state lives in
// the Generators the caller shares between record specs. Processing
// is strictly sequential: generator invocation order and
// cross-reference resolution both depend on it.
type Importer struct {
	Spec ImportSpec

	// IDColumn optionally names the column whose value tags every
	// produced record as its row id, for lookup by a later pass.
	IDColumn string

	// Logger receives per-pass progress. Nil disables logging.
	Logger *slog.Logger
}

// Import reads every row from src and evaluates the full spec. It
// returns the ordered sequence of produced records, or the first
// error encountered. A non-nil error means the batch must be
// discarded; there is no partial-success mode.
func (imp *Importer) Import(src RowSource) (RecordSet, error) {
	if err := imp.Spec.validate(); err != nil {
		return nil, err
	}

	rows, err := drain(src)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	if imp.IDColumn != "" {
		for i, row := range rows {
			id, err := row.Get(imp.IDColumn)
			if err != nil {
				return nil, fmt.Errorf("row %d: row id: %w", i+1, err)
			}
			ids[i] = id
		}
	}

	contexts := make([]*RowContext, len(rows))
	for i := range contexts {
		contexts[i] = newRowContext()
	}

	var out RecordSet
	for _, ts := range imp.Spec {
		for i, row := range rows {
			for _, rs := range ts.Roles {
				rec, err := evalRecordSpec(ts.Table, rs.Role, rs.Spec, row, contexts[i], ids[i])
				if err != nil {
					return nil, fmt.Errorf("row %d: table %q role %q: %w", i+1, ts.Table, rs.Role, err)
				}
				if rec == nil {
					continue
				}
				if err := contexts[i].register(rec); err != nil {
					return nil, fmt.Errorf("row %d: %w", i+1, err)
				}
				out = append(out, rec)
			}
		}
	}

	if imp.Logger != nil {
		imp.Logger.Info("import pass complete", "rows", len(rows), "records", len(out))
	}
	return out, nil
}

// evalRecordSpec produces one record, or nil when the gate is closed.
// Resolvers do not run for gated-off rows, so Dynamic generators only
// advance for records that are actually emitted.
func evalRecordSpec(table, role string, spec RecordSpec, row Row, rc *RowContext, rowID string) (*Record, error) {
	if spec.When != nil {
		emit, err := spec.When(row)
		if err != nil {
			return nil, fmt.Errorf("gate: %w", err)
		}
		if !emit {
			return nil, nil
		}
	}
	rec := newRecord(table, role, rowID, len(spec.Attrs))
	for _, attr := range spec.Attrs {
		v, err := attr.Value.Resolve(row, rc)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		if err := rec.set(attr.Name, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func drain(src RowSource) ([]Row, error) {
	var rows []Row
	for src.Next() {
		rows = append(rows, src.Row())
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

func (s ImportSpec) validate() error {
	seen := make(map[roleKey]struct{})
	for _, ts := range s {
		if ts.Table == "" {
			return fmt.Errorf("import spec: table with empty name")
		}
		for _, rs := range ts.Roles {
			key := roleKey{ts.Table, rs.Role}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("import spec: duplicate role %q in table %q", rs.Role, ts.Table)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

// RowContext is the registry of records already produced for the
// source row being evaluated. CrossRef resolvers consult it; every
// other resolver ignores it.
type RowContext struct {
	records map[roleKey]*Record
}

type roleKey struct {
	table string
	role  string
}

func newRowContext() *RowContext {
	return &RowContext{records: make(map[roleKey]*Record)}
}

func (rc *RowContext) register(rec *Record) error {
	key := roleKey{rec.table, rec.role}
	if _, dup := rc.records[key]; dup {
		return fmt.Errorf("ambiguous reference target: %s/%s produced more than one record for the row", rec.table, rec.role)
	}
	rc.records[key] = rec
	return nil
}

func (rc *RowContext) lookup(table, role string) (*Record, error) {
	rec, ok := rc.records[roleKey{table, role}]
	if !ok {
		return nil, fmt.Errorf("no record produced for %s/%s; referenced roles must be declared before roles that reference them", table, role)
	}
	return rec, nil
}
