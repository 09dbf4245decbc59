package specfile

// run.go executes the passes of a spec file in order, threading each
// pass's retained records into the lookups of later passes.

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/csv2sql/internal/csvsource"
	"github.com/JonMunkholm/csv2sql/internal/importer"
	"github.com/JonMunkholm/csv2sql/internal/logging"
)

// Opener opens a named source file.
type Opener func(name string) (io.ReadCloser, error)

// DirOpener opens sources relative to dir.
func DirOpener(dir string) Opener {
	return func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}
}

// Run executes every pass and returns all produced records in order.
// One sequence generator backs every `dynamic: sequence` attribute,
// so generated identifiers are unique across the whole run.
func (f *File) Run(ctx context.Context, open Opener, opts csvsource.Options) (importer.RecordSet, error) {
	seq := importer.Sequence()
	retained := make(map[string]importer.RecordSet)

	var out importer.RecordSet
	for _, p := range f.Passes {
		records, err := p.run(logging.WithPass(ctx, p.Name), open, opts, seq, retained)
		if err != nil {
			return nil, fmt.Errorf("pass %q: %w", p.Name, err)
		}
		if p.Retain != "" {
			retained[p.Name] = records.Table(p.Retain)
		}
		out = append(out, records...)
	}
	return out, nil
}

func (p Pass) run(ctx context.Context, open Opener, opts csvsource.Options, seq importer.Generator, retained map[string]importer.RecordSet) (importer.RecordSet, error) {
	spec, err := p.importSpec(seq, retained)
	if err != nil {
		return nil, err
	}

	rc, err := open(p.Source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := csvsource.New(rc, opts)
	if err != nil {
		return nil, err
	}

	imp := importer.Importer{Spec: spec, IDColumn: p.RowID, Logger: logging.FromContext(ctx)}
	return imp.Import(src)
}

// importSpec translates the pass into importer structures. Lookups
// resolve against the retained records of earlier passes.
func (p Pass) importSpec(seq importer.Generator, retained map[string]importer.RecordSet) (importer.ImportSpec, error) {
	var spec importer.ImportSpec
	for _, t := range p.Tables {
		ts := importer.TableSpec{Table: t.Table}
		for _, role := range t.Roles {
			rs := importer.RecordSpec{When: role.When.predicate()}
			for _, a := range role.Attrs {
				res, err := a.resolver(seq, retained)
				if err != nil {
					return nil, fmt.Errorf("table %q role %q attribute %q: %w", t.Table, role.Role, a.Name, err)
				}
				rs.Attrs = append(rs.Attrs, importer.Attr{Name: a.Name, Value: res})
			}
			ts.Roles = append(ts.Roles, importer.RoleSpec{Role: role.Role, Spec: rs})
		}
		spec = append(spec, ts)
	}
	return spec, nil
}

// predicate builds the gate closure. The gate column must exist in
// the source; a missing column fails the run rather than comparing
// against an empty value.
func (g *Gate) predicate() importer.Predicate {
	if g == nil {
		return nil
	}
	column := g.Column
	match := func(v string) bool {
		if g.Equals != nil {
			return v == *g.Equals
		}
		return v != *g.NotEquals
	}
	return func(row importer.Row) (bool, error) {
		v, err := row.Get(column)
		if err != nil {
			return false, err
		}
		return match(v), nil
	}
}

func (a Attr) resolver(seq importer.Generator, retained map[string]importer.RecordSet) (importer.Resolver, error) {
	switch {
	case a.Const != nil:
		return importer.Const(*a.Const), nil
	case a.Dynamic == "sequence":
		return importer.Dynamic{Gen: seq}, nil
	case a.Dynamic == "uuid":
		return importer.Dynamic{Gen: importer.UUIDs()}, nil
	case a.XRef != nil:
		return importer.CrossRef{Table: a.XRef.Table, Role: a.XRef.Role, Attr: a.XRef.Attr}, nil
	case len(a.Columns) > 0:
		sep := a.Sep
		if sep == "" {
			sep = " "
		}
		return importer.Columns{Names: a.Columns, Convert: importer.JoinColumns(sep, a.Columns...)}, nil
	case a.Column != "":
		conv, err := a.columnConvert(retained)
		if err != nil {
			return nil, err
		}
		return importer.Column{Name: a.Column, Convert: conv}, nil
	}
	return nil, fmt.Errorf("no value source")
}

func (a Attr) columnConvert(retained map[string]importer.RecordSet) (importer.Convert, error) {
	if a.Lookup != nil {
		records, ok := retained[a.Lookup.Pass]
		if !ok {
			return nil, fmt.Errorf("lookup pass %q retained no records", a.Lookup.Pass)
		}
		return importer.LookupAttr(records, a.Lookup.Attr), nil
	}
	if a.Convert == "quote" {
		return importer.Quote, nil
	}
	return nil, nil
}
