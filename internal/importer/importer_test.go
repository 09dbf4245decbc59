package importer

import (
	"strings"
	"testing"
)

// sliceSource is a RowSource over in-memory rows.
type sliceSource struct {
	rows []Row
	i    int
}

func (s *sliceSource) Next() bool {
	if s.i < len(s.rows) {
		s.i++
		return true
	}
	return false
}

func (s *sliceSource) Row() Row   { return s.rows[s.i-1] }
func (s *sliceSource) Err() error { return nil }

func hasPhone(row Row) (bool, error) {
	v, err := row.Get("Phone")
	if err != nil {
		return false, err
	}
	return v != "-", nil
}

// phoneSpec emits one metadata record per row plus a gated phone
// record, sharing one identifier sequence.
func phoneSpec(oids Generator) ImportSpec {
	return ImportSpec{
		{
			Table: "publicobject",
			Roles: []RoleSpec{
				{Role: "emp", Spec: RecordSpec{
					Attrs: []Attr{{Name: "_oid", Value: Dynamic{Gen: oids}}},
				}},
				{Role: "phone", Spec: RecordSpec{
					When:  hasPhone,
					Attrs: []Attr{{Name: "_oid", Value: Dynamic{Gen: oids}}},
				}},
			},
		},
		{
			Table: "phones",
			Roles: []RoleSpec{
				{Role: "sole", Spec: RecordSpec{
					When: hasPhone,
					Attrs: []Attr{
						{Name: "_oid", Value: Dynamic{Gen: oids}},
						{Name: "_publicobj_oid", Value: CrossRef{Table: "publicobject", Role: "phone", Attr: "_oid"}},
						{Name: "number", Value: Column{Name: "Phone", Convert: Quote}},
					},
				}},
			},
		},
	}
}

func TestImportGating(t *testing.T) {
	src := &sliceSource{rows: []Row{
		{"Phone": "555-1234"},
		{"Phone": "-"},
		{"Phone": "555-9876"},
	}}

	imp := Importer{Spec: phoneSpec(Sequence())}
	records, err := imp.Import(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rows 1 and 3 emit emp+phone metadata and a phone record; row 2
	// emits only emp metadata and consumes no identifiers for the
	// skipped records.
	got := records.SQL(false)
	want := strings.Join([]string{
		"INSERT INTO publicobject (_oid) VALUES (1);",
		"INSERT INTO publicobject (_oid) VALUES (2);",
		"INSERT INTO publicobject (_oid) VALUES (3);",
		"INSERT INTO publicobject (_oid) VALUES (4);",
		"INSERT INTO publicobject (_oid) VALUES (5);",
		"INSERT INTO phones (_oid, _publicobj_oid, number) VALUES (6, 2, '555-1234');",
		"INSERT INTO phones (_oid, _publicobj_oid, number) VALUES (7, 5, '555-9876');",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestImportGateColumnMissing(t *testing.T) {
	// A gate over an absent column must fail the run, never compare
	// against an empty value and emit.
	src := &sliceSource{rows: []Row{{"Fone": "555-1234"}}}
	imp := Importer{Spec: phoneSpec(Sequence())}
	records, err := imp.Import(src)
	if err == nil || !strings.Contains(err.Error(), `missing column "Phone"`) {
		t.Fatalf("got error %v, want missing gate column error", err)
	}
	if records != nil {
		t.Errorf("got %d records alongside error, want none", len(records))
	}
}

func TestImportEmptySource(t *testing.T) {
	imp := Importer{Spec: phoneSpec(Sequence())}
	records, err := imp.Import(&sliceSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestImportRowIDTagging(t *testing.T) {
	spec := ImportSpec{
		{
			Table: "departments",
			Roles: []RoleSpec{
				{Role: "sole", Spec: RecordSpec{
					Attrs: []Attr{{Name: "name", Value: Column{Name: "Department", Convert: Quote}}},
				}},
			},
		},
	}

	src := &sliceSource{rows: []Row{
		{"Department": "Sales"},
		{"Department": "Eng"},
	}}
	imp := Importer{Spec: spec, IDColumn: "Department"}
	records, err := imp.Import(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec, ok := records.Lookup("Eng"); !ok {
		t.Fatal("no record tagged with row id Eng")
	} else if v, _ := rec.Attr("name"); v != "'Eng'" {
		t.Errorf("looked up wrong record: name = %q", v)
	}

	if _, ok := records.Lookup("Marketing"); ok {
		t.Error("lookup of unknown row id succeeded")
	}
}

func TestImportRowIDColumnMissing(t *testing.T) {
	spec := ImportSpec{
		{Table: "t", Roles: []RoleSpec{{Role: "sole", Spec: RecordSpec{
			Attrs: []Attr{{Name: "a", Value: Const("1")}},
		}}}},
	}
	imp := Importer{Spec: spec, IDColumn: "Missing"}
	_, err := imp.Import(&sliceSource{rows: []Row{{"a": "x"}}})
	if err == nil || !strings.Contains(err.Error(), `missing column "Missing"`) {
		t.Fatalf("got error %v, want missing row id column error", err)
	}
}

func TestImportDuplicateRole(t *testing.T) {
	spec := ImportSpec{
		{Table: "t", Roles: []RoleSpec{
			{Role: "sole", Spec: RecordSpec{Attrs: []Attr{{Name: "a", Value: Const("1")}}}},
			{Role: "sole", Spec: RecordSpec{Attrs: []Attr{{Name: "a", Value: Const("2")}}}},
		}},
	}
	imp := Importer{Spec: spec}
	_, err := imp.Import(&sliceSource{rows: []Row{{}}})
	if err == nil || !strings.Contains(err.Error(), "duplicate role") {
		t.Fatalf("got error %v, want duplicate role error", err)
	}
}

func TestImportUnresolvedReference(t *testing.T) {
	// The referencing table is declared before its target: the lookup
	// must fail rather than fall back.
	spec := ImportSpec{
		{Table: "phones", Roles: []RoleSpec{{Role: "sole", Spec: RecordSpec{
			Attrs: []Attr{{Name: "_publicobj_oid", Value: CrossRef{Table: "publicobject", Role: "sole", Attr: "_oid"}}},
		}}}},
		{Table: "publicobject", Roles: []RoleSpec{{Role: "sole", Spec: RecordSpec{
			Attrs: []Attr{{Name: "_oid", Value: Dynamic{Gen: Sequence()}}},
		}}}},
	}
	imp := Importer{Spec: spec}
	_, err := imp.Import(&sliceSource{rows: []Row{{}}})
	if err == nil || !strings.Contains(err.Error(), "no record produced for publicobject/sole") {
		t.Fatalf("got error %v, want unresolved reference error", err)
	}
}

func TestImportErrorAbortsRun(t *testing.T) {
	spec := ImportSpec{
		{Table: "t", Roles: []RoleSpec{{Role: "sole", Spec: RecordSpec{
			Attrs: []Attr{{Name: "a", Value: Column{Name: "Value"}}},
		}}}},
	}
	src := &sliceSource{rows: []Row{
		{"Value": "ok"},
		{"Other": "broken row"},
	}}
	imp := Importer{Spec: spec}
	records, err := imp.Import(src)
	if err == nil {
		t.Fatal("expected error for malformed row")
	}
	if records != nil {
		t.Errorf("got %d records alongside error, want none", len(records))
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %v does not name the failing row", err)
	}
}

func TestImportDeterministic(t *testing.T) {
	rows := []Row{
		{"Phone": "555-1234"},
		{"Phone": "-"},
	}

	run := func() string {
		imp := Importer{Spec: phoneSpec(Sequence())}
		records, err := imp.Import(&sliceSource{rows: rows})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return records.SQL(false)
	}

	if first, second := run(), run(); first != second {
		t.Errorf("re-run diverged:\n%s\nvs:\n%s", first, second)
	}
}
