// Package schema holds the sample migration shipped with csv2sql: a
// four-table layout where every real object gets a companion row in
// the publicobject metadata table carrying its insertion date.
// Departments, employees and phones reference publicobject (and each
// other) through _oid foreign keys.
package schema

import "github.com/JonMunkholm/csv2sql/internal/importer"

// PublicObject is the record spec shared by every publicobject role:
// a generated _oid and the insertion date, emitted as a bare now()
// call for the database to evaluate.
func PublicObject(oids importer.Generator) importer.RecordSpec {
	return importer.RecordSpec{
		Attrs: []importer.Attr{
			{Name: "_oid", Value: importer.Dynamic{Gen: oids}},
			{Name: "date", Value: importer.Const("now()")},
		},
	}
}

// Departments builds the import spec for the departments file. Pass a
// shared oid Generator to keep _oid values unique across tables.
func Departments(oids importer.Generator) importer.ImportSpec {
	return importer.ImportSpec{
		{
			Table: "publicobject",
			Roles: []importer.RoleSpec{
				{Role: "sole", Spec: PublicObject(oids)},
			},
		},
		{
			Table: "departments",
			Roles: []importer.RoleSpec{
				{Role: "sole", Spec: importer.RecordSpec{
					Attrs: []importer.Attr{
						{Name: "_oid", Value: importer.Dynamic{Gen: oids}},
						{Name: "_publicobj_oid", Value: importer.CrossRef{Table: "publicobject", Role: "sole", Attr: "_oid"}},
						{Name: "name", Value: importer.Column{Name: "Department", Convert: importer.Quote}},
						{Name: "floor", Value: importer.Column{Name: "Floor", Convert: importer.Quote}},
					},
				}},
			},
		},
	}
}

// Employees builds the import spec for the employees file.
// departments must hold the records retained from the departments
// pass; employee rows reference their department by name, and rows
// with a phone number additionally emit a phones record.
func Employees(oids importer.Generator, departments importer.RecordSet) importer.ImportSpec {
	return importer.ImportSpec{
		{
			Table: "publicobject",
			Roles: []importer.RoleSpec{
				{Role: "emp", Spec: PublicObject(oids)},
				{Role: "phone", Spec: gated(PublicObject(oids), HasPhone)},
			},
		},
		{
			Table: "employees",
			Roles: []importer.RoleSpec{
				{Role: "sole", Spec: importer.RecordSpec{
					Attrs: []importer.Attr{
						{Name: "_oid", Value: importer.Dynamic{Gen: oids}},
						{Name: "_publicobj_oid", Value: importer.CrossRef{Table: "publicobject", Role: "emp", Attr: "_oid"}},
						{Name: "department_oid", Value: importer.Column{Name: "Department", Convert: importer.LookupAttr(departments, "_oid")}},
						{Name: "name", Value: importer.Columns{Names: []string{"First", "Last"}, Convert: importer.JoinColumns(" ", "First", "Last")}},
					},
				}},
			},
		},
		{
			Table: "phones",
			Roles: []importer.RoleSpec{
				{Role: "sole", Spec: importer.RecordSpec{
					When: HasPhone,
					Attrs: []importer.Attr{
						{Name: "_oid", Value: importer.Dynamic{Gen: oids}},
						{Name: "_publicobj_oid", Value: importer.CrossRef{Table: "publicobject", Role: "phone", Attr: "_oid"}},
						{Name: "_employee_oid", Value: importer.CrossRef{Table: "employees", Role: "sole", Attr: "_oid"}},
						{Name: "number", Value: importer.Column{Name: "Phone", Convert: importer.Quote}},
					},
				}},
			},
		},
	}
}

// HasPhone reports whether the row carries a phone number; the source
// files use "-" for none. A source without a Phone column is
// malformed and fails the run.
func HasPhone(row importer.Row) (bool, error) {
	v, err := row.Get("Phone")
	if err != nil {
		return false, err
	}
	return v != "-", nil
}

func gated(spec importer.RecordSpec, when importer.Predicate) importer.RecordSpec {
	spec.When = when
	return spec
}
