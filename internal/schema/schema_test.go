package schema

import (
	"strings"
	"testing"

	"github.com/JonMunkholm/csv2sql/internal/csvsource"
	"github.com/JonMunkholm/csv2sql/internal/importer"
)

const departmentsCSV = `Department, Floor
Sales, 3
Eng, 4
`

const employeesCSV = `First, Last, Department, Phone
Jane, Doe, Sales, 555-1234
John, Smith, Eng, -
`

func importPass(t *testing.T, csvText string, spec importer.ImportSpec, idColumn string) importer.RecordSet {
	t.Helper()
	src, err := csvsource.New(strings.NewReader(csvText), csvsource.Options{TrimLeadingSpace: true})
	if err != nil {
		t.Fatalf("csvsource.New: %v", err)
	}
	imp := importer.Importer{Spec: spec, IDColumn: idColumn}
	records, err := imp.Import(src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	return records
}

func TestSampleMigration(t *testing.T) {
	oids := importer.Sequence()

	departments := importPass(t, departmentsCSV, Departments(oids), "Department")
	employees := importPass(t, employeesCSV, Employees(oids, departments.Table("departments")), "")

	got := append(departments, employees...).SQL(false)
	want := `INSERT INTO publicobject (_oid, date) VALUES (1, now());
INSERT INTO publicobject (_oid, date) VALUES (2, now());
INSERT INTO departments (_oid, _publicobj_oid, name, floor) VALUES (3, 1, 'Sales', '3');
INSERT INTO departments (_oid, _publicobj_oid, name, floor) VALUES (4, 2, 'Eng', '4');
INSERT INTO publicobject (_oid, date) VALUES (5, now());
INSERT INTO publicobject (_oid, date) VALUES (6, now());
INSERT INTO publicobject (_oid, date) VALUES (7, now());
INSERT INTO employees (_oid, _publicobj_oid, department_oid, name) VALUES (8, 5, 3, 'Jane Doe');
INSERT INTO employees (_oid, _publicobj_oid, department_oid, name) VALUES (9, 7, 4, 'John Smith');
INSERT INTO phones (_oid, _publicobj_oid, _employee_oid, number) VALUES (10, 6, 8, '555-1234');
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDanglingDepartmentReference(t *testing.T) {
	oids := importer.Sequence()
	departments := importPass(t, departmentsCSV, Departments(oids), "Department")

	broken := `First, Last, Department, Phone
Jane, Doe, Marketing, -
`
	src, err := csvsource.New(strings.NewReader(broken), csvsource.Options{TrimLeadingSpace: true})
	if err != nil {
		t.Fatalf("csvsource.New: %v", err)
	}
	imp := importer.Importer{Spec: Employees(oids, departments.Table("departments"))}
	_, err = imp.Import(src)
	if err == nil || !strings.Contains(err.Error(), `"Marketing"`) {
		t.Fatalf("got error %v, want dangling foreign key error", err)
	}
}

func TestHasPhone(t *testing.T) {
	if ok, err := HasPhone(importer.Row{"Phone": "-"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if ok {
		t.Error("dash must mean no phone")
	}
	if ok, err := HasPhone(importer.Row{"Phone": "555-1234"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if !ok {
		t.Error("number must mean phone present")
	}
	if _, err := HasPhone(importer.Row{"Telephone": "555-1234"}); err == nil {
		t.Error("missing Phone column must be an error, not a closed gate")
	}
}
