package testdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotrs-io/emsuite/internal/models"
	"gopkg.in/yaml.v3"
)

// Record is one fixture row keyed by lower-cased column name.
type Record map[string]string

// Table is a loaded fixture file. Columns keeps the header order of the source
// file, which Record on its own cannot.
type Table struct {
	Columns []string
	Records []Record
}

// Row returns rec's values in column order.
func (t Table) Row(rec Record) []string {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = rec[c]
	}
	return row
}

func (t *Table) addColumn(col string) {
	for _, c := range t.Columns {
		if c == col {
			return
		}
	}
	t.Columns = append(t.Columns, col)
}

var fixtureExts = []string{".csv", ".yaml", ".yml", ".xlsx"}

// ErrNoFixture is returned when a fixture set has no file in the fixtures directory.
var ErrNoFixture = errors.New("fixture file not found")

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	return out
}

func recordFromRow(columns, row []string) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		if i < len(row) {
			rec[col] = strings.TrimSpace(row[i])
		} else {
			rec[col] = ""
		}
	}
	return rec
}

// ReadCSV reads a header row followed by data rows. Header cells are trimmed and
// lower-cased; short rows leave the missing columns empty.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}
	t := Table{Columns: normalizeHeader(header)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row %d: %w", len(t.Records)+2, err)
		}
		t.Records = append(t.Records, recordFromRow(t.Columns, row))
	}
	return t, nil
}

// LoadCSV reads the CSV file at path; records keep file order.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadYAML reads a YAML sequence of flat mappings. Scalars of any type are kept
// as their literal text, so "salary: 52000.50" stays "52000.50". Columns are the
// keys in the order they first appear; records missing a key get it empty.
func LoadYAML(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return Table{}, nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return Table{}, fmt.Errorf("%s: expected a list of records, got %s", path, kindName(seq.Kind))
	}
	t := Table{Records: make([]Record, 0, len(seq.Content))}
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return Table{}, fmt.Errorf("%s: record %d is a %s, want a mapping", path, i+1, kindName(item.Kind))
		}
		rec := make(Record, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, val := item.Content[j], item.Content[j+1]
			if val.Kind != yaml.ScalarNode {
				return Table{}, fmt.Errorf("%s: record %d field %q is not a scalar", path, i+1, key.Value)
			}
			col := strings.ToLower(key.Value)
			t.addColumn(col)
			rec[col] = val.Value
		}
		t.Records = append(t.Records, rec)
	}
	for _, rec := range t.Records {
		for _, c := range t.Columns {
			if _, ok := rec[c]; !ok {
				rec[c] = ""
			}
		}
	}
	return t, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}

// Load picks the reader by file extension.
func Load(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return Table{}, fmt.Errorf("unsupported fixture format %q", filepath.Ext(path))
}

// WriteCSV writes t.Columns as the header, then one row per record.
func WriteCSV(path string, t Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, rec := range t.Records {
		if err := w.Write(t.Row(rec)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// EmployeeRecord turns e into a fixture row.
func EmployeeRecord(e models.Employee) Record {
	return Record(e.Fields())
}

// DepartmentRecord turns d into a fixture row.
func DepartmentRecord(d models.Department) Record {
	return Record{models.FieldName: d.Name}
}

// Employees converts fixture rows into employees.
func Employees(recs []Record) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(recs))
	for i, r := range recs {
		e, err := models.EmployeeFromFields(r)
		if err != nil {
			return nil, fmt.Errorf("employee record %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Departments converts fixture rows into departments, skipping rows without a name.
func Departments(recs []Record) []models.Department {
	out := make([]models.Department, 0, len(recs))
	for _, r := range recs {
		if name := r[models.FieldName]; name != "" {
			out = append(out, models.Department{Name: name})
		}
	}
	return out
}

// Fixtures finds the employees and departments files in Dir. Either may be CSV,
// YAML or an Excel workbook; the first of those extensions present wins.
type Fixtures struct {
	Dir string
}

func (f *Fixtures) find(set string) (string, error) {
	for _, ext := range fixtureExts {
		p := filepath.Join(f.Dir, set+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s in %s: %w", set, f.Dir, ErrNoFixture)
}

// Table loads the raw rows of set ("employees" or "departments").
func (f *Fixtures) Table(set string) (Table, error) {
	p, err := f.find(set)
	if err != nil {
		return Table{}, err
	}
	return Load(p)
}

func (f *Fixtures) Employees() ([]models.Employee, error) {
	t, err := f.Table("employees")
	if err != nil {
		return nil, err
	}
	return Employees(t.Records)
}

func (f *Fixtures) Departments() ([]models.Department, error) {
	t, err := f.Table("departments")
	if err != nil {
		return nil, err
	}
	return Departments(t.Records), nil
}

// RandomEmployee picks one employee row; rnd may be nil.
func (f *Fixtures) RandomEmployee(rnd *rand.Rand) (models.Employee, error) {
	all, err := f.Employees()
	if err != nil {
		return models.Employee{}, err
	}
	if len(all) == 0 {
		return models.Employee{}, fmt.Errorf("employees in %s: %w", f.Dir, ErrNoFixture)
	}
	return all[intn(rnd, len(all))], nil
}

// RandomDepartment picks one department row; rnd may be nil.
func (f *Fixtures) RandomDepartment(rnd *rand.Rand) (models.Department, error) {
	all, err := f.Departments()
	if err != nil {
		return models.Department{}, err
	}
	if len(all) == 0 {
		return models.Department{}, fmt.Errorf("departments in %s: %w", f.Dir, ErrNoFixture)
	}
	return all[intn(rnd, len(all))], nil
}

func intn(rnd *rand.Rand, n int) int {
	if rnd == nil {
		return rand.Intn(n)
	}
	return rnd.Intn(n)
}
