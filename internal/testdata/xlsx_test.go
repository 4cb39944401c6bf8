package testdata

import (
	"path/filepath"
	"testing"

	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "employees.xlsx")
	in := Table{Columns: models.EmployeeFields, Records: []Record{
		EmployeeRecord(models.Employee{Name: "Ada Lovelace", Email: "ada@example.com", Department: "Research", Salary: 52000.5, Status: models.StatusActive}),
		EmployeeRecord(models.Employee{Name: "O'Brien, Pat", Email: "pat@example.com", Department: "Legal", Salary: 1000, Status: models.StatusInactive}),
	}}
	require.NoError(t, WriteXLSX(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	f := &Fixtures{Dir: dir}
	emps, err := f.Employees()
	require.NoError(t, err)
	require.Len(t, emps, 2)
	assert.Equal(t, 52000.5, emps[0].Salary)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "departments.xlsx")
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{" Name ", "Floor"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"Engineering", 3}))
	require.NoError(t, wb.SetSheetRow(sheet, "A4", &[]interface{}{"Legal"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	tbl, err := LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "floor"}, tbl.Columns)
	assert.Equal(t, []Record{
		{"name": "Engineering", "floor": "3"},
		{"name": "Legal", "floor": ""},
	}, tbl.Records, "blank rows are skipped, short rows padded")
}
