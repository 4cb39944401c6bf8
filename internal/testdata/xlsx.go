package testdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of a workbook: a header row, then one record per
// row. Cells are read as displayed text.
func LoadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	t := Table{Columns: normalizeHeader(rows[0]), Records: make([]Record, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t.Records = append(t.Records, recordFromRow(t.Columns, row))
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes a single-sheet workbook named after the file, with t.Columns
// as the header row. Every cell is stored as text.
func WriteXLSX(path string, t Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	writeRow := func(n int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, t.Columns); err != nil {
		return err
	}
	for i, rec := range t.Records {
		if err := writeRow(i+2, t.Row(rec)); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
