// Package workbook decodes xlsx files into plain sheet grids.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook is a decoded spreadsheet: sheets in tab order.
type Workbook struct {
	Sheets []Sheet
}

// Sheet is one named grid of cell values. Rows and columns are 0-indexed.
// Trailing empty cells may be missing from a row.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the raw value at (row, col) and whether it is
// present. Missing and empty cells both report false.
func (s Sheet) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(s.Rows) {
		return "", false
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return "", false
	}
	if r[col] == "" {
		return "", false
	}
	return r[col], true
}

// Decode reads an xlsx archive from r.
func Decode(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}
