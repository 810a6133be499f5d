// Package workbooktest builds xlsx fixtures shaped like quiz report exports.
package workbooktest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CorrectMark is the flag value of a correct option in report exports.
const CorrectMark = "✔︎"

// Sheet is a fixture sheet. Empty strings leave the cell blank.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReportSheet returns a question sheet with options at columns 3, 5, 7, 9 of
// the "Answer options" row and flags one column to the left of each option.
// correct lists the option texts that get the check mark.
func ReportSheet(name, prompt string, options []string, correct ...string) Sheet {
	isCorrect := make(map[string]bool, len(correct))
	for _, c := range correct {
		isCorrect[c] = true
	}

	opts := make([]string, 3+2*len(options))
	flags := make([]string, len(opts))
	opts[0] = "Answer options"
	flags[0] = "Is answer correct?"
	for i, o := range options {
		col := 3 + 2*i
		opts[col] = o
		if isCorrect[o] {
			flags[col-1] = CorrectMark
		}
	}

	return Sheet{
		Name: name,
		Rows: [][]string{
			{name},
			{name, prompt},
			{"Correct answers", prompt},
			{"Time to answer", "20"},
			opts,
			flags,
			{"Number of answers received"},
			{"Average time taken to answer (seconds)"},
			{"Players"},
			{"Player 1", "Blue"},
			{"Player 2", "Red"},
		},
	}
}

// ShortSheet returns a question-named sheet with fewer than ten rows.
func ShortSheet(name, prompt string) Sheet {
	s := ReportSheet(name, prompt, []string{"A", "B"}, "A")
	s.Rows = s.Rows[:9]
	return s
}

// Build writes sheets into an xlsx archive. With no sheets the workbook
// holds a single "Overview" sheet.
func Build(sheets ...Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if len(sheets) == 0 {
		sheets = []Sheet{{Name: "Overview", Rows: [][]string{{"Overview"}}}}
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, err
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellStr(s.Name, cell, v); err != nil {
					return nil, fmt.Errorf("set %s!%s: %w", s.Name, cell, err)
				}
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
