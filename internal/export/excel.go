// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes result tables to spreadsheet files and reads
// entity lists back out of them.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/biomarker-engine/internal/table"
)

const sheetName = "Sheet1"

// WriteTable writes tab to an .xlsx workbook at path, header row first,
// overwriting any existing file. An empty table still produces a valid
// workbook so a zero-result run leaves a readable artifact.
func WriteTable(path string, tab table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(tab.Columns) > 0 {
		header := make([]any, len(tab.Columns))
		for i, col := range tab.Columns {
			header[i] = col
		}
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
	}

	for r, row := range tab.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", r+2), &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", r+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// ReadTable reads the first sheet of an .xlsx workbook back into a Table.
// The first row becomes the header; short rows are padded with blanks so
// every row aligns to the header.
func ReadTable(path string) (table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.Table{}, fmt.Errorf("%s contains no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return table.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return table.Table{}, nil
	}

	t := table.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// ReadColumn returns the named column's non-blank values from the first
// sheet at path, in row order. The enrichment run reads its entity list
// this way.
func ReadColumn(path, column string) ([]string, error) {
	tab, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	idx := tab.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in %s (available: %s)",
			column, path, strings.Join(tab.Columns, ", "))
	}

	var values []string
	for _, row := range tab.Rows {
		if v := strings.TrimSpace(row[idx]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}
