// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds rectangular result sets parsed from BiomarkerKB
// list downloads and assembles them into one output table.
package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Table is a result set: a header and data rows aligned to it. A zero
// Table has no columns and no rows. A header-only download yields columns
// with zero rows, which still counts as empty for placeholder accounting.
type Table struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t Table) RowCount() int { return len(t.Rows) }

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column holding the same value in every row, used to
// tag downloaded rows with the query that produced them. An existing
// column of the same name is overwritten in place instead.
func (t *Table) AddColumn(name, value string) {
	if i := t.ColumnIndex(name); i >= 0 {
		for r := range t.Rows {
			t.Rows[r][i] = value
		}
		return
	}
	t.Columns = append(t.Columns, name)
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r], value)
	}
}

// FromCSV parses CSV text. The first record becomes the header; ragged
// records are an error (the client falls back to a JSON download then).
// An empty body yields a zero Table.
func FromCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	columns := records[0]
	// Strip a UTF-8 BOM so the first header cell matches lookups by name.
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	return Table{Columns: columns, Rows: records[1:]}, nil
}

// FromJSONRecords parses a JSON array of flat records, the shape the
// download endpoint returns when asked for format "json". Columns appear
// in order of first appearance across records; a record missing a column
// leaves the cell blank. Anything but an array of objects is an error.
func FromJSONRecords(data []byte) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return Table{}, fmt.Errorf("parsing JSON records: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return Table{}, fmt.Errorf("unexpected JSON structure: expected an array of records")
	}

	var t Table
	index := make(map[string]int)
	var rowMaps []map[string]string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Table{}, fmt.Errorf("parsing JSON records: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return Table{}, fmt.Errorf("unexpected JSON structure: records must be objects")
		}

		row := make(map[string]string)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return Table{}, fmt.Errorf("parsing JSON records: %w", err)
			}
			key := keyTok.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return Table{}, fmt.Errorf("parsing JSON records: %w", err)
			}

			if _, seen := index[key]; !seen {
				index[key] = len(t.Columns)
				t.Columns = append(t.Columns, key)
			}
			row[key] = scalarString(raw)
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return Table{}, fmt.Errorf("parsing JSON records: %w", err)
		}
		rowMaps = append(rowMaps, row)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return Table{}, fmt.Errorf("parsing JSON records: %w", err)
	}

	for _, row := range rowMaps {
		cells := make([]string, len(t.Columns))
		for key, value := range row {
			cells[index[key]] = value
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// scalarString renders one JSON value as a cell. Strings are unquoted,
// numbers keep their literal form, null becomes blank, and nested
// structures are kept as compact JSON.
func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
		return string(trimmed)
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
		return string(trimmed)
	default:
		return string(trimmed)
	}
}

// Concat appends tables in input order. The combined column set is the
// union in first-appearance order; cells a source table lacks are blank.
func Concat(tables ...Table) Table {
	var out Table
	index := make(map[string]int)

	for _, t := range tables {
		for _, col := range t.Columns {
			if _, ok := index[col]; !ok {
				index[col] = len(out.Columns)
				out.Columns = append(out.Columns, col)
			}
		}
	}

	for _, t := range tables {
		colmap := make([]int, len(t.Columns))
		for i, col := range t.Columns {
			colmap[i] = index[col]
		}
		for _, row := range t.Rows {
			cells := make([]string, len(out.Columns))
			for i, v := range row {
				if i < len(colmap) {
					cells[colmap[i]] = v
				}
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}
