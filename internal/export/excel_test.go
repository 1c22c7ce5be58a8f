// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biomarker-engine/internal/table"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	in := table.Table{
		Columns: []string{"query_biomarker", "biomarker_canonical_id", "specimen"},
		Rows: [][]string{
			{"IL-6", "AA4G-1", "serum"},
			{"IL-6", "AB5H-2", ""},
			{"PSA", "No data found", ""},
		},
	}
	require.NoError(t, WriteTable(path, in))

	out, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.RowCount(), out.RowCount())
	assert.Equal(t, in.Rows, out.Rows)
}

func TestWriteTableOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	first := table.Table{Columns: []string{"id"}, Rows: [][]string{{"1"}, {"2"}}}
	require.NoError(t, WriteTable(path, first))

	second := table.Table{Columns: []string{"id"}, Rows: [][]string{{"9"}}}
	require.NoError(t, WriteTable(path, second))

	out, err := ReadTable(path)
	require.NoError(t, err)
	require.Equal(t, 1, out.RowCount())
	assert.Equal(t, "9", out.Rows[0][0])
}

func TestWriteTableHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	in := table.Table{Columns: []string{"biomarker_id", "biomarker"}}
	require.NoError(t, WriteTable(path, in))

	out, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, in.Columns, out.Columns)
	assert.True(t, out.IsEmpty())
}

func TestWriteTableZeroTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.xlsx")

	require.NoError(t, WriteTable(path, table.Table{}))

	out, err := ReadTable(path)
	require.NoError(t, err)
	assert.Empty(t, out.Columns)
	assert.True(t, out.IsEmpty())
}

func TestReadColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	in := table.Table{
		Columns: []string{"BioMarker", "Category"},
		Rows: [][]string{
			{"IL-6", "cytokine"},
			{"", "uncategorized"},
			{"PSA", "antigen"},
			{"   ", "whitespace"},
		},
	}
	require.NoError(t, WriteTable(path, in))

	values, err := ReadColumn(path, "BioMarker")
	require.NoError(t, err)
	assert.Equal(t, []string{"IL-6", "PSA"}, values)
}

func TestReadColumnUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	in := table.Table{Columns: []string{"BioMarker", "Category"}}
	require.NoError(t, WriteTable(path, in))

	_, err := ReadColumn(path, "Name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "Name" not found`)
	assert.Contains(t, err.Error(), "BioMarker, Category")
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}
