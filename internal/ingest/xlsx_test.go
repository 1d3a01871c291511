package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Data")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "counts.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{
		{"CoC_Number", "State", "beds_es", "beds_th", "beds_sh", "total_homeless", "sheltered_homeless", "unsheltered_homeless"},
		{"CA-500", "CA", "1,000", "500", "50", "10,000", "2,500", "7,500"},
		{"", "XX", "1", "1", "1", "1", "1", "1"},
	})

	records, err := LoadXLSX(path, 2023, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1, "rows without a CoC number are dropped")

	rec := records[0]
	assert.Equal(t, "CA-500", rec.RegionID)
	assert.Equal(t, 2023, rec.Year)
	assert.Equal(t, 1550.0, rec.TotalBeds, "comma-grouped numbers parse")
	assert.Equal(t, 10000.0, rec.TotalHomeless)
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{
		{"coc_number", "total_homeless"},
		{"OR-501", "4000"},
	})

	_, err := LoadXLSX(path, 2023, XLSXOptions{SheetName: "Nope"})
	assert.ErrorContains(t, err, "not found")

	records, err := LoadXLSX(path, 2023, XLSXOptions{SheetName: "Data"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "OR-501", records[0].RegionID)

	_, err = LoadXLSX(path, 2023, XLSXOptions{SheetIndex: 5})
	assert.ErrorContains(t, err, "out of range")
}
