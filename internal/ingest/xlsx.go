package ingest

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// XLSXOptions configures the XLSX reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// LoadXLSX reads a yearly count table from a spreadsheet. The first row
// must be a header using the canonical column names; missing columns
// yield zero values, same as the CSV path.
func LoadXLSX(path string, defaultYear int, opts XLSXOptions) ([]model.RegionYearRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	colIdx := make(map[string]int)
	for j, cell := range sheet.Rows[0].Cells {
		colIdx[strings.ToLower(strings.TrimSpace(cell.String()))] = j
	}

	str := func(row *xlsx.Row, col string) string {
		j, ok := colIdx[col]
		if !ok || j >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[j].String())
	}
	num := func(row *xlsx.Row, col string) float64 {
		s := strings.ReplaceAll(str(row, col), ",", "")
		if s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return v
	}

	var records []model.RegionYearRecord
	for _, row := range sheet.Rows[1:] {
		raw := rawRow{
			RegionID:            str(row, "coc_number"),
			Name:                str(row, "coc_name"),
			State:               str(row, "state"),
			Year:                int(num(row, "year")),
			BedsES:              num(row, "beds_es"),
			BedsTH:              num(row, "beds_th"),
			BedsSH:              num(row, "beds_sh"),
			TotalHomeless:       num(row, "total_homeless"),
			ShelteredHomeless:   num(row, "sheltered_homeless"),
			UnshelteredHomeless: num(row, "unsheltered_homeless"),
			Latitude:            num(row, "latitude"),
			Longitude:           num(row, "longitude"),
		}
		if raw.RegionID == "" {
			continue
		}
		records = append(records, normalize(raw, defaultYear))
	}

	zap.L().Info("ingest: xlsx loaded", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ingest: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}
