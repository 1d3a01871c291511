package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
)

const floatFormat = "0.00"

// BuildReport assembles a report workbook for one year: a summary sheet
// with the aggregate counts, year-over-year deltas when the prior year
// is known, and cut points, plus a per-region classification sheet.
// delta may be nil.
func BuildReport(snap analysis.ClassifiedSnapshot, sum analysis.Summary, delta *analysis.SummaryDelta) (*xlsx.File, error) {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, snap, sum, delta); err != nil {
		return nil, err
	}
	if err := addClassificationSheet(f, snap); err != nil {
		return nil, err
	}
	return f, nil
}

// SaveReport writes a report workbook for one year to path.
func SaveReport(path string, snap analysis.ClassifiedSnapshot, sum analysis.Summary, delta *analysis.SummaryDelta) error {
	f, err := BuildReport(snap, sum, delta)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	zap.L().Info("export: report written",
		zap.String("path", path),
		zap.Int("year", snap.Year),
		zap.Int("records", len(snap.Records)))
	return nil
}

func addSummarySheet(f *xlsx.File, snap analysis.ClassifiedSnapshot, sum analysis.Summary, delta *analysis.SummaryDelta) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	kv := func(key string, set func(*xlsx.Cell)) {
		row := sheet.AddRow()
		row.AddCell().SetString(key)
		set(row.AddCell())
	}
	num := func(key string, v float64) {
		kv(key, func(c *xlsx.Cell) { c.SetFloatWithFormat(v, floatFormat) })
	}

	kv("Year", func(c *xlsx.Cell) { c.SetInt(sum.Year) })
	kv("Regions", func(c *xlsx.Cell) { c.SetInt(sum.Regions) })
	num("Total homeless", sum.TotalHomeless)
	num("Sheltered", sum.ShelteredHomeless)
	num("Unsheltered", sum.UnshelteredHomeless)
	num("Sheltered %", sum.ShelteredPct)
	num("Unsheltered %", sum.UnshelteredPct)
	num("Total beds", sum.TotalBeds)
	num("Total bed gap", sum.TotalBedGap)
	num("Avg utilization %", sum.AvgUtilization)

	if delta != nil {
		sheet.AddRow()
		suffix := ""
		if delta.Interpolated {
			suffix = " (interpolated)"
		}
		num(fmt.Sprintf("YoY homeless %%%s", suffix), delta.HomelessPct)
		num(fmt.Sprintf("YoY sheltered %%%s", suffix), delta.ShelteredPct)
		num(fmt.Sprintf("YoY unsheltered %%%s", suffix), delta.UnshelteredPct)
		num(fmt.Sprintf("YoY beds %%%s", suffix), delta.BedsPct)
	}

	if snap.Thresholds != nil {
		sheet.AddRow()
		hdr := sheet.AddRow()
		hdr.AddCell().SetString("Cut point")
		hdr.AddCell().SetString("Bed gap %")
		for i, cut := range snap.Thresholds.Cuts() {
			row := sheet.AddRow()
			row.AddCell().SetInt((i + 1) * 20)
			row.AddCell().SetFloatWithFormat(cut, floatFormat)
		}
	}
	return nil
}

func addClassificationSheet(f *xlsx.File, snap analysis.ClassifiedSnapshot) error {
	sheet, err := f.AddSheet("Classifications")
	if err != nil {
		return eris.Wrap(err, "export: add classification sheet")
	}

	hdr := sheet.AddRow()
	for _, h := range []string{
		"CoC Number", "Name", "State", "Total Beds", "Total Homeless",
		"Unsheltered", "Bed Gap", "Bed Gap %", "Utilization %", "Need Level",
	} {
		hdr.AddCell().SetString(h)
	}

	for _, rec := range snap.Records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.RegionID)
		row.AddCell().SetString(rec.Name)
		row.AddCell().SetString(rec.State)
		row.AddCell().SetFloatWithFormat(rec.TotalBeds, floatFormat)
		row.AddCell().SetFloatWithFormat(rec.TotalHomeless, floatFormat)
		row.AddCell().SetFloatWithFormat(rec.UnshelteredHomeless, floatFormat)
		row.AddCell().SetFloatWithFormat(rec.BedGap, floatFormat)
		row.AddCell().SetFloatWithFormat(rec.BedGapPct, floatFormat)
		row.AddCell().SetFloatWithFormat(rec.BedUtilizationRate, floatFormat)
		row.AddCell().SetString(string(rec.NeedLevel))
	}
	return nil
}
