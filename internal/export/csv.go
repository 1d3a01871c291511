// Package export writes analysis results to CSV tables and XLSX report
// workbooks. The CSV column set mirrors the ingest schema with the
// derived columns appended, so an export can be re-ingested.
package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/model"
)

type classificationRow struct {
	RegionID            string  `csv:"coc_number"`
	Name                string  `csv:"coc_name"`
	State               string  `csv:"state"`
	Year                int     `csv:"year"`
	BedsES              float64 `csv:"beds_es"`
	BedsTH              float64 `csv:"beds_th"`
	BedsSH              float64 `csv:"beds_sh"`
	TotalBeds           float64 `csv:"total_beds"`
	TotalHomeless       float64 `csv:"total_homeless"`
	ShelteredHomeless   float64 `csv:"sheltered_homeless"`
	UnshelteredHomeless float64 `csv:"unsheltered_homeless"`
	BedGap              float64 `csv:"bed_gap"`
	BedGapPct           float64 `csv:"bed_gap_pct"`
	BedUtilizationRate  float64 `csv:"bed_utilization_rate"`
	NeedLevel           string  `csv:"need_level"`
}

func toRow(rec model.RegionYearRecord) classificationRow {
	return classificationRow{
		RegionID:            rec.RegionID,
		Name:                rec.Name,
		State:               rec.State,
		Year:                rec.Year,
		BedsES:              rec.BedsES,
		BedsTH:              rec.BedsTH,
		BedsSH:              rec.BedsSH,
		TotalBeds:           rec.TotalBeds,
		TotalHomeless:       rec.TotalHomeless,
		ShelteredHomeless:   rec.ShelteredHomeless,
		UnshelteredHomeless: rec.UnshelteredHomeless,
		BedGap:              rec.BedGap,
		BedGapPct:           rec.BedGapPct,
		BedUtilizationRate:  rec.BedUtilizationRate,
		NeedLevel:           string(rec.NeedLevel),
	}
}

// WriteClassificationsCSV streams a classified snapshot to w, header first.
func WriteClassificationsCSV(w io.Writer, snap analysis.ClassifiedSnapshot) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, rec := range snap.Records {
		if err := enc.Encode(toRow(rec)); err != nil {
			return eris.Wrapf(err, "export: encode row for %s", rec.RegionID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// SaveClassificationsCSV writes a classified snapshot to a file.
func SaveClassificationsCSV(path string, snap analysis.ClassifiedSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	if err := WriteClassificationsCSV(f, snap); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	zap.L().Info("export: csv written",
		zap.String("path", path),
		zap.Int("year", snap.Year),
		zap.Int("records", len(snap.Records)))
	return nil
}
