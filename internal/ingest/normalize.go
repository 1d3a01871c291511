// Package ingest loads yearly region count tables from CSV, XLSX, and
// shapefile sources and normalizes them into model records. All schema
// tolerance lives here: a column missing from a source file becomes a
// zero value before anything downstream sees the record.
package ingest

import "github.com/pit-analytics/shelter-cli/internal/model"

// rawRow is one count row as it appears in a source table. Fields map
// to the canonical column names; absent columns decode to zero.
type rawRow struct {
	RegionID            string  `csv:"coc_number"`
	Name                string  `csv:"coc_name"`
	State               string  `csv:"state"`
	Year                int     `csv:"year"`
	BedsES              float64 `csv:"beds_es"`
	BedsTH              float64 `csv:"beds_th"`
	BedsSH              float64 `csv:"beds_sh"`
	TotalHomeless       float64 `csv:"total_homeless"`
	ShelteredHomeless   float64 `csv:"sheltered_homeless"`
	UnshelteredHomeless float64 `csv:"unsheltered_homeless"`
	Latitude            float64 `csv:"latitude"`
	Longitude           float64 `csv:"longitude"`
}

// normalize converts a raw row into a model record. Total beds is the
// sum of the three facility types. defaultYear fills rows whose source
// file carries the year in its name rather than a column.
func normalize(row rawRow, defaultYear int) model.RegionYearRecord {
	year := row.Year
	if year == 0 {
		year = defaultYear
	}
	return model.RegionYearRecord{
		RegionID:            row.RegionID,
		Name:                row.Name,
		State:               row.State,
		Year:                year,
		BedsES:              row.BedsES,
		BedsTH:              row.BedsTH,
		BedsSH:              row.BedsSH,
		TotalBeds:           row.BedsES + row.BedsTH + row.BedsSH,
		TotalHomeless:       row.TotalHomeless,
		ShelteredHomeless:   row.ShelteredHomeless,
		UnshelteredHomeless: row.UnshelteredHomeless,
		Location:            model.Point{Lat: row.Latitude, Lon: row.Longitude},
	}
}

// AttachRegionInfo copies shapefile-derived locations onto records by
// region id, returning a new slice. Name and state from the shapefile
// fill in only where the count table left them blank; records without a
// shapefile match are passed through unchanged.
func AttachRegionInfo(records []model.RegionYearRecord, regions map[string]RegionInfo) []model.RegionYearRecord {
	out := make([]model.RegionYearRecord, len(records))
	for i, rec := range records {
		if info, ok := regions[rec.RegionID]; ok {
			rec.Location = info.Location
			if rec.Name == "" {
				rec.Name = info.Name
			}
			if rec.State == "" {
				rec.State = info.State
			}
		}
		out[i] = rec
	}
	return out
}
