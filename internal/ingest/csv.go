package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// ReadCSV decodes a yearly count table from r. Columns beyond the
// canonical set are ignored; canonical columns absent from the header
// decode to zero.
func ReadCSV(r io.Reader, defaultYear int) ([]model.RegionYearRecord, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	var records []model.RegionYearRecord
	for {
		var row rawRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "ingest: decode csv row")
		}
		if row.RegionID == "" {
			continue
		}
		records = append(records, normalize(row, defaultYear))
	}
	return records, nil
}

// LoadCSV reads a count table from a file.
func LoadCSV(path string, defaultYear int) ([]model.RegionYearRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	records, err := ReadCSV(f, defaultYear)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: load %s", path)
	}
	zap.L().Info("ingest: csv loaded", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}
