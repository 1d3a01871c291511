package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS region_years (
	id                   TEXT PRIMARY KEY,
	region_id            TEXT NOT NULL,
	name                 TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL DEFAULT '',
	year                 INTEGER NOT NULL,
	beds_es              REAL NOT NULL DEFAULT 0,
	beds_th              REAL NOT NULL DEFAULT 0,
	beds_sh              REAL NOT NULL DEFAULT 0,
	total_beds           REAL NOT NULL DEFAULT 0,
	total_homeless       REAL NOT NULL DEFAULT 0,
	sheltered_homeless   REAL NOT NULL DEFAULT 0,
	unsheltered_homeless REAL NOT NULL DEFAULT 0,
	lat                  REAL NOT NULL DEFAULT 0,
	lon                  REAL NOT NULL DEFAULT 0,
	bed_gap              REAL NOT NULL DEFAULT 0,
	bed_gap_pct          REAL NOT NULL DEFAULT 0,
	bed_utilization_rate REAL NOT NULL DEFAULT 0,
	need_level           TEXT NOT NULL DEFAULT '',
	UNIQUE(region_id, year)
);

CREATE TABLE IF NOT EXISTS year_thresholds (
	year  INTEGER PRIMARY KEY,
	cut20 REAL NOT NULL,
	cut40 REAL NOT NULL,
	cut60 REAL NOT NULL,
	cut80 REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_region_years_year ON region_years(year);
CREATE INDEX IF NOT EXISTS idx_region_years_state ON region_years(state);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, records []model.RegionYearRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO region_years (
			id, region_id, name, state, year,
			beds_es, beds_th, beds_sh, total_beds,
			total_homeless, sheltered_homeless, unsheltered_homeless,
			lat, lon, bed_gap, bed_gap_pct, bed_utilization_rate, need_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, year) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			beds_es = excluded.beds_es,
			beds_th = excluded.beds_th,
			beds_sh = excluded.beds_sh,
			total_beds = excluded.total_beds,
			total_homeless = excluded.total_homeless,
			sheltered_homeless = excluded.sheltered_homeless,
			unsheltered_homeless = excluded.unsheltered_homeless,
			lat = excluded.lat,
			lon = excluded.lon,
			bed_gap = excluded.bed_gap,
			bed_gap_pct = excluded.bed_gap_pct,
			bed_utilization_rate = excluded.bed_utilization_rate,
			need_level = excluded.need_level`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare snapshot insert")
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), rec.RegionID, rec.Name, rec.State, rec.Year,
			rec.BedsES, rec.BedsTH, rec.BedsSH, rec.TotalBeds,
			rec.TotalHomeless, rec.ShelteredHomeless, rec.UnshelteredHomeless,
			rec.Location.Lat, rec.Location.Lon,
			rec.BedGap, rec.BedGapPct, rec.BedUtilizationRate, string(rec.NeedLevel),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert region %s year %d", rec.RegionID, rec.Year)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit snapshot")
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, year int, filter SnapshotFilter) ([]model.RegionYearRecord, error) {
	query := `
		SELECT region_id, name, state, year,
			beds_es, beds_th, beds_sh, total_beds,
			total_homeless, sheltered_homeless, unsheltered_homeless,
			lat, lon, bed_gap, bed_gap_pct, bed_utilization_rate, need_level
		FROM region_years WHERE year = ?`
	args := []any{year}

	if len(filter.States) > 0 {
		query += fmt.Sprintf(" AND state IN (?%s)", strings.Repeat(", ?", len(filter.States)-1))
		for _, st := range filter.States {
			args = append(args, st)
		}
	}
	query += " ORDER BY region_id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query snapshot %d", year)
	}
	defer rows.Close()

	var records []model.RegionYearRecord
	for rows.Next() {
		var rec model.RegionYearRecord
		var level string
		err = rows.Scan(
			&rec.RegionID, &rec.Name, &rec.State, &rec.Year,
			&rec.BedsES, &rec.BedsTH, &rec.BedsSH, &rec.TotalBeds,
			&rec.TotalHomeless, &rec.ShelteredHomeless, &rec.UnshelteredHomeless,
			&rec.Location.Lat, &rec.Location.Lon,
			&rec.BedGap, &rec.BedGapPct, &rec.BedUtilizationRate, &level,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan region year")
		}
		rec.NeedLevel = model.NeedLevel(level)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate snapshot")
}

func (s *SQLiteStore) ListYears(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT year FROM region_years ORDER BY year`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list years")
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan year")
		}
		years = append(years, y)
	}
	return years, eris.Wrap(rows.Err(), "sqlite: iterate years")
}

func (s *SQLiteStore) SaveThresholds(ctx context.Context, thr model.YearThresholds) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO year_thresholds (year, cut20, cut40, cut60, cut80)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			cut20 = excluded.cut20,
			cut40 = excluded.cut40,
			cut60 = excluded.cut60,
			cut80 = excluded.cut80`,
		thr.Year, thr.Cut20, thr.Cut40, thr.Cut60, thr.Cut80,
	)
	return eris.Wrapf(err, "sqlite: save thresholds %d", thr.Year)
}

func (s *SQLiteStore) GetThresholds(ctx context.Context, year int) (*model.YearThresholds, error) {
	var thr model.YearThresholds
	err := s.db.QueryRowContext(ctx,
		`SELECT year, cut20, cut40, cut60, cut80 FROM year_thresholds WHERE year = ?`, year,
	).Scan(&thr.Year, &thr.Cut20, &thr.Cut40, &thr.Cut60, &thr.Cut80)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get thresholds %d", year)
	}
	return &thr, nil
}
