package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS region_years (
	id                   TEXT PRIMARY KEY,
	region_id            TEXT NOT NULL,
	name                 TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL DEFAULT '',
	year                 INTEGER NOT NULL,
	beds_es              DOUBLE PRECISION NOT NULL DEFAULT 0,
	beds_th              DOUBLE PRECISION NOT NULL DEFAULT 0,
	beds_sh              DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_beds           DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_homeless       DOUBLE PRECISION NOT NULL DEFAULT 0,
	sheltered_homeless   DOUBLE PRECISION NOT NULL DEFAULT 0,
	unsheltered_homeless DOUBLE PRECISION NOT NULL DEFAULT 0,
	lat                  DOUBLE PRECISION NOT NULL DEFAULT 0,
	lon                  DOUBLE PRECISION NOT NULL DEFAULT 0,
	bed_gap              DOUBLE PRECISION NOT NULL DEFAULT 0,
	bed_gap_pct          DOUBLE PRECISION NOT NULL DEFAULT 0,
	bed_utilization_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	need_level           TEXT NOT NULL DEFAULT '',
	UNIQUE(region_id, year)
);

CREATE TABLE IF NOT EXISTS year_thresholds (
	year  INTEGER PRIMARY KEY,
	cut20 DOUBLE PRECISION NOT NULL,
	cut40 DOUBLE PRECISION NOT NULL,
	cut60 DOUBLE PRECISION NOT NULL,
	cut80 DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_region_years_year ON region_years(year);
CREATE INDEX IF NOT EXISTS idx_region_years_state ON region_years(state);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const upsertRegionYear = `
	INSERT INTO region_years (
		id, region_id, name, state, year,
		beds_es, beds_th, beds_sh, total_beds,
		total_homeless, sheltered_homeless, unsheltered_homeless,
		lat, lon, bed_gap, bed_gap_pct, bed_utilization_rate, need_level
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	ON CONFLICT (region_id, year) DO UPDATE SET
		name = EXCLUDED.name,
		state = EXCLUDED.state,
		beds_es = EXCLUDED.beds_es,
		beds_th = EXCLUDED.beds_th,
		beds_sh = EXCLUDED.beds_sh,
		total_beds = EXCLUDED.total_beds,
		total_homeless = EXCLUDED.total_homeless,
		sheltered_homeless = EXCLUDED.sheltered_homeless,
		unsheltered_homeless = EXCLUDED.unsheltered_homeless,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		bed_gap = EXCLUDED.bed_gap,
		bed_gap_pct = EXCLUDED.bed_gap_pct,
		bed_utilization_rate = EXCLUDED.bed_utilization_rate,
		need_level = EXCLUDED.need_level`

func (s *PostgresStore) SaveSnapshot(ctx context.Context, records []model.RegionYearRecord) error {
	for _, rec := range records {
		_, err := s.pool.Exec(ctx, upsertRegionYear,
			uuid.New().String(), rec.RegionID, rec.Name, rec.State, rec.Year,
			rec.BedsES, rec.BedsTH, rec.BedsSH, rec.TotalBeds,
			rec.TotalHomeless, rec.ShelteredHomeless, rec.UnshelteredHomeless,
			rec.Location.Lat, rec.Location.Lon,
			rec.BedGap, rec.BedGapPct, rec.BedUtilizationRate, string(rec.NeedLevel),
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert region %s year %d", rec.RegionID, rec.Year)
		}
	}
	return nil
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, year int, filter SnapshotFilter) ([]model.RegionYearRecord, error) {
	query := `
		SELECT region_id, name, state, year,
			beds_es, beds_th, beds_sh, total_beds,
			total_homeless, sheltered_homeless, unsheltered_homeless,
			lat, lon, bed_gap, bed_gap_pct, bed_utilization_rate, need_level
		FROM region_years WHERE year = $1`
	args := []any{year}

	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, st := range filter.States {
			args = append(args, st)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" AND state IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY region_id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query snapshot %d", year)
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
			return nil, eris.Wrap(err, "postgres: scan region year")
		}
		rec.NeedLevel = model.NeedLevel(level)
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate snapshot")
}

func (s *PostgresStore) ListYears(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT year FROM region_years ORDER BY year`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list years")
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, eris.Wrap(err, "postgres: scan year")
		}
		years = append(years, y)
	}
	return years, eris.Wrap(rows.Err(), "postgres: iterate years")
}

func (s *PostgresStore) SaveThresholds(ctx context.Context, thr model.YearThresholds) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO year_thresholds (year, cut20, cut40, cut60, cut80)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year) DO UPDATE SET
			cut20 = EXCLUDED.cut20,
			cut40 = EXCLUDED.cut40,
			cut60 = EXCLUDED.cut60,
			cut80 = EXCLUDED.cut80`,
		thr.Year, thr.Cut20, thr.Cut40, thr.Cut60, thr.Cut80,
	)
	return eris.Wrapf(err, "postgres: save thresholds %d", thr.Year)
}

func (s *PostgresStore) GetThresholds(ctx context.Context, year int) (*model.YearThresholds, error) {
	var thr model.YearThresholds
	err := s.pool.QueryRow(ctx,
		`SELECT year, cut20, cut40, cut60, cut80 FROM year_thresholds WHERE year = $1`, year,
	).Scan(&thr.Year, &thr.Cut20, &thr.Cut40, &thr.Cut60, &thr.Cut80)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get thresholds %d", year)
	}
	return &thr, nil
}
