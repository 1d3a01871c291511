package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecords() []model.RegionYearRecord {
	return []model.RegionYearRecord{
		{
			RegionID: "CA-500", Name: "San Jose/Santa Clara City & County", State: "CA", Year: 2023,
			BedsES: 1000, BedsTH: 500, BedsSH: 50, TotalBeds: 1550,
			TotalHomeless: 10000, ShelteredHomeless: 2500, UnshelteredHomeless: 7500,
			Location: model.Point{Lat: 37.3, Lon: -121.9},
			BedGap:   8450, BedGapPct: 84.5, BedUtilizationRate: 161.3,
			NeedLevel: model.NeedCritical,
		},
		{
			RegionID: "OR-501", Name: "Portland/Multnomah County", State: "OR", Year: 2023,
			TotalBeds: 5000, TotalHomeless: 4000, ShelteredHomeless: 3000,
			BedGap: -1000, BedGapPct: -25, BedUtilizationRate: 60,
			NeedLevel: model.NeedExcellent,
		},
	}
}

func TestSQLiteSaveAndGetSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testRecords()))

	got, err := s.GetSnapshot(ctx, 2023, SnapshotFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "CA-500", got[0].RegionID)
	assert.Equal(t, model.NeedCritical, got[0].NeedLevel)
	assert.Equal(t, 84.5, got[0].BedGapPct)
	assert.Equal(t, 37.3, got[0].Location.Lat)
	assert.Equal(t, model.NeedExcellent, got[1].NeedLevel)
}

func TestSQLiteSnapshotUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := testRecords()
	require.NoError(t, s.SaveSnapshot(ctx, records))

	// Re-import with a revised count: same key, updated values.
	records[0].TotalHomeless = 11000
	records[0].NeedLevel = model.NeedHigh
	require.NoError(t, s.SaveSnapshot(ctx, records))

	got, err := s.GetSnapshot(ctx, 2023, SnapshotFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 11000.0, got[0].TotalHomeless)
	assert.Equal(t, model.NeedHigh, got[0].NeedLevel)
}

func TestSQLiteSnapshotFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveSnapshot(ctx, testRecords()))

	got, err := s.GetSnapshot(ctx, 2023, SnapshotFilter{States: []string{"OR"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OR-501", got[0].RegionID)

	got, err = s.GetSnapshot(ctx, 2023, SnapshotFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.GetSnapshot(ctx, 1999, SnapshotFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteListYears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := testRecords()
	require.NoError(t, s.SaveSnapshot(ctx, records))
	for i := range records {
		records[i].Year = 2022
	}
	require.NoError(t, s.SaveSnapshot(ctx, records))

	years, err := s.ListYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, years)
}

func TestSQLiteThresholds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	thr := model.YearThresholds{Year: 2023, Cut20: -2, Cut40: 16, Cut60: 30, Cut80: 40}
	require.NoError(t, s.SaveThresholds(ctx, thr))

	got, err := s.GetThresholds(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, thr, *got)

	// Upsert replaces.
	thr.Cut80 = 45
	require.NoError(t, s.SaveThresholds(ctx, thr))
	got, err = s.GetThresholds(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Cut80)

	_, err = s.GetThresholds(ctx, 2001)
	require.ErrorIs(t, err, ErrNotFound)
}
