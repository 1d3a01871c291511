package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/model"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

func testServer(t *testing.T, records ...model.RegionYearRecord) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	if len(records) > 0 {
		require.NoError(t, st.SaveSnapshot(context.Background(), records))
	}

	srv := httptest.NewServer(New(st, Options{}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func testRecords() []model.RegionYearRecord {
	return []model.RegionYearRecord{
		{RegionID: "CA-500", State: "CA", Year: 2023, TotalBeds: 1550, TotalHomeless: 10000, ShelteredHomeless: 2500, UnshelteredHomeless: 7500},
		{RegionID: "CA-600", State: "CA", Year: 2023, TotalBeds: 4000, TotalHomeless: 5000, ShelteredHomeless: 3500, UnshelteredHomeless: 1500},
		{RegionID: "OR-501", State: "OR", Year: 2023, TotalBeds: 4500, TotalHomeless: 4000, ShelteredHomeless: 3000, UnshelteredHomeless: 1000},
		{RegionID: "WY-500", State: "WY", Year: 2023, TotalBeds: 200, TotalHomeless: 500, ShelteredHomeless: 400, UnshelteredHomeless: 100},
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	var body map[string]string
	status := get(t, srv, "/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestYears(t *testing.T) {
	srv := testServer(t, testRecords()...)

	var body struct {
		Years []int `json:"years"`
	}
	status := get(t, srv, "/api/years", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int{2023}, body.Years)
}

func TestClassifications(t *testing.T) {
	srv := testServer(t, testRecords()...)

	var snap analysis.ClassifiedSnapshot
	status := get(t, srv, "/api/years/2023/classifications", &snap)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, snap.Records, 4)
	require.NotNil(t, snap.Thresholds)

	byID := make(map[string]model.RegionYearRecord)
	for _, rec := range snap.Records {
		byID[rec.RegionID] = rec
	}
	assert.Equal(t, 8450.0, byID["CA-500"].BedGap)
	assert.Equal(t, model.NeedCritical, byID["CA-500"].NeedLevel)
	assert.Equal(t, model.NeedExcellent, byID["OR-501"].NeedLevel)
}

func TestClassificationsStateFilter(t *testing.T) {
	srv := testServer(t, testRecords()...)

	var snap analysis.ClassifiedSnapshot
	status := get(t, srv, "/api/years/2023/classifications?states=ca", &snap)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, snap.Records, 2, "state filter is case insensitive")
}

func TestClassificationsBadYear(t *testing.T) {
	srv := testServer(t, testRecords()...)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/years/not-a-year/classifications", nil))
}

func TestSummary(t *testing.T) {
	srv := testServer(t, testRecords()...)

	var body struct {
		Summary analysis.Summary       `json:"summary"`
		Delta   *analysis.SummaryDelta `json:"delta"`
	}
	status := get(t, srv, "/api/years/2023/summary", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, body.Summary.Regions)
	assert.Equal(t, 19500.0, body.Summary.TotalHomeless)
	assert.Equal(t, 10250.0, body.Summary.TotalBeds)
	assert.Nil(t, body.Delta, "no prior year stored")
}

func TestSummaryWithPriorYear(t *testing.T) {
	prior := []model.RegionYearRecord{
		{RegionID: "CA-500", State: "CA", Year: 2022, TotalBeds: 8200, TotalHomeless: 13000, ShelteredHomeless: 5000, UnshelteredHomeless: 8000},
	}
	srv := testServer(t, append(testRecords(), prior...)...)

	var body struct {
		Summary analysis.Summary       `json:"summary"`
		Delta   *analysis.SummaryDelta `json:"delta"`
	}
	status := get(t, srv, "/api/years/2023/summary", &body)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Delta)
	assert.Equal(t, 2023, body.Delta.Year)
	assert.InDelta(t, 50.0, body.Delta.HomelessPct, 1e-9, "19500 vs 13000")
	assert.InDelta(t, 25.0, body.Delta.BedsPct, 1e-9, "10250 vs 8200")
	assert.False(t, body.Delta.Interpolated)
}

func TestThresholds(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "thresholds.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.SaveThresholds(context.Background(),
		model.YearThresholds{Year: 2023, Cut20: -2, Cut40: 16, Cut60: 30, Cut80: 40}))

	srv := httptest.NewServer(New(st, Options{}).Handler())
	defer srv.Close()

	var thr model.YearThresholds
	status := get(t, srv, "/api/years/2023/thresholds", &thr)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, [4]float64{-2, 16, 30, 40}, thr.Cuts())

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/years/1999/thresholds", nil))
}

func TestClusters(t *testing.T) {
	srv := testServer(t, testRecords()...)

	var body struct {
		Year   int `json:"year"`
		Result struct {
			Assignments map[string]int `json:"assignments"`
		} `json:"result"`
	}
	status := get(t, srv, "/api/years/2023/clusters", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2023, body.Year)
	assert.Len(t, body.Result.Assignments, 4)
}

func TestClustersUnavailableBelowMinimum(t *testing.T) {
	srv := testServer(t, testRecords()[0], testRecords()[1])

	var body struct {
		Unavailable bool   `json:"unavailable"`
		Reason      string `json:"reason"`
	}
	status := get(t, srv, "/api/years/2023/clusters", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Unavailable)
	assert.Contains(t, body.Reason, "fewer than 3")
}

func TestTrends(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "trends.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.SaveSnapshot(context.Background(), []model.RegionYearRecord{
		{RegionID: "CA-500", Year: 2020, TotalHomeless: 1000},
		{RegionID: "CA-500", Year: 2021, TotalHomeless: 400},
		{RegionID: "CA-500", Year: 2022, TotalHomeless: 1200},
	}))

	srv := httptest.NewServer(New(st, Options{AnomalousYear: 2021}).Handler())
	defer srv.Close()

	var body struct {
		Metric string             `json:"metric"`
		Trend  []model.TrendPoint `json:"trend"`
		Deltas []model.DeltaPoint `json:"deltas"`
	}
	status := get(t, srv, "/api/trends?metric=homeless", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Trend, 3)
	assert.Equal(t, 1100.0, body.Trend[1].Value, "anomalous year replaced by neighbor mean")
	assert.True(t, body.Trend[1].Interpolated)
	require.Len(t, body.Deltas, 2)
	assert.True(t, body.Deltas[0].Interpolated)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/trends?metric=bogus", nil))
}

func TestChanges(t *testing.T) {
	prior := model.RegionYearRecord{
		RegionID: "CA-500", State: "CA", Year: 2022,
		TotalBeds: 1000, TotalHomeless: 9000, UnshelteredHomeless: 7000,
	}
	srv := testServer(t, append(testRecords(), prior)...)

	var body struct {
		From    int                     `json:"from"`
		To      int                     `json:"to"`
		Changes []model.BivariateChange `json:"changes"`
	}
	status := get(t, srv, "/api/years/2023/changes", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2022, body.From)
	assert.Equal(t, 2023, body.To)
	require.Len(t, body.Changes, 1, "only regions present in both years compare")
	assert.Equal(t, "CA-500", body.Changes[0].RegionID)
	assert.InDelta(t, 55.0, body.Changes[0].BedsPct, 1e-9)
}
