// Package server exposes stored snapshots and the analyses derived from
// them over a read-only JSON API. All computation happens per request;
// only raw counts and cut points live in the store.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/analysis"
	"github.com/pit-analytics/shelter-cli/internal/cluster"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

// Options carries the analysis knobs the handlers need.
type Options struct {
	GrowthCapPct  float64
	AnomalousYear int
	Cluster       cluster.Options
}

// Server serves the read API over a Store.
type Server struct {
	store  store.Store
	opts   Options
	router chi.Router
}

// New builds a Server with its routes mounted.
func New(st store.Store, opts Options) *Server {
	if opts.GrowthCapPct == 0 {
		opts.GrowthCapPct = analysis.DefaultGrowthCapPct
	}
	s := &Server{store: st, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/trends", s.handleTrends)
		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/classifications", s.handleClassifications)
			r.Get("/thresholds", s.handleThresholds)
			r.Get("/summary", s.handleSummary)
			r.Get("/clusters", s.handleClusters)
			r.Get("/changes", s.handleChanges)
		})
	})

	s.router = r
	return s
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.store.ListYears(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (s *Server) handleClassifications(w http.ResponseWriter, r *http.Request) {
	year, filter, ok := snapshotParams(w, r)
	if !ok {
		return
	}

	records, err := s.store.GetSnapshot(r.Context(), year, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.ClassifySnapshot(records))
}

// handleThresholds returns the persisted cut points for a year, written
// by a classify run. 404 when that year was never classified.
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	year, _, ok := snapshotParams(w, r)
	if !ok {
		return
	}

	thr, err := s.store.GetThresholds(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thr)
}

// handleSummary returns a year's aggregates plus, when the preceding
// year is stored, the year-over-year deltas on them.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, filter, ok := snapshotParams(w, r)
	if !ok {
		return
	}

	records, err := s.store.GetSnapshot(r.Context(), year, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	snap := analysis.ClassifySnapshot(records)
	sum := analysis.Summarize(snap.Records)

	resp := map[string]any{"summary": sum}

	prior, err := s.store.GetSnapshot(r.Context(), year-1, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(prior) > 0 {
		priorSum := analysis.Summarize(analysis.DeriveMetrics(prior))
		anomalous := year == s.opts.AnomalousYear || year-1 == s.opts.AnomalousYear
		resp["delta"] = analysis.DeltaSummary(sum, priorSum, anomalous, s.opts.GrowthCapPct)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	year, filter, ok := snapshotParams(w, r)
	if !ok {
		return
	}

	records, err := s.store.GetSnapshot(r.Context(), year, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	snap := analysis.ClassifySnapshot(records)
	result, err := cluster.Validate(cluster.FeaturesFromRecords(snap.Records), s.opts.Cluster)
	if eris.Is(err, cluster.ErrTooFewRegions) {
		writeJSON(w, http.StatusOK, map[string]any{
			"year":        year,
			"unavailable": true,
			"reason":      "fewer than 3 regions",
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"result":   result,
		"profiles": cluster.Profile(result, snap.Records),
	})
}

// handleChanges compares the path year against a prior year (default the
// preceding one) and returns per-region bivariate change classes.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	year, filter, ok := snapshotParams(w, r)
	if !ok {
		return
	}

	from := year - 1
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from year"})
			return
		}
		from = parsed
	}

	prior, err := s.store.GetSnapshot(r.Context(), from, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	current, err := s.store.GetSnapshot(r.Context(), year, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	changes := analysis.BivariateChanges(
		analysis.DeriveMetrics(prior),
		analysis.DeriveMetrics(current),
		s.opts.GrowthCapPct,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"from":    from,
		"to":      year,
		"changes": changes,
	})
}

// handleTrends aggregates one metric over every stored year, with the
// anomalous year replaced by neighbor interpolation, plus the
// year-over-year deltas between consecutive years.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "homeless"
	}
	switch metric {
	case "homeless", "sheltered", "unsheltered", "beds":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown metric"})
		return
	}

	years, err := s.store.ListYears(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	values := make(map[int]float64, len(years))
	for _, year := range years {
		records, err := s.store.GetSnapshot(r.Context(), year, store.SnapshotFilter{})
		if err != nil {
			writeError(w, err)
			return
		}
		var total float64
		for _, rec := range records {
			switch metric {
			case "homeless":
				total += rec.TotalHomeless
			case "sheltered":
				total += rec.ShelteredHomeless
			case "unsheltered":
				total += rec.UnshelteredHomeless
			case "beds":
				total += rec.TotalBeds
			}
		}
		values[year] = total
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metric": metric,
		"trend":  analysis.TrendSeries(values, s.opts.AnomalousYear),
		"deltas": analysis.DeltaSeries(values, s.opts.AnomalousYear, s.opts.GrowthCapPct),
	})
}

func snapshotParams(w http.ResponseWriter, r *http.Request) (int, store.SnapshotFilter, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return 0, store.SnapshotFilter{}, false
	}

	var filter store.SnapshotFilter
	if states := r.URL.Query().Get("states"); states != "" {
		for _, st := range strings.Split(states, ",") {
			if st = strings.TrimSpace(st); st != "" {
				filter.States = append(filter.States, strings.ToUpper(st))
			}
		}
	}
	return year, filter, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	zap.L().Error("server: request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)))
	})
}
