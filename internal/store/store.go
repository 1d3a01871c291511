// Package store persists ingested region-year records and the
// classification results derived from them. The analysis core itself is
// stateless; everything here is caller-side bookkeeping.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// ErrNotFound is returned when a requested year or region is absent.
var ErrNotFound = eris.New("store: not found")

// SnapshotFilter narrows snapshot queries.
type SnapshotFilter struct {
	States []string `json:"states,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

// Store defines the persistence interface.
type Store interface {
	// Snapshots
	SaveSnapshot(ctx context.Context, records []model.RegionYearRecord) error
	GetSnapshot(ctx context.Context, year int, filter SnapshotFilter) ([]model.RegionYearRecord, error)
	ListYears(ctx context.Context) ([]int, error)

	// Thresholds
	SaveThresholds(ctx context.Context, thr model.YearThresholds) error
	GetThresholds(ctx context.Context, year int) (*model.YearThresholds, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
