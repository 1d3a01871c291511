package main

import (
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pit-analytics/shelter-cli/internal/ingest"
	"github.com/pit-analytics/shelter-cli/internal/model"
)

var (
	importCSVPaths  []string
	importXLSXPaths []string
	importShapefile string
	importSheet     string
	importYear      int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import count tables into the store",
	Long:  "Loads yearly count tables from CSV and XLSX files, optionally attaching region centroids from a CoC boundary shapefile, and upserts them into the store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if len(importCSVPaths) == 0 && len(importXLSXPaths) == 0 {
			return eris.New("at least one --csv or --xlsx file is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var (
			mu      sync.Mutex
			records []model.RegionYearRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)

		load := func(fn func() ([]model.RegionYearRecord, error)) {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				recs, err := fn()
				if err != nil {
					return err
				}
				mu.Lock()
				records = append(records, recs...)
				mu.Unlock()
				return nil
			})
		}

		for _, path := range importCSVPaths {
			load(func() ([]model.RegionYearRecord, error) {
				return ingest.LoadCSV(path, importYear)
			})
		}
		for _, path := range importXLSXPaths {
			load(func() ([]model.RegionYearRecord, error) {
				return ingest.LoadXLSX(path, importYear, ingest.XLSXOptions{SheetName: importSheet})
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "load count tables")
		}

		if importShapefile != "" {
			regions, err := ingest.LoadRegionInfo(importShapefile)
			if err != nil {
				return err
			}
			records = ingest.AttachRegionInfo(records, regions)
		}

		if err := st.SaveSnapshot(ctx, records); err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("records", len(records)),
			zap.Int("files", len(importCSVPaths)+len(importXLSXPaths)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringSliceVar(&importCSVPaths, "csv", nil, "CSV count table (repeatable)")
	importCmd.Flags().StringSliceVar(&importXLSXPaths, "xlsx", nil, "XLSX count table (repeatable)")
	importCmd.Flags().StringVar(&importShapefile, "shapefile", "", "CoC boundary shapefile for region centroids")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	importCmd.Flags().IntVar(&importYear, "year", 0, "default year for tables without a year column")
	rootCmd.AddCommand(importCmd)
}
