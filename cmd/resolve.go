package main

import (
	"fmt"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ticketless-chicago/sweep-cli/internal/catalog"
	"github.com/ticketless-chicago/sweep-cli/internal/db"
	"github.com/ticketless-chicago/sweep-cli/internal/geometry"
	"github.com/ticketless-chicago/sweep-cli/internal/network"
	"github.com/ticketless-chicago/sweep-cli/internal/report"
	"github.com/ticketless-chicago/sweep-cli/internal/resolver"
	"github.com/ticketless-chicago/sweep-cli/internal/store"
	"github.com/ticketless-chicago/sweep-cli/internal/streetname"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rebuild the street geometry table from the network dataset",
	Long: `Loads the raw street-network dataset, resolves every active catalog
address range to a LineString, and replaces the geometry table with the
result. The run is a full rebuild: rerunning it against unchanged inputs
produces the same output.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "resolve"))
		startedAt := time.Now().UTC()

		// Flag overrides.
		if path, _ := cmd.Flags().GetString("network"); path != "" {
			cfg.Network.Path = path
		}
		if format, _ := cmd.Flags().GetString("format"); format != "" {
			cfg.Network.Format = format
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = cfg.Resolve.Concurrency
		}
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		if batchSize <= 0 {
			batchSize = cfg.Resolve.BatchSize
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		reportPath, _ := cmd.Flags().GetString("report")

		// Load and index the network. An empty dataset means a broken
		// extract; refusing beats silently emptying the geometry table.
		segments, err := loadNetwork(cfg.Network)
		if err != nil {
			return eris.Wrap(err, "resolve: load network")
		}
		if len(segments) == 0 {
			return eris.Errorf("resolve: network dataset %s has no usable segments", cfg.Network.Path)
		}
		idx := network.BuildIndex(segments, streetname.DefaultAliases())
		log.Info("network indexed",
			zap.Int("segments", len(segments)),
			zap.Int("keys", idx.Keys()),
		)

		// Catalog.
		connString, err := catalogURL(cfg)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}
		pool, err := db.Connect(ctx, connString)
		if err != nil {
			return eris.Wrap(err, "resolve: connect catalog")
		}
		defer pool.Close()

		records, err := catalog.NewPostgresSource(pool, cfg.Catalog.PageSize).Records(ctx)
		if err != nil {
			return eris.Wrap(err, "resolve: load catalog")
		}
		if len(records) == 0 {
			return eris.New("resolve: catalog has no active records")
		}
		log.Info("catalog loaded", zap.Int("records", len(records)))

		// Resolve concurrently.
		grid := gridFromConfig(cfg.Grid)
		res := resolver.New(idx, catalog.NewPostgresGeocache(pool), grid)
		rep := report.New()

		var mu sync.Mutex
		results := make([]store.GeometryRow, 0, len(records))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, rec := range records {
			rec := rec
			g.Go(func() error {
				outcome, err := res.Resolve(gctx, rec)
				if err != nil {
					if gctx.Err() != nil {
						return err
					}
					log.Warn("resolution error, treating as unresolved",
						zap.String("zone_id", rec.ZoneID),
						zap.String("street_name", rec.StreetName),
						zap.Error(err),
					)
					rep.RecordUnresolved(unresolvedKey(rec))
					return nil
				}
				if !outcome.Resolved() {
					log.Debug("unresolved record",
						zap.String("zone_id", rec.ZoneID),
						zap.String("street_name", rec.StreetName),
						zap.Strings("tried_keys", outcome.TriedKeys),
					)
					rep.RecordUnresolved(unresolvedKey(rec))
					return nil
				}

				r := outcome.Resolution
				geoJSON, err := geometry.EncodeLineString(r.Points)
				if err != nil {
					log.Warn("encode failed, treating as unresolved",
						zap.String("zone_id", rec.ZoneID),
						zap.Error(err),
					)
					rep.RecordUnresolved(unresolvedKey(rec))
					return nil
				}

				row := store.GeometryRow{
					ZoneID:     rec.ZoneID,
					Direction:  rec.Direction,
					StreetName: rec.StreetName,
					StreetType: rec.StreetType,
					AddrLow:    rec.AddrLow,
					AddrHigh:   rec.AddrHigh,
					Parity:     rec.Parity,
					GeoJSON:    geoJSON,
					Source:     r.Source,
					Properties: map[string]any{
						"matched_key": r.MatchedKey,
						"strategy":    string(r.Strategy),
					},
				}
				mu.Lock()
				results = append(results, row)
				mu.Unlock()
				rep.RecordResolved(r.Source)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "resolve: worker pool")
		}

		// Deterministic output order regardless of worker scheduling.
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i], results[j]
			if a.ZoneID != b.ZoneID {
				return a.ZoneID < b.ZoneID
			}
			if a.StreetName != b.StreetName {
				return a.StreetName < b.StreetName
			}
			if a.AddrLow != b.AddrLow {
				return a.AddrLow < b.AddrLow
			}
			return a.Parity < b.Parity
		})

		rep.Log()
		if reportPath != "" {
			if err := rep.WriteXLSX(reportPath, []string{resolver.SourceOSM, resolver.SourceGeocache}); err != nil {
				return eris.Wrap(err, "resolve: write report")
			}
			log.Info("report written", zap.String("path", reportPath))
		}

		if dryRun {
			fmt.Printf("dry run: %d of %d records resolved, nothing persisted\n", len(results), len(records))
			return nil
		}

		// Persist: clear and rebuild.
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "resolve: open store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "resolve: migrate store")
		}
		if err := st.Clear(ctx); err != nil {
			return eris.Wrap(err, "resolve: clear store")
		}
		inserted, err := st.InsertGeometries(ctx, results, batchSize)
		if err != nil {
			return eris.Wrap(err, "resolve: insert geometries")
		}

		run := store.Run{
			ID:         uuid.New().String(),
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Total:      rep.Total(),
			OSM:        rep.SourceCount(resolver.SourceOSM),
			Geocache:   rep.SourceCount(resolver.SourceGeocache),
			Unresolved: rep.UnresolvedCount(),
		}
		if err := st.RecordRun(ctx, run); err != nil {
			return eris.Wrap(err, "resolve: record run")
		}

		fmt.Printf("resolved %d of %d records (%d inserted), run %s\n",
			len(results), len(records), inserted, run.ID)
		return nil
	},
}

func unresolvedKey(rec catalog.RangeRecord) report.UnresolvedKey {
	return report.UnresolvedKey{
		Direction:  rec.Direction,
		StreetName: rec.StreetName,
		StreetType: rec.StreetType,
		ZoneID:     rec.ZoneID,
	}
}

func init() {
	resolveCmd.Flags().String("network", "", "network dataset path (default: from config)")
	resolveCmd.Flags().String("format", "", "network dataset format: geojson or shapefile")
	resolveCmd.Flags().Int("concurrency", 0, "resolution workers (default: from config)")
	resolveCmd.Flags().Int("batch-size", 0, "insert batch size (default: from config)")
	resolveCmd.Flags().Bool("dry-run", false, "resolve and report without writing to the store")
	resolveCmd.Flags().String("report", "", "write an xlsx diagnostic report to this path")
	rootCmd.AddCommand(resolveCmd)
}
