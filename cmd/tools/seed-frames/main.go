// cmd/tools/seed-frames/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cockpit-fit-workers/internal/catalog"
	"cockpit-fit-workers/internal/common/config"
	"cockpit-fit-workers/internal/common/database"
	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/models"
)

var (
	configFile string
	skipIndex  bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "seed-frames <file.csv>",
	Short: "Load a frame geometry CSV into the catalog",
	Long:  `Upserts every frame in the CSV into Postgres, keyed on brand, model and
size label, drops its cached geometry from Redis when Redis is configured,
then indexes it into Elasticsearch for frame search.

Required columns: brand, model, size_label, stack_mm, reach_mm.
Optional columns: seat_tube_angle_deg, head_tube_angle_deg,
head_tube_length_mm, wheelbase_mm.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (defaults to configs/config.yaml)")
	rootCmd.Flags().BoolVar(&skipIndex, "skip-index", false, "only write Postgres")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file and print the frames without writing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	frames, err := parseFrames(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if dryRun {
		for _, frame := range frames {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tstack=%.0f reach=%.0f\n", frame.DisplayName(), frame.StackMm, frame.ReachMm)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewStructured(cfg.Logging.Level, "console")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return err
	}

	repo := catalog.NewRepository(pg.DB)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	var indexer frameIndexer
	if !skipIndex {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		searcher := catalog.NewSearcher(es.Client, cfg.Fit.Catalog.FramesIndex, cfg.Fit.Catalog.SearchMaxSize)
		if err := searcher.EnsureIndex(ctx); err != nil {
			return err
		}
		indexer = searcher
	}

	// Cached geometry would outlive the upsert until its TTL expires.
	var invalidator geometryInvalidator
	if cfg.Database.Redis.Address != "" {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			return err
		}
		invalidator = catalog.NewCache(rdb.Client, cfg.Fit.Catalog.CacheTTLDuration())
	}

	seeded, err := seed(ctx, repo, indexer, invalidator, frames, log)
	log.Info("frames seeded", map[string]interface{}{
		"file":        args[0],
		"frames":      len(frames),
		"written":     seeded,
		"indexed":     indexer != nil,
		"invalidated": invalidator != nil,
	})
	return err
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

type frameWriter interface {
	UpsertFrame(ctx context.Context, f models.Frame) (string, error)
}

type frameIndexer interface {
	IndexFrame(ctx context.Context, frame models.Frame) error
}

type geometryInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// seed writes frames in order and stops at the first failure. indexer and
// invalidator may be nil.
func seed(ctx context.Context, repo frameWriter, indexer frameIndexer, invalidator geometryInvalidator, frames []models.Frame, log logger.Logger) (int, error) {
	for i, frame := range frames {
		id, err := repo.UpsertFrame(ctx, frame)
		if err != nil {
			return i, err
		}
		frame.ID = id

		if invalidator != nil {
			if err := invalidator.Invalidate(ctx, id); err != nil {
				return i, err
			}
		}

		if indexer != nil {
			if err := indexer.IndexFrame(ctx, frame); err != nil {
				return i, err
			}
		}
		log.Debug("frame seeded", map[string]interface{}{
			"frameId": id,
			"frame":   frame.DisplayName(),
		})
	}
	return len(frames), nil
}
