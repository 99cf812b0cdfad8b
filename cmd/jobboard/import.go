package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/cache"
	"github.com/jonathan/web3-jobboard/internal/ingestion"
	"github.com/jonathan/web3-jobboard/internal/observability"
)

func newImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import job postings from a JSON export file",
		Long:  "Validates the file against the import schema, normalizes every record and upserts it by id. Invalid records are skipped and listed; a database failure aborts the import.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := ingestion.LoadFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, database, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer database.Close()

			res, err := ingestion.Import(ctx, database, records, time.Now())
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintImportResult(res)

			// New postings change the filter options; drop the cached copy.
			if cfg.RedisURL != "" && res.Imported > 0 {
				rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
				if err != nil {
					log.Printf("[import] Skipping filter cache invalidation: %v", err)
					return nil
				}
				defer func() { _ = rdb.Close() }()
				if err := cache.NewFilterCache(database, rdb, cfg.FiltersCacheTTL).Invalidate(ctx); err != nil {
					log.Printf("[import] Failed to invalidate filter cache: %v", err)
				}
			}
			return nil
		},
	}
}
