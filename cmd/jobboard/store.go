package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/db"
	"github.com/jonathan/web3-jobboard/internal/ingestion"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// jobSource is the job storage the offline and database-backed commands share.
type jobSource interface {
	search.Store
	GetJobsByIDs(ctx context.Context, ids []string) ([]types.JobPosting, error)
}

// openDB loads the configuration and connects to Postgres.
func openDB(ctx context.Context, configPath string) (*config.Config, *db.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

// loadJobsFile imports an export file into an in-memory store, applying the
// same normalization as a database import. Invalid records are skipped.
func loadJobsFile(ctx context.Context, path string, now time.Time) (*search.MemoryStore, error) {
	records, err := ingestion.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs file %s: %w", path, err)
	}
	store := search.NewMemoryStore(nil)
	if _, err := ingestion.Import(ctx, store, records, now); err != nil {
		return nil, err
	}
	return store, nil
}

// searchStore returns the export file store when jobsFile is set, else the database.
func searchStore(ctx context.Context, configPath, jobsFile string) (*config.Config, jobSource, func(), error) {
	if jobsFile != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		store, err := loadJobsFile(ctx, jobsFile, time.Now())
		if err != nil {
			return nil, nil, nil, err
		}
		return cfg, store, func() {}, nil
	}

	cfg, database, err := openDB(ctx, configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, database, database.Close, nil
}
