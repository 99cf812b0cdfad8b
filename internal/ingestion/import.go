package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// Store is the write side of the job store.
type Store interface {
	UpsertJob(ctx context.Context, job types.JobPosting) error
}

// RecordError describes a record that was skipped.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  []RecordError
}

// Import normalizes and upserts each record. Invalid records are skipped and
// reported in the result; a store failure aborts the import.
func Import(ctx context.Context, store Store, records []Record, now time.Time) (*Result, error) {
	res := &Result{}
	for i, rec := range records {
		job, err := Normalize(rec, now)
		if err != nil {
			log.Printf("[import] skipping record %d (%s): %v", i, rec.ID, err)
			res.Skipped = append(res.Skipped, RecordError{Index: i, ID: rec.ID, Err: err})
			continue
		}
		if err := store.UpsertJob(ctx, job); err != nil {
			return res, fmt.Errorf("failed to store job %s: %w", job.ID, err)
		}
		res.Imported++
	}
	log.Printf("[import] imported %d job(s), skipped %d", res.Imported, len(res.Skipped))
	return res, nil
}
