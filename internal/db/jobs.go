package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, title, company, location, country, remote, tags, url, source,
	description, salary, salary_min, salary_max, currency, employment_type,
	seniority_level, posted_at, created_at`

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var j types.JobPosting
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Country, &j.Remote,
		&j.Tags, &j.URL, &j.Source, &j.Description, &j.Salary, &j.SalaryMin,
		&j.SalaryMax, &j.Currency, &j.EmploymentType, &j.SeniorityLevel,
		&j.PostedAt, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]types.JobPosting, error) {
	defer rows.Close()

	jobs := []types.JobPosting{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job postings: %w", err)
	}
	return jobs, nil
}

// ListJobs returns one window of job postings matching filter in the given order.
// A non-positive limit returns every match.
func (db *DB) ListJobs(ctx context.Context, filter search.Expr, order search.Order, offset, limit int) ([]types.JobPosting, error) {
	where, args, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM job_postings WHERE %s %s", jobColumns, where, orderClause(order))
	argNum := len(args) + 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, limit)
		argNum++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, offset)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return collectJobs(rows)
}

// CountJobs returns the number of job postings matching filter.
func (db *DB) CountJobs(ctx context.Context, filter search.Expr) (int, error) {
	where, args, err := compileFilter(filter)
	if err != nil {
		return 0, err
	}

	var count int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM job_postings WHERE "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return count, nil
}

// GetJob retrieves a job posting by id. Returns nil, nil when it does not exist.
func (db *DB) GetJob(ctx context.Context, id string) (*types.JobPosting, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		"SELECT "+jobColumns+" FROM job_postings WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return j, nil
}

// GetJobsByIDs retrieves the job postings with the given ids in the order
// requested. Unknown ids are skipped.
func (db *DB) GetJobsByIDs(ctx context.Context, ids []string) ([]types.JobPosting, error) {
	if len(ids) == 0 {
		return []types.JobPosting{}, nil
	}

	rows, err := db.pool.Query(ctx,
		"SELECT "+jobColumns+" FROM job_postings WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get job postings: %w", err)
	}
	found, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.JobPosting, len(found))
	for _, j := range found {
		byID[j.ID] = j
	}
	jobs := make([]types.JobPosting, 0, len(found))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			jobs = append(jobs, j)
			delete(byID, id)
		}
	}
	return jobs, nil
}

// UpsertJob inserts a job posting or updates the mutable fields of an existing one.
// The id and created_at of an existing posting are never changed.
func (db *DB) UpsertJob(ctx context.Context, job types.JobPosting) error {
	var createdAt *time.Time
	if !job.CreatedAt.IsZero() {
		createdAt = &job.CreatedAt
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_postings (id, title, company, location, country, remote, tags, url,
		                           source, description, salary, salary_min, salary_max, currency,
		                           employment_type, seniority_level, posted_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		         COALESCE($18, NOW()))
		 ON CONFLICT (id) DO UPDATE SET
		     title = EXCLUDED.title,
		     company = EXCLUDED.company,
		     location = EXCLUDED.location,
		     country = EXCLUDED.country,
		     remote = EXCLUDED.remote,
		     tags = EXCLUDED.tags,
		     url = EXCLUDED.url,
		     source = EXCLUDED.source,
		     description = EXCLUDED.description,
		     salary = EXCLUDED.salary,
		     salary_min = EXCLUDED.salary_min,
		     salary_max = EXCLUDED.salary_max,
		     currency = EXCLUDED.currency,
		     employment_type = EXCLUDED.employment_type,
		     seniority_level = EXCLUDED.seniority_level,
		     posted_at = EXCLUDED.posted_at,
		     updated_at = NOW()`,
		job.ID, job.Title, job.Company, job.Location, job.Country, job.Remote, job.Tags,
		job.URL, job.Source, job.Description, job.Salary, job.SalaryMin, job.SalaryMax,
		job.Currency, job.EmploymentType, job.SeniorityLevel, job.PostedAt, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return nil
}

// FilterOptions aggregates the distinct filter values present in the store.
func (db *DB) FilterOptions(ctx context.Context) (*types.FilterOptions, error) {
	var opts types.FilterOptions
	err := db.pool.QueryRow(ctx,
		`SELECT
		     ARRAY(SELECT DISTINCT country FROM job_postings
		           WHERE country IS NOT NULL AND country <> '' ORDER BY country),
		     ARRAY(SELECT DISTINCT seniority_level FROM job_postings
		           WHERE seniority_level IS NOT NULL AND seniority_level <> '' ORDER BY seniority_level),
		     ARRAY(SELECT DISTINCT source FROM job_postings
		           WHERE source <> '' ORDER BY source),
		     (SELECT MIN(salary_min) FROM job_postings),
		     (SELECT MAX(salary_max) FROM job_postings)`,
	).Scan(&opts.Countries, &opts.SeniorityLevels, &opts.Sources, &opts.SalaryMin, &opts.SalaryMax)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate filter options: %w", err)
	}
	return &opts, nil
}
