package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// MemoryStore is an in-process job store over a fixed set of postings.
// It backs the offline CLI commands and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs []types.JobPosting
}

// NewMemoryStore creates a MemoryStore holding a copy of jobs.
func NewMemoryStore(jobs []types.JobPosting) *MemoryStore {
	cp := make([]types.JobPosting, len(jobs))
	copy(cp, jobs)
	return &MemoryStore{jobs: cp}
}

// ListJobs returns the matching jobs in order, windowed by offset and limit.
func (m *MemoryStore) ListJobs(ctx context.Context, filter Expr, order Order, offset, limit int) ([]types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := m.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return Less(order, &matched[i], &matched[j])
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []types.JobPosting{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

// CountJobs returns the number of jobs matching filter.
func (m *MemoryStore) CountJobs(ctx context.Context, filter Expr) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.matching(filter)), nil
}

// GetJob returns the job with id, or nil if absent.
func (m *MemoryStore) GetJob(_ context.Context, id string) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			job := m.jobs[i]
			return &job, nil
		}
	}
	return nil, nil
}

// GetJobsByIDs returns the jobs whose ids are listed, skipping unknown ids.
func (m *MemoryStore) GetJobsByIDs(ctx context.Context, ids []string) ([]types.JobPosting, error) {
	out := make([]types.JobPosting, 0, len(ids))
	for _, id := range ids {
		job, err := m.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if job != nil {
			out = append(out, *job)
		}
	}
	return out, nil
}

// FilterOptions aggregates distinct countries, seniority levels and sources
// plus the observed salary bounds.
func (m *MemoryStore) FilterOptions(_ context.Context) (*types.FilterOptions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	countries := map[string]bool{}
	levels := map[string]bool{}
	sources := map[string]bool{}
	opts := &types.FilterOptions{}

	for _, j := range m.jobs {
		if j.Country != nil && strings.TrimSpace(*j.Country) != "" {
			countries[*j.Country] = true
		}
		if j.SeniorityLevel != nil && strings.TrimSpace(*j.SeniorityLevel) != "" {
			levels[*j.SeniorityLevel] = true
		}
		if j.Source != "" {
			sources[j.Source] = true
		}
		if j.SalaryMin != nil && (opts.SalaryMin == nil || *j.SalaryMin < *opts.SalaryMin) {
			opts.SalaryMin = types.IntPtr(*j.SalaryMin)
		}
		if j.SalaryMax != nil && (opts.SalaryMax == nil || *j.SalaryMax > *opts.SalaryMax) {
			opts.SalaryMax = types.IntPtr(*j.SalaryMax)
		}
	}

	opts.Countries = sortedKeys(countries)
	opts.SeniorityLevels = sortedKeys(levels)
	opts.Sources = sortedKeys(sources)
	return opts, nil
}

// UpsertJob inserts job or replaces the mutable fields of an existing job with the same id.
func (m *MemoryStore) UpsertJob(ctx context.Context, job types.JobPosting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if job.ID == "" {
		return fmt.Errorf("job id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.jobs {
		if m.jobs[i].ID == job.ID {
			job.CreatedAt = m.jobs[i].CreatedAt
			m.jobs[i] = job
			return nil
		}
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *MemoryStore) matching(filter Expr) []types.JobPosting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.JobPosting, 0, len(m.jobs))
	for i := range m.jobs {
		if Match(filter, &m.jobs[i]) {
			out = append(out, m.jobs[i])
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
