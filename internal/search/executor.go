package search

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// Store is the read side of the job store used by the executor.
type Store interface {
	ListJobs(ctx context.Context, filter Expr, order Order, offset, limit int) ([]types.JobPosting, error)
	CountJobs(ctx context.Context, filter Expr) (int, error)
}

// Page is one page of matching jobs plus the total match count.
// Total and Items come from two independent reads, so Total may drift
// from the records returned when data changes between them.
type Page struct {
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Items []types.JobPosting `json:"items"`
}

// Executor runs queries against a Store.
type Executor struct {
	store Store
}

// NewExecutor creates an Executor over store.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// FetchPage issues the paged fetch and the count concurrently and waits for
// both. If either fails the whole page is discarded.
func (e *Executor) FetchPage(ctx context.Context, q Query) (*Page, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var items []types.JobPosting
	var total int

	g.Go(func() error {
		rows, err := e.store.ListJobs(gCtx, q.Filter, q.Order, q.Offset, q.Limit)
		if err != nil {
			return wrapStoreError("list", err)
		}
		items = rows
		return nil
	})

	g.Go(func() error {
		n, err := e.store.CountJobs(gCtx, q.Filter)
		if err != nil {
			return wrapStoreError("count", err)
		}
		total = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []types.JobPosting{}
	}

	return &Page{
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Items: items,
	}, nil
}

// Candidates fetches up to limit matching jobs in query order without
// counting. Used to build the pool that recommendations are scored from.
func (e *Executor) Candidates(ctx context.Context, filter Expr, order Order, limit int) ([]types.JobPosting, error) {
	rows, err := e.store.ListJobs(ctx, filter, order, 0, limit)
	if err != nil {
		return nil, wrapStoreError("list", err)
	}
	return rows, nil
}

func wrapStoreError(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
