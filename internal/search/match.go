package search

import (
	"strings"
	"time"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// Match evaluates e against a job in memory with the same semantics as the
// SQL compilation: a missing (nil) field never satisfies a predicate.
func Match(e Expr, job *types.JobPosting) bool {
	switch e.Kind {
	case KindAnd:
		for _, c := range e.Clauses {
			if !Match(c, job) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range e.Clauses {
			if Match(c, job) {
				return true
			}
		}
		return false
	case KindContains:
		v, ok := textField(job, e.Field)
		return ok && strings.Contains(strings.ToLower(v), strings.ToLower(e.Text))
	case KindEquals:
		v, ok := textField(job, e.Field)
		return ok && strings.EqualFold(v, e.Text)
	case KindBool:
		return e.Field == FieldRemote && job.Remote == e.Bool
	case KindAfter:
		t, ok := timeField(job, e.Field)
		return ok && !t.Before(e.Time)
	case KindBefore:
		t, ok := timeField(job, e.Field)
		return ok && !t.After(e.Time)
	case KindAtLeast:
		n, ok := numberField(job, e.Field)
		return ok && n >= e.Number
	case KindAtMost:
		n, ok := numberField(job, e.Field)
		return ok && n <= e.Number
	default:
		return false
	}
}

func textField(job *types.JobPosting, f Field) (string, bool) {
	switch f {
	case FieldTitle:
		return job.Title, true
	case FieldCompany:
		return job.Company, true
	case FieldDescription:
		return job.Description, true
	case FieldTags:
		return job.Tags, true
	case FieldSource:
		return job.Source, true
	case FieldLocation:
		return deref(job.Location)
	case FieldCountry:
		return deref(job.Country)
	case FieldEmploymentType:
		return deref(job.EmploymentType)
	case FieldSeniority:
		return deref(job.SeniorityLevel)
	default:
		return "", false
	}
}

func timeField(job *types.JobPosting, f Field) (time.Time, bool) {
	switch {
	case f == FieldPostedAt && job.PostedAt != nil:
		return *job.PostedAt, true
	case f == FieldCreatedAt:
		return job.CreatedAt, true
	}
	return time.Time{}, false
}

func numberField(job *types.JobPosting, f Field) (float64, bool) {
	var n *int
	switch f {
	case FieldSalaryMin:
		n = job.SalaryMin
	case FieldSalaryMax:
		n = job.SalaryMax
	}
	if n == nil {
		return 0, false
	}
	return float64(*n), true
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Less reports whether a sorts before b under order.
func Less(order Order, a, b *types.JobPosting) bool {
	if order == OrderSalary {
		if c := compareNullableIntDesc(a.SalaryMax, b.SalaryMax); c != 0 {
			return c < 0
		}
	}
	if c := compareNullableTimeDesc(a.PostedAt, b.PostedAt); c != 0 {
		return c < 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.ID < b.ID
}

// compareNullableTimeDesc orders newest first with nulls last.
func compareNullableTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case a.Before(*b):
		return 1
	default:
		return 0
	}
}

// compareNullableIntDesc orders largest first with nulls last.
func compareNullableIntDesc(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}
