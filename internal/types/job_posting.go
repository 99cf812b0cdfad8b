// Package types provides the domain types shared by the search, ranking, storage and HTTP layers.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// Source identifiers for how a posting entered the board
const (
	SourceManual = "manual"
	SourceSample = "sample"
)

// JobPosting is a single job listing record.
// ID and CreatedAt are set once at ingestion and never change afterwards.
type JobPosting struct {
	ID             string     `json:"id" validate:"required,max=200"`
	Title          string     `json:"title" validate:"required"`
	Company        string     `json:"company" validate:"required"`
	Location       *string    `json:"location,omitempty"`
	Country        *string    `json:"country,omitempty"`
	Remote         bool       `json:"remote"`
	Tags           string     `json:"tags"`
	URL            string     `json:"url" validate:"required,url"`
	Source         string     `json:"source" validate:"required"`
	Description    string     `json:"description"`
	Salary         string     `json:"salary,omitempty"`
	SalaryMin      *int       `json:"salaryMin,omitempty" validate:"omitempty,gte=0"`
	SalaryMax      *int       `json:"salaryMax,omitempty" validate:"omitempty,gte=0"`
	Currency       *string    `json:"currency,omitempty"`
	EmploymentType *string    `json:"employmentType,omitempty"`
	SeniorityLevel *string    `json:"seniorityLevel,omitempty"`
	PostedAt       *time.Time `json:"postedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// TagList splits the comma-delimited tags field into trimmed, non-empty tokens.
// Duplicates are kept; the field is a set only by convention.
func (j *JobPosting) TagList() []string {
	return SplitTags(j.Tags)
}

// SplitTags splits a comma-delimited tag string into trimmed, non-empty tokens.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FilterOptions lists the distinct values used to populate client-side filter controls.
type FilterOptions struct {
	Countries       []string `json:"countries"`
	SeniorityLevels []string `json:"seniorityLevels"`
	Sources         []string `json:"sources"`
	SalaryMin       *int     `json:"salaryMin"`
	SalaryMax       *int     `json:"salaryMax"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
