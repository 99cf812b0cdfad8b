//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Interaction kinds recorded in a profile's history
const (
	InteractionSaved   = "saved"
	InteractionApplied = "applied"
)

// UserProfile holds the preferences the recommendation scorer reads.
// It is owned by the account subsystem; this service only reads it and appends history.
type UserProfile struct {
	UserID             uuid.UUID      `json:"userId"`
	Skills             []string       `json:"skills"`
	PreferredRoles     []string       `json:"preferredRoles"`
	PreferredLocations []string       `json:"preferredLocations"`
	SalaryMin          *int           `json:"salaryMin,omitempty"`
	SalaryMax          *int           `json:"salaryMax,omitempty"`
	ExperienceYears    *int           `json:"experienceYears,omitempty"`
	History            []HistoryEntry `json:"history,omitempty"`
}

// HistoryEntry is a saved or applied job in a profile's history.
type HistoryEntry struct {
	JobID     string    `json:"jobId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryJobIDs returns the distinct job ids in the profile history, in history order.
func (p *UserProfile) HistoryJobIDs() []string {
	seen := make(map[string]bool, len(p.History))
	ids := make([]string, 0, len(p.History))
	for _, h := range p.History {
		if h.JobID == "" || seen[h.JobID] {
			continue
		}
		seen[h.JobID] = true
		ids = append(ids, h.JobID)
	}
	return ids
}

// InteractionRequest is the body of POST /jobs/{id}/interactions.
type InteractionRequest struct {
	Type string `json:"type" validate:"required,oneof=saved applied"`
}

// Validate validates the InteractionRequest using the validator.
func (r *InteractionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ScoredResult pairs a job identifier with a recommendation score (0-100)
// and up to four reasons in the order the signals fired.
type ScoredResult struct {
	JobID   string   `json:"jobId"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
