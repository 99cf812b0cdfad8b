package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// -----------------------------------------------------------------------------
// User Profile Methods
// -----------------------------------------------------------------------------

// GetUserProfile retrieves a profile with its saved/applied history, newest first.
// Returns nil, nil when the user has no profile.
func (db *DB) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	p := types.UserProfile{UserID: userID}
	err := db.pool.QueryRow(ctx,
		`SELECT skills, preferred_roles, preferred_locations, salary_min, salary_max, experience_years
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.Skills, &p.PreferredRoles, &p.PreferredLocations, &p.SalaryMin, &p.SalaryMax, &p.ExperienceYears)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT job_id, type, created_at FROM job_interactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, job_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile history: %w", err)
	}
	defer rows.Close()

	p.History = []types.HistoryEntry{}
	for rows.Next() {
		var h types.HistoryEntry
		if err := rows.Scan(&h.JobID, &h.Type, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		p.History = append(p.History, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile history: %w", err)
	}

	return &p, nil
}

// UpsertUserProfile creates or replaces the preference fields of a profile.
// History is left untouched.
func (db *DB) UpsertUserProfile(ctx context.Context, p *types.UserProfile) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, skills, preferred_roles, preferred_locations,
		                            salary_min, salary_max, experience_years)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     skills = EXCLUDED.skills,
		     preferred_roles = EXCLUDED.preferred_roles,
		     preferred_locations = EXCLUDED.preferred_locations,
		     salary_min = EXCLUDED.salary_min,
		     salary_max = EXCLUDED.salary_max,
		     experience_years = EXCLUDED.experience_years,
		     updated_at = NOW()`,
		p.UserID, nonNil(p.Skills), nonNil(p.PreferredRoles), nonNil(p.PreferredLocations),
		p.SalaryMin, p.SalaryMax, p.ExperienceYears,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

// RecordInteraction appends a saved/applied entry to the user's history,
// creating an empty profile first if needed. Repeating an interaction
// refreshes its timestamp.
func (db *DB) RecordInteraction(ctx context.Context, userID uuid.UUID, jobID, kind string) error {
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			userID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO job_interactions (user_id, job_id, type)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, job_id, type) DO UPDATE SET created_at = NOW()`,
			userID, jobID, kind,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
