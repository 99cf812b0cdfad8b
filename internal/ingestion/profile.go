package ingestion

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/web3-jobboard/internal/schemas"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// ParseProfile validates a profile document against the embedded schema and decodes it.
// Missing lists decode as empty slices.
func ParseProfile(data []byte) (*types.UserProfile, error) {
	if err := schemas.Validate(schemas.UserProfileSchema, data); err != nil {
		return nil, err
	}

	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.SalaryMin != nil && p.SalaryMax != nil && *p.SalaryMin > *p.SalaryMax {
		return nil, fmt.Errorf("validation error: salaryMin exceeds salaryMax")
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.PreferredRoles == nil {
		p.PreferredRoles = []string{}
	}
	if p.PreferredLocations == nil {
		p.PreferredLocations = []string{}
	}
	return &p, nil
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*types.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseProfile(data)
}
