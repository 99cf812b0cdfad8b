// Package ingestion loads job postings from import files, cleans them and
// upserts them into the job store.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/web3-jobboard/internal/schemas"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// File is the top-level shape of an import file.
type File struct {
	Jobs []Record `json:"jobs"`
}

// Record is one job posting as it appears in an import file.
type Record struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       *string    `json:"location"`
	Country        *string    `json:"country"`
	Remote         bool       `json:"remote"`
	Tags           TagList    `json:"tags"`
	URL            string     `json:"url"`
	Source         string     `json:"source"`
	Description    string     `json:"description"`
	Salary         string     `json:"salary"`
	SalaryMin      *int       `json:"salaryMin"`
	SalaryMax      *int       `json:"salaryMax"`
	Currency       *string    `json:"currency"`
	EmploymentType *string    `json:"employmentType"`
	SeniorityLevel *string    `json:"seniorityLevel"`
	PostedAt       *time.Time `json:"postedAt"`
}

// TagList accepts either a comma-delimited string or an array of strings.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = types.SplitTags(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}
	var out []string
	for _, item := range list {
		out = append(out, types.SplitTags(item)...)
	}
	*t = out
	return nil
}

// Parse validates an import document against the embedded schema and decodes it.
func Parse(data []byte) ([]Record, error) {
	if err := schemas.Validate(schemas.JobImportSchema, data); err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode import file: %w", err)
	}
	return f.Jobs, nil
}

// LoadFile reads and parses an import file.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// NormalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling and the original order.
func NormalizeTags(tags []string) string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}

var validate = validator.New()

// Normalize converts a record into a JobPosting ready to store. The
// description is stripped of HTML, tags are normalized and a postedAt in
// the future is clamped to now. CreatedAt is set to now; stores keep the
// original value when the posting already exists.
func Normalize(rec Record, now time.Time) (types.JobPosting, error) {
	description, err := CleanDescription(rec.Description)
	if err != nil {
		return types.JobPosting{}, err
	}

	job := types.JobPosting{
		ID:             strings.TrimSpace(rec.ID),
		Title:          strings.TrimSpace(rec.Title),
		Company:        strings.TrimSpace(rec.Company),
		Location:       trimmedOrNil(rec.Location),
		Country:        trimmedOrNil(rec.Country),
		Remote:         rec.Remote,
		Tags:           NormalizeTags(rec.Tags),
		URL:            strings.TrimSpace(rec.URL),
		Source:         strings.TrimSpace(rec.Source),
		Description:    description,
		Salary:         strings.TrimSpace(rec.Salary),
		SalaryMin:      rec.SalaryMin,
		SalaryMax:      rec.SalaryMax,
		Currency:       trimmedOrNil(rec.Currency),
		EmploymentType: trimmedOrNil(rec.EmploymentType),
		SeniorityLevel: trimmedOrNil(rec.SeniorityLevel),
		PostedAt:       rec.PostedAt,
		CreatedAt:      now,
	}
	if job.PostedAt != nil && job.PostedAt.After(now) {
		job.PostedAt = types.TimePtr(now)
	}

	if err := validate.Struct(job); err != nil {
		return types.JobPosting{}, describeValidation(err)
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return types.JobPosting{}, fmt.Errorf("validation error: salaryMin exceeds salaryMax")
	}
	return job, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func describeValidation(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Errorf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return fmt.Errorf("validation error: %w", err)
}
