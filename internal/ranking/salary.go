package ranking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// salaryTokenPattern matches "120,000", "120k", "95.5K" and similar numeric tokens.
var salaryTokenPattern = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s?([kK]\b)?`)

// ParseSalary extracts every numeric token from a free-text salary and
// returns their average. A trailing "k" multiplies the token by 1000.
// Returns nil when the text carries no number at all.
func ParseSalary(text string) *float64 {
	matches := salaryTokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	sum := 0.0
	count := 0
	for _, m := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			value *= 1000
		}
		sum += value
		count++
	}
	if count == 0 {
		return nil
	}

	avg := sum / float64(count)
	return &avg
}

// jobSalary resolves the salary figure used for band fit: the parsed
// free-text salary first, then the midpoint of the structured bounds.
func jobSalary(job *types.JobPosting) *float64 {
	if v := ParseSalary(job.Salary); v != nil {
		return v
	}

	switch {
	case job.SalaryMin != nil && job.SalaryMax != nil:
		mid := float64(*job.SalaryMin+*job.SalaryMax) / 2
		return &mid
	case job.SalaryMin != nil:
		v := float64(*job.SalaryMin)
		return &v
	case job.SalaryMax != nil:
		v := float64(*job.SalaryMax)
		return &v
	}
	return nil
}
