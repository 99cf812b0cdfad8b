package ranking

import "strings"

// Seniority levels inferred from years of experience
const (
	LevelEntry  = "entry"
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

// LevelForYears maps years of experience onto a seniority level.
func LevelForYears(years int) string {
	switch {
	case years < 2:
		return LevelEntry
	case years < 5:
		return LevelJunior
	case years < 8:
		return LevelMid
	default:
		return LevelSenior
	}
}

// seniorityMatches reports whether a job's free-form seniority label names the given level.
// "Mid-Level", "Senior Engineer" and "entry level" all match their levels.
func seniorityMatches(label, level string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	return strings.Contains(label, level)
}
