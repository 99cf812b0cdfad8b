// Package ranking scores job postings against a user profile for recommendations.
package ranking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// Signal weights. Each signal is capped at its weight; the total is clamped to [0, 100].
const (
	skillWeight       = 40.0
	roleWeight        = 25.0
	locationWeight    = 15.0
	salaryWeight      = 10.0
	salaryAboveWeight = 5.0
	seniorityWeight   = 5.0
	historyWeight     = 5.0
	recencyWeight     = 5.0
	qualityBonus      = 2.0
	qualityCap        = 6.0
	maxScore          = 100.0
	maxReasons        = 4
	maxListedSkills   = 3
	recencyWindow     = 7 * 24 * time.Hour
)

// notableCompanies and notableSkills are the fixed allow-lists behind the quality bonus.
// Keys are lowercase.
var notableCompanies = map[string]bool{
	"coinbase":            true,
	"consensys":           true,
	"chainlink labs":      true,
	"uniswap labs":        true,
	"ethereum foundation": true,
	"opensea":             true,
	"alchemy":             true,
	"paradigm":            true,
	"polygon labs":        true,
	"offchain labs":       true,
	"optimism foundation": true,
	"solana foundation":   true,
	"circle":              true,
	"kraken":              true,
	"aave":                true,
	"flashbots":           true,
	"starkware":           true,
	"matter labs":         true,
	"protocol labs":       true,
	"a16z crypto":         true,
}

var notableSkills = map[string]bool{
	"solidity":       true,
	"rust":           true,
	"zk":             true,
	"zero-knowledge": true,
	"evm":            true,
	"defi":           true,
	"mev":            true,
	"cryptography":   true,
	"move":           true,
	"cairo":          true,
}

// signal is one scored term. Points of zero mean the signal did not fire.
type signal struct {
	points float64
	reason string
}

// Score computes the recommendation score for a job against a profile and
// the jobs in the profile's history. It never fails: a signal that cannot be
// computed contributes zero.
func Score(job *types.JobPosting, profile *types.UserProfile, history []types.JobPosting, now time.Time) types.ScoredResult {
	signals := []signal{
		skillSignal(job, profile.Skills),
		roleSignal(job, profile.PreferredRoles),
		locationSignal(job, profile.PreferredLocations),
		salarySignal(job, profile),
		senioritySignal(job, profile.ExperienceYears),
		historySignal(job, history),
		recencySignal(job, now),
		qualitySignal(job),
	}

	total := 0.0
	reasons := make([]string, 0, maxReasons)
	for _, s := range signals {
		if s.points <= 0 {
			continue
		}
		total += s.points
		if len(reasons) < maxReasons && s.reason != "" {
			reasons = append(reasons, s.reason)
		}
	}

	total = math.Max(0, math.Min(maxScore, total))

	return types.ScoredResult{
		JobID:   job.ID,
		Score:   int(math.Round(total)),
		Reasons: reasons,
	}
}

// skillSignal awards the fraction of profile skills found in the title or tags.
func skillSignal(job *types.JobPosting, skills []string) signal {
	normalized := normalizeList(skills)
	if len(normalized) == 0 {
		return signal{}
	}

	title := strings.ToLower(job.Title)
	tags := strings.ToLower(job.Tags)
	matched := make([]string, 0, len(normalized))
	for _, skill := range normalized {
		if strings.Contains(title, skill) || strings.Contains(tags, skill) {
			matched = append(matched, skill)
		}
	}
	if len(matched) == 0 {
		return signal{}
	}

	listed := matched
	if len(listed) > maxListedSkills {
		listed = listed[:maxListedSkills]
	}
	return signal{
		points: skillWeight * float64(len(matched)) / float64(len(normalized)),
		reason: fmt.Sprintf("Matches %d of your skills: %s", len(matched), strings.Join(listed, ", ")),
	}
}

// roleSignal fires when the title contains a preferred role or a preferred role contains the title.
func roleSignal(job *types.JobPosting, roles []string) signal {
	title := strings.ToLower(strings.TrimSpace(job.Title))
	if title == "" {
		return signal{}
	}
	for _, role := range roles {
		r := strings.ToLower(strings.TrimSpace(role))
		if r == "" {
			continue
		}
		if strings.Contains(title, r) || strings.Contains(r, title) {
			return signal{points: roleWeight, reason: fmt.Sprintf("Matches your preferred role %q", strings.TrimSpace(role))}
		}
	}
	return signal{}
}

// locationSignal fires for remote postings or a location matching a preferred one.
func locationSignal(job *types.JobPosting, locations []string) signal {
	if job.Remote {
		return signal{points: locationWeight, reason: "Remote position"}
	}
	if job.Location == nil {
		return signal{}
	}
	loc := strings.ToLower(strings.TrimSpace(*job.Location))
	if loc == "" {
		return signal{}
	}
	for _, pref := range locations {
		p := strings.ToLower(strings.TrimSpace(pref))
		if p == "" {
			continue
		}
		if strings.Contains(loc, p) || strings.Contains(p, loc) {
			return signal{points: locationWeight, reason: "Located in " + strings.TrimSpace(*job.Location)}
		}
	}
	return signal{}
}

// salarySignal checks the job salary against the profile band. Above the band scores half.
func salarySignal(job *types.JobPosting, profile *types.UserProfile) signal {
	if profile.SalaryMin == nil && profile.SalaryMax == nil {
		return signal{}
	}
	salary := jobSalary(job)
	if salary == nil {
		return signal{}
	}

	if profile.SalaryMax != nil && *salary > float64(*profile.SalaryMax) {
		return signal{points: salaryAboveWeight, reason: "Salary above your range"}
	}
	if profile.SalaryMin == nil || *salary >= float64(*profile.SalaryMin) {
		return signal{points: salaryWeight, reason: "Salary fits your range"}
	}
	return signal{}
}

func senioritySignal(job *types.JobPosting, years *int) signal {
	if years == nil || job.SeniorityLevel == nil {
		return signal{}
	}
	level := LevelForYears(*years)
	if !seniorityMatches(*job.SeniorityLevel, level) {
		return signal{}
	}
	return signal{points: seniorityWeight, reason: "Matches your " + level + " experience level"}
}

func historySignal(job *types.JobPosting, history []types.JobPosting) signal {
	if !similarToAny(job, history) {
		return signal{}
	}
	return signal{points: historyWeight, reason: "Similar to jobs you saved or applied to"}
}

// recencySignal decays linearly from recencyWeight at posting time to zero after recencyWindow.
func recencySignal(job *types.JobPosting, now time.Time) signal {
	if job.PostedAt == nil {
		return signal{}
	}
	age := now.Sub(*job.PostedAt)
	if age < 0 {
		age = 0
	}
	if age >= recencyWindow {
		return signal{}
	}
	points := recencyWeight * (1 - float64(age)/float64(recencyWindow))
	return signal{points: points, reason: "Posted in the last week"}
}

func qualitySignal(job *types.JobPosting) signal {
	points := 0.0
	var parts []string

	if notableCompanies[strings.ToLower(strings.TrimSpace(job.Company))] {
		points += qualityBonus
		parts = append(parts, "notable company")
	}

	seen := make(map[string]bool)
	var skills []string
	for _, tag := range job.TagList() {
		t := strings.ToLower(tag)
		if seen[t] || !notableSkills[t] {
			continue
		}
		seen[t] = true
		points += qualityBonus
		skills = append(skills, t)
	}
	if len(skills) > 0 {
		parts = append(parts, "in-demand skills ("+strings.Join(skills, ", ")+")")
	}

	if points == 0 {
		return signal{}
	}
	points = math.Min(points, qualityCap)
	reason := strings.Join(parts, ", ")
	return signal{points: points, reason: strings.ToUpper(reason[:1]) + reason[1:]}
}

// normalizeList trims, lowercases and de-duplicates, keeping first-seen order.
func normalizeList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
