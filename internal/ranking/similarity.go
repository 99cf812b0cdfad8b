package ranking

import (
	"strings"
	"unicode"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// Minimum length of a title token considered for overlap
const minTitleTokenLen = 3

// jaccardThreshold is the tag-set similarity above which a history job counts as similar.
const jaccardThreshold = 0.3

// tagSet lowercases and de-duplicates a job's tags.
func tagSet(job *types.JobPosting) map[string]bool {
	set := make(map[string]bool)
	for _, tag := range job.TagList() {
		set[strings.ToLower(tag)] = true
	}
	return set
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// titleTokens splits a title into lowercase alphanumeric words of at least minTitleTokenLen runes.
func titleTokens(title string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(words))
	for _, w := range words {
		if len([]rune(w)) >= minTitleTokenLen {
			tokens[w] = true
		}
	}
	return tokens
}

// titlesOverlap reports whether two titles share at least half the tokens of the shorter one.
func titlesOverlap(a, b string) bool {
	ta, tb := titleTokens(a), titleTokens(b)
	shorter := len(ta)
	if len(tb) < shorter {
		shorter = len(tb)
	}
	if shorter == 0 {
		return false
	}
	shared := 0
	for k := range ta {
		if tb[k] {
			shared++
		}
	}
	return shared > 0 && shared*2 >= shorter
}

// similarToAny reports whether job resembles any job in history, ignoring itself.
func similarToAny(job *types.JobPosting, history []types.JobPosting) bool {
	tags := tagSet(job)
	for i := range history {
		h := &history[i]
		if h.ID == job.ID {
			continue
		}
		if jaccard(tags, tagSet(h)) > jaccardThreshold || titlesOverlap(job.Title, h.Title) {
			return true
		}
	}
	return false
}
