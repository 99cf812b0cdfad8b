package ranking

import (
	"sort"
	"time"

	"github.com/jonathan/web3-jobboard/internal/types"
)

// MinRecommendationScore is the default cutoff below which candidates are not recommended.
const MinRecommendationScore = 20

// Recommendation is a candidate job with its score.
type Recommendation struct {
	Job    types.JobPosting
	Result types.ScoredResult
}

// Recommend scores every candidate against the profile, drops those scoring
// below minScore and returns the rest sorted by score descending. Candidates
// with equal scores keep their input order.
func Recommend(jobs []types.JobPosting, profile *types.UserProfile, history []types.JobPosting, now time.Time, minScore int) []Recommendation {
	recs := make([]Recommendation, 0, len(jobs))
	for i := range jobs {
		result := Score(&jobs[i], profile, history, now)
		if result.Score < minScore {
			continue
		}
		recs = append(recs, Recommendation{Job: jobs[i], Result: result})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Result.Score > recs[j].Result.Score
	})

	return recs
}
