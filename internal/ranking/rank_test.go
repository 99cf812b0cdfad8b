package ranking

import (
	"testing"

	"github.com/jonathan/web3-jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_FiltersAndSorts(t *testing.T) {
	profile := &types.UserProfile{
		Skills:         []string{"solidity"},
		PreferredRoles: []string{"Auditor"},
	}
	jobs := []types.JobPosting{
		// only remote: 15
		{ID: "low", Title: "Designer", Company: "Acme", Remote: true},
		// skill 40
		{ID: "mid", Title: "Solidity Engineer", Company: "Acme"},
		// skill 40 + role 25 + remote 15
		{ID: "high", Title: "Solidity Auditor", Company: "Acme", Remote: true},
		// nothing
		{ID: "none", Title: "Accountant", Company: "Acme"},
	}

	recs := Recommend(jobs, profile, nil, testNow, MinRecommendationScore)

	require.Len(t, recs, 2)
	assert.Equal(t, "high", recs[0].Job.ID)
	assert.Equal(t, 80, recs[0].Result.Score)
	assert.Equal(t, "mid", recs[1].Job.ID)
	assert.Equal(t, 40, recs[1].Result.Score)
}

func TestRecommend_TiesKeepInputOrder(t *testing.T) {
	profile := &types.UserProfile{Skills: []string{"rust"}}
	jobs := []types.JobPosting{
		{ID: "b", Title: "Rust Engineer", Company: "Acme"},
		{ID: "a", Title: "Rust Engineer", Company: "Acme"},
		{ID: "c", Title: "Rust Engineer", Company: "Acme"},
	}

	recs := Recommend(jobs, profile, nil, testNow, MinRecommendationScore)

	require.Len(t, recs, 3)
	assert.Equal(t, "b", recs[0].Job.ID)
	assert.Equal(t, "a", recs[1].Job.ID)
	assert.Equal(t, "c", recs[2].Job.ID)
}

func TestRecommend_ZeroThresholdKeepsEverything(t *testing.T) {
	jobs := []types.JobPosting{{ID: "x", Title: "Accountant"}, {ID: "y", Title: "Clerk"}}

	recs := Recommend(jobs, &types.UserProfile{}, nil, testNow, 0)

	assert.Len(t, recs, 2)
}

func TestRecommend_NoCandidates(t *testing.T) {
	recs := Recommend(nil, strongProfile(), nil, testNow, MinRecommendationScore)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
