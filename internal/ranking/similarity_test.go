package ranking

import (
	"testing"

	"github.com/jonathan/web3-jobboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	set := func(keys ...string) map[string]bool {
		m := make(map[string]bool)
		for _, k := range keys {
			m[k] = true
		}
		return m
	}

	assert.InDelta(t, 0.0, jaccard(set(), set()), 0.0001)
	assert.InDelta(t, 1.0, jaccard(set("a", "b"), set("b", "a")), 0.0001)
	assert.InDelta(t, 2.0/3.0, jaccard(set("a", "b", "c"), set("a", "b")), 0.0001)
	assert.InDelta(t, 0.0, jaccard(set("a"), set("b")), 0.0001)
}

func TestTitlesOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Senior Solidity Engineer", "Solidity Engineer", true},
		{"Smart Contract Auditor", "Smart Contract Developer", true},
		{"Frontend Engineer", "Rust Developer", false},
		{"Go Dev", "Go Engineer", false},
		{"", "Solidity Engineer", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titlesOverlap(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSimilarToAny(t *testing.T) {
	job := types.JobPosting{ID: "j1", Title: "Protocol Engineer", Tags: "Solidity,EVM,defi"}

	t.Run("tag overlap", func(t *testing.T) {
		history := []types.JobPosting{{ID: "h1", Title: "Designer", Tags: "solidity, evm"}}
		assert.True(t, similarToAny(&job, history))
	})

	t.Run("title overlap", func(t *testing.T) {
		history := []types.JobPosting{{ID: "h1", Title: "Senior Protocol Engineer", Tags: "react"}}
		assert.True(t, similarToAny(&job, history))
	})

	t.Run("ignores the job itself", func(t *testing.T) {
		history := []types.JobPosting{job}
		assert.False(t, similarToAny(&job, history))
	})

	t.Run("unrelated", func(t *testing.T) {
		history := []types.JobPosting{{ID: "h1", Title: "Accountant", Tags: "excel"}}
		assert.False(t, similarToAny(&job, history))
	})
}
