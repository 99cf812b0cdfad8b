package search

import (
	"time"

	"github.com/jonathan/web3-jobboard/internal/types"
)

var fixtureNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := fixtureNow.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

// fixtureJobs returns a small board with a mix of remote, tagged and salaried postings.
func fixtureJobs() []types.JobPosting {
	created := fixtureNow.Add(-time.Hour)
	return []types.JobPosting{
		{ID: "j1", Title: "Senior Solidity Engineer", Company: "Uniswap Labs", Remote: true, Tags: "solidity,defi,evm",
			URL: "https://example.com/1", Source: "sample", SalaryMin: types.IntPtr(150000), SalaryMax: types.IntPtr(200000),
			Country: types.StringPtr("US"), SeniorityLevel: types.StringPtr("Senior"), PostedAt: daysAgo(1), CreatedAt: created},
		{ID: "j2", Title: "Smart Contract Auditor", Company: "Trail Sec", Remote: true, Tags: "Solidity, security",
			URL: "https://example.com/2", Source: "manual", SalaryMin: types.IntPtr(90000), SalaryMax: types.IntPtr(120000),
			Country: types.StringPtr("DE"), PostedAt: daysAgo(3), CreatedAt: created},
		{ID: "j3", Title: "Protocol Engineer", Company: "Chain Corp", Remote: false, Tags: "solidity,go",
			URL: "https://example.com/3", Source: "sample", Location: types.StringPtr("Berlin, Germany"),
			Country: types.StringPtr("DE"), PostedAt: daysAgo(2), CreatedAt: created},
		{ID: "j4", Title: "Rust Developer", Company: "Solana Foundation", Remote: true, Tags: "rust,solana",
			URL: "https://example.com/4", Source: "sample", SalaryMax: types.IntPtr(80000),
			Description: "Write on-chain programs in Rust.", PostedAt: daysAgo(8), CreatedAt: created},
		{ID: "j5", Title: "Frontend Engineer", Company: "Wallet Inc", Remote: false, Tags: "react,typescript",
			URL: "https://example.com/5", Source: "manual", Location: types.StringPtr("Lisbon"),
			PostedAt: daysAgo(40), CreatedAt: created},
		{ID: "j6", Title: "Blockchain Researcher", Company: "ZK Research", Remote: true, Tags: "zk,cryptography",
			URL: "https://example.com/6", Source: "sample", Description: "Solidity experience is a plus.",
			CreatedAt: created},
	}
}

func ids(jobs []types.JobPosting) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}
