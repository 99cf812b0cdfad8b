package observability

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/web3-jobboard/internal/ingestion"
	"github.com/jonathan/web3-jobboard/internal/ranking"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

func sampleJob(id, title string, remote bool) types.JobPosting {
	job := types.JobPosting{
		ID:       id,
		Title:    title,
		Company:  "Uniswap Labs",
		Remote:   remote,
		Tags:     "solidity, defi",
		URL:      "https://example.com/" + id,
		Source:   types.SourceManual,
		PostedAt: types.TimePtr(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	}
	if !remote {
		job.Location = types.StringPtr("Berlin")
	}
	return job
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations([]ranking.Recommendation{
		{
			Job:    sampleJob("sol-1", "Smart Contract Engineer", true),
			Result: types.ScoredResult{JobID: "sol-1", Score: 85, Reasons: []string{"Matches skills: solidity", "Remote"}},
		},
		{
			Job:    sampleJob("rust-1", "Rust Engineer", false),
			Result: types.ScoredResult{JobID: "rust-1", Score: 40},
		},
	})

	output := buf.String()
	assert.Contains(t, output, "RECOMMENDATIONS")
	assert.Contains(t, output, "Recommended jobs: 2")
	assert.Contains(t, output, "#1  Smart Contract Engineer at Uniswap Labs")
	assert.Contains(t, output, "Score: 85   Remote")
	assert.Contains(t, output, "• Matches skills: solidity")
	assert.Contains(t, output, "#2  Rust Engineer at Uniswap Labs")
	assert.Contains(t, output, "Score: 40   Berlin")
	assert.NotContains(t, output, "more")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecommendations(nil)
	assert.Contains(t, buf.String(), "No jobs scored above the threshold")
}

func TestPrintRecommendations_TruncatesList(t *testing.T) {
	recs := make([]ranking.Recommendation, 0, maxItemsToShow+3)
	for i := 0; i < maxItemsToShow+3; i++ {
		id := fmt.Sprintf("job-%d", i)
		recs = append(recs, ranking.Recommendation{
			Job:    sampleJob(id, "Engineer "+id, true),
			Result: types.ScoredResult{JobID: id, Score: 90 - i},
		})
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecommendations(recs)

	output := buf.String()
	assert.Contains(t, output, "... and 3 more")
	assert.Contains(t, output, fmt.Sprintf("#%d ", maxItemsToShow))
	assert.NotContains(t, output, fmt.Sprintf("#%d ", maxItemsToShow+1))
}

func TestPrintSearchPage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSearchPage(&search.Page{
		Total: 7,
		Page:  2,
		Limit: 1,
		Items: []types.JobPosting{sampleJob("sol-1", "Smart Contract Engineer", true)},
	})

	output := buf.String()
	assert.Contains(t, output, "SEARCH RESULTS")
	assert.Contains(t, output, "Total: 7   Page: 2   Limit: 1")
	assert.Contains(t, output, "sol-1  Smart Contract Engineer at Uniswap Labs")
	assert.Contains(t, output, "posted 2026-03-10")
	assert.Contains(t, output, "Tags: solidity, defi")
}

func TestPrintSearchPage_EmptyAndNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSearchPage(nil)
	assert.Empty(t, buf.String())

	p.PrintSearchPage(&search.Page{Total: 0, Page: 1, Limit: 20, Items: []types.JobPosting{}})
	assert.Contains(t, buf.String(), "No jobs on this page")
}

func TestPrintImportResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportResult(nil)
	assert.Empty(t, buf.String())

	p.PrintImportResult(&ingestion.Result{
		Imported: 3,
		Skipped: []ingestion.RecordError{
			{Index: 1, ID: "bad-1", Err: errors.New("validation error: url - must be a valid URL")},
			{Index: 4, Err: errors.New("validation error: id - is required")},
		},
	})

	output := buf.String()
	assert.Contains(t, output, "Imported: 3")
	assert.Contains(t, output, "Skipped:  2")
	assert.Contains(t, output, "#1 bad-1: validation error: url")
	assert.Contains(t, output, "#4 (no id): validation error: id")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", boxWidth*2))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}
