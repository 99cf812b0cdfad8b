// Package observability provides boxed, human-readable output for the CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/web3-jobboard/internal/ingestion"
	"github.com/jonathan/web3-jobboard/internal/ranking"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if gap := n - len([]rune(s)); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func jobLocation(job *types.JobPosting) string {
	switch {
	case job.Remote:
		return "Remote"
	case job.Location != nil && *job.Location != "":
		return *job.Location
	default:
		return "n/a"
	}
}

// PrintRecommendations outputs the top recommendations with scores and reasons.
func (p *Printer) PrintRecommendations(recs []ranking.Recommendation) {
	if len(recs) == 0 {
		p.printBox("RECOMMENDATIONS", "No jobs scored above the threshold")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommended jobs: %d\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s at %s\n", i+1, rec.Job.Title, rec.Job.Company))
		sb.WriteString(fmt.Sprintf("    Score: %d   %s\n", rec.Result.Score, jobLocation(&rec.Job)))
		for _, reason := range rec.Result.Reasons {
			sb.WriteString(fmt.Sprintf("    • %s\n", reason))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchPage outputs one page of search results.
func (p *Printer) PrintSearchPage(page *search.Page) {
	if page == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %d   Page: %d   Limit: %d\n", page.Total, page.Page, page.Limit))
	if len(page.Items) == 0 {
		sb.WriteString("\nNo jobs on this page")
	}
	for i := range page.Items {
		job := &page.Items[i]
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s  %s at %s\n", job.ID, job.Title, job.Company))
		posted := "unknown"
		if job.PostedAt != nil {
			posted = job.PostedAt.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("    %s   posted %s   [%s]\n", jobLocation(job), posted, job.Source))
		if tags := job.TagList(); len(tags) > 0 {
			sb.WriteString(fmt.Sprintf("    Tags: %s\n", strings.Join(tags, ", ")))
		}
	}

	p.printBox("SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportResult outputs the import summary and every skipped record.
func (p *Printer) PrintImportResult(res *ingestion.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Imported: %d\n", res.Imported))
	sb.WriteString(fmt.Sprintf("Skipped:  %d\n", len(res.Skipped)))
	for _, rec := range res.Skipped {
		id := rec.ID
		if id == "" {
			id = "(no id)"
		}
		sb.WriteString(fmt.Sprintf("  ⚠ #%d %s: %v\n", rec.Index, id, rec.Err))
	}

	p.printBox("IMPORT", strings.TrimSuffix(sb.String(), "\n"))
}
