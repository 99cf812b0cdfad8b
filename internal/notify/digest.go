package notify

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// maxMessageRunes is Telegram's limit for a single message body.
const maxMessageRunes = 4096

// Digest posts the newest jobs matching the digest defaults since its previous run.
type Digest struct {
	exec     *search.Executor
	sender   Sender
	defaults search.EndpointDefaults
	topN     int
	now      func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// NewDigest creates a Digest. Jobs added to the board before since are never
// included; a zero since means the first run considers every job.
func NewDigest(exec *search.Executor, sender Sender, defaults search.EndpointDefaults, topN int, since time.Time) *Digest {
	return &Digest{
		exec:     exec,
		sender:   sender,
		defaults: defaults,
		topN:     topN,
		now:      time.Now,
		lastRun:  since,
	}
}

// LastRun returns the cutoff the next run will use.
func (d *Digest) LastRun() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRun
}

// Run posts one digest and returns the number of jobs it contained.
// The cutoff only advances when the message was delivered (or there was nothing to send),
// so a failed send is retried with the same jobs on the next run.
func (d *Digest) Run(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	q := search.Build(url.Values{}, d.defaults, now)
	filter := q.Filter
	if !d.lastRun.IsZero() {
		// New means ingested since the last run; postedAt may predate the
		// import or be missing entirely.
		filter = search.And(filter, search.After(search.FieldCreatedAt, d.lastRun))
	}

	jobs, err := d.exec.Candidates(ctx, filter, search.OrderNewest, d.topN)
	if err != nil {
		return 0, fmt.Errorf("failed to load digest jobs: %w", err)
	}

	if len(jobs) == 0 {
		log.Printf("[digest] No new jobs since %s", formatCutoff(d.lastRun))
		d.lastRun = now
		return 0, nil
	}

	text, included := FormatDigest(jobs, now)
	if err := d.sender.Send(ctx, text); err != nil {
		return 0, err
	}

	log.Printf("[digest] Posted %d job(s)", included)
	d.lastRun = now
	return included, nil
}

func formatCutoff(t time.Time) string {
	if t.IsZero() {
		return "the beginning"
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatDigest renders jobs as one MarkdownV2 message and reports how many
// entries fit under the Telegram size limit.
func FormatDigest(jobs []types.JobPosting, now time.Time) (string, int) {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(fmt.Sprintf("New Web3 jobs (%s)", now.UTC().Format("Jan 2 15:04 MST"))))

	used := len([]rune(b.String()))
	included := 0
	for i, job := range jobs {
		entry := formatEntry(i+1, job)
		n := len([]rune(entry))
		if used+n > maxMessageRunes {
			break
		}
		b.WriteString(entry)
		used += n
		included++
	}
	return b.String(), included
}

func formatEntry(n int, job types.JobPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s *%s* at %s\n", escapeMarkdown(fmt.Sprintf("%d.", n)), escapeMarkdown(job.Title), escapeMarkdown(job.Company))

	var details []string
	if job.Remote {
		details = append(details, "Remote")
	} else if job.Location != nil && *job.Location != "" {
		details = append(details, *job.Location)
	}
	if salary := salaryLabel(job); salary != "" {
		details = append(details, salary)
	}
	if tags := job.TagList(); len(tags) > 0 {
		if len(tags) > 3 {
			tags = tags[:3]
		}
		details = append(details, strings.Join(tags, ", "))
	}
	if len(details) > 0 {
		b.WriteString(escapeMarkdown(strings.Join(details, " | ")))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "[View posting](%s)\n", escapeLinkURL(job.URL))
	return b.String()
}

func salaryLabel(job types.JobPosting) string {
	if job.Salary != "" {
		return job.Salary
	}
	currency := ""
	if job.Currency != nil {
		currency = " " + *job.Currency
	}
	switch {
	case job.SalaryMin != nil && job.SalaryMax != nil:
		return fmt.Sprintf("%d-%d%s", *job.SalaryMin, *job.SalaryMax, currency)
	case job.SalaryMin != nil:
		return fmt.Sprintf("from %d%s", *job.SalaryMin, currency)
	case job.SalaryMax != nil:
		return fmt.Sprintf("up to %d%s", *job.SalaryMax, currency)
	}
	return ""
}
