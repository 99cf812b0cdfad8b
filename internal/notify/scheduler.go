package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Runner is one scheduled unit of work.
type Runner interface {
	Run(ctx context.Context) (int, error)
}

// Scheduler wraps robfig/cron and triggers the digest on its spec.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
}

// NewScheduler creates a Scheduler that fires runner on spec, e.g. "@every 6h" or "0 9 * * *".
func NewScheduler(runner Runner, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		runner: runner,
		spec:   spec,
	}
}

// Start registers the job and starts the scheduler. The first digest is
// sent on the first tick, not at startup.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Println("[scheduler] Digest cycle started")
	n, err := s.runner.Run(ctx)
	if err != nil {
		log.Printf("[scheduler] Digest error: %v", err)
		return
	}
	log.Printf("[scheduler] Digest cycle complete, %d job(s)", n)
}
