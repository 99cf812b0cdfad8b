package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/notify"
	"github.com/jonathan/web3-jobboard/internal/search"
)

func newDigestCmd(configPath *string) *cobra.Command {
	var (
		once     bool
		dryRun   bool
		since    time.Duration
		jobsFile string
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Post new job postings to Telegram",
		Long: `Posts the newest postings matching the digest defaults to the configured Telegram chat.
Without --once it keeps running on the configured schedule, each run covering the jobs
added to the board since the previous successful one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, store, cleanup, err := searchStore(ctx, *configPath, jobsFile)
			if err != nil {
				return err
			}
			defer cleanup()

			var sender notify.Sender
			if dryRun {
				sender = &writerSender{out: cmd.OutOrStdout()}
			} else {
				if err := cfg.RequireTelegram(); err != nil {
					return err
				}
				sender, err = notify.NewTelegramSender(cfg.Digest.BotToken, cfg.Digest.ChatID)
				if err != nil {
					return err
				}
			}

			digest := newDigest(cfg, search.NewExecutor(store), sender, time.Now().Add(-since))
			if once {
				n, err := digest.Run(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Digest sent with %d job(s)\n", n)
				return nil
			}

			sched := notify.NewScheduler(digest, cfg.Digest.Schedule)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single digest and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the message instead of posting it")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "How far back the first run looks")
	cmd.Flags().StringVar(&jobsFile, "jobs", "", "Read postings from a JSON export file instead of the database")
	return cmd
}

func newDigest(cfg *config.Config, exec *search.Executor, sender notify.Sender, since time.Time) *notify.Digest {
	return notify.NewDigest(exec, sender, cfg.Endpoints.Digest.SearchDefaults(), cfg.Digest.TopN, since)
}

// newTelegramDigest builds the scheduled digest run by serve. Its first run
// covers jobs added since startup.
func newTelegramDigest(cfg *config.Config, exec *search.Executor, startedAt time.Time) (*notify.Digest, error) {
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}
	sender, err := notify.NewTelegramSender(cfg.Digest.BotToken, cfg.Digest.ChatID)
	if err != nil {
		return nil, err
	}
	return newDigest(cfg, exec, sender, startedAt), nil
}

// writerSender prints digests instead of posting them.
type writerSender struct {
	out io.Writer
}

func (w *writerSender) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(w.out, text)
	return err
}
