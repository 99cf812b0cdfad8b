package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/ingestion"
	"github.com/jonathan/web3-jobboard/internal/observability"
	"github.com/jonathan/web3-jobboard/internal/ranking"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/types"
)

func newRecommendCmd(configPath *string) *cobra.Command {
	var (
		profileFile string
		jobsFile    string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [key=value ...]",
		Short: "Score job postings against a profile",
		Long: `Scores the newest matching jobs against a profile file and prints those above the
minimum score, best first. Arguments narrow the candidates exactly like GET /jobs/recommended.`,
		Example: "  jobboard recommend --profile me.json --jobs jobs.json tag=rust",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}
			profile, err := ingestion.LoadProfile(profileFile)
			if err != nil {
				return fmt.Errorf("failed to load profile %s: %w", profileFile, err)
			}

			ctx := cmd.Context()
			cfg, store, cleanup, err := searchStore(ctx, *configPath, jobsFile)
			if err != nil {
				return err
			}
			defer cleanup()

			recs, err := recommend(ctx, cfg, store, profile, params, time.Now())
			if err != nil {
				return err
			}
			return printRecommendations(cmd.OutOrStdout(), recs, asJSON)
		},
	}
	cmd.Flags().StringVarP(&profileFile, "profile", "p", "", "Path to a profile JSON file (required)")
	cmd.Flags().StringVar(&jobsFile, "jobs", "", "Score a JSON export file instead of the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print recommendations as JSON")

	if err := cmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	return cmd
}

// recommend scores the candidate pool and returns the requested page of results.
func recommend(ctx context.Context, cfg *config.Config, store jobSource, profile *types.UserProfile, params url.Values, now time.Time) ([]ranking.Recommendation, error) {
	q := search.Build(params, cfg.Endpoints.Recommended.SearchDefaults(), now)

	candidates, err := search.NewExecutor(store).Candidates(ctx, q.Filter, q.Order, cfg.Recommend.CandidatePool)
	if err != nil {
		return nil, err
	}

	var history []types.JobPosting
	if ids := profile.HistoryJobIDs(); len(ids) > 0 {
		history, err = store.GetJobsByIDs(ctx, ids)
		if err != nil {
			return nil, &search.StoreError{Op: "get history", Err: err}
		}
	}

	recs := ranking.Recommend(candidates, profile, history, now, cfg.Recommend.MinScore)
	if q.Offset >= len(recs) {
		return []ranking.Recommendation{}, nil
	}
	return recs[q.Offset:min(q.Offset+q.Limit, len(recs))], nil
}

func printRecommendations(out io.Writer, recs []ranking.Recommendation, asJSON bool) error {
	if !asJSON {
		observability.NewPrinter(out).PrintRecommendations(recs)
		return nil
	}

	results := make([]types.ScoredResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, rec.Result)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
