package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/observability"
	"github.com/jonathan/web3-jobboard/internal/search"
)

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		jobsFile string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search [key=value ...]",
		Short: "Search job postings",
		Long: `Runs the same search as GET /jobs. Each argument is one query parameter, for example:

  jobboard search tag=solidity,defi remote=true sort=salary page=2

With --jobs the search runs against an export file instead of the database.`,
		Example: "  jobboard search --jobs jobs.json q=engineer dateRange=week",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, store, cleanup, err := searchStore(ctx, *configPath, jobsFile)
			if err != nil {
				return err
			}
			defer cleanup()

			return runSearch(ctx, cmd.OutOrStdout(), store, params, cfg.Endpoints.Jobs.SearchDefaults(), asJSON)
		},
	}
	cmd.Flags().StringVar(&jobsFile, "jobs", "", "Search a JSON export file instead of the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	return cmd
}

// parseParams turns key=value arguments into query parameters.
func parseParams(args []string) (url.Values, error) {
	params := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid search parameter %q: expected key=value", arg)
		}
		params.Add(key, value)
	}
	return params, nil
}

func runSearch(ctx context.Context, out io.Writer, store search.Store, params url.Values, defaults search.EndpointDefaults, asJSON bool) error {
	q := search.Build(params, defaults, time.Now())
	page, err := search.NewExecutor(store).FetchPage(ctx, q)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	observability.NewPrinter(out).PrintSearchPage(page)
	return nil
}
