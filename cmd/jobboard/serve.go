package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jonathan/web3-jobboard/internal/cache"
	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/notify"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/server"
	"github.com/jonathan/web3-jobboard/internal/server/ratelimit"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		addr       string
		withDigest bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server exposing job search, filters, recommendations and interactions. With --digest, the Telegram digest runs on its schedule in the same process.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath, addr, withDigest)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and ADDR)")
	cmd.Flags().BoolVar(&withDigest, "digest", false, "Also run the scheduled Telegram digest")
	return cmd
}

func runServe(parent context.Context, configPath, addr string, withDigest bool) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, database, err := openDB(ctx, configPath)
	if err != nil {
		return err
	}
	defer database.Close()
	if addr != "" {
		cfg.Addr = addr
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	tokens := server.NewJWTService(jwtCfg)

	checkers := []server.Checker{{Name: "postgres", Check: database.Ping}}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[serve] Redis unavailable, serving filters uncached: %v", err)
		} else {
			defer func() { _ = rdb.Close() }()
			checkers = append(checkers, server.Checker{
				Name:  "redis",
				Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}
	filters := cache.NewFilterCache(database, rdb, cfg.FiltersCacheTTL)

	srv, err := server.New(server.Options{
		Config:    cfg,
		Jobs:      database,
		Profiles:  database,
		Filters:   filters,
		Tokens:    tokens.AsTokenValidator(),
		RateLimit: ratelimit.LoadConfig(),
		Checkers:  checkers,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if withDigest {
		digest, err := newTelegramDigest(cfg, search.NewExecutor(database), time.Now())
		if err != nil {
			return err
		}
		sched := notify.NewScheduler(digest, cfg.Digest.Schedule)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	return srv.Run(ctx)
}
