package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/results"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/scenario"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/validate"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	runFilter       string
	scenarioTimeout time.Duration
	record          bool
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run the scenario catalogue",
	Long: `Runs every scenario whose group/name matches --run, in catalogue order.
Exits non-zero when any scenario fails.`,
	Args: cobra.NoArgs,
	RunE: runScenarios,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenario IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, err := scenario.Select(scenario.Catalogue(), runFilter)
		if err != nil {
			return err
		}
		for _, sc := range selected {
			fmt.Fprintln(cmd.OutOrStdout(), sc.ID())
		}
		return nil
	},
}

func runScenarios(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var sink results.Sink
	if record {
		s, closeSinks, err := openSinks(ctx)
		if err != nil {
			return err
		}
		defer closeSinks()
		sink = s
	}

	suite := scenario.NewSuite(pages(), validate.New(validate.ConfigFrom(cfg), logger), logger)
	report, err := suite.Run(ctx, scenario.Catalogue(), scenario.RunOptions{
		Filter:  runFilter,
		Timeout: scenarioTimeout,
		Sink:    sink,
	})
	if report != nil {
		if werr := report.Write(cmd.OutOrStdout(), format); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d scenarios failed", len(report.Failed()), len(report.Results))
	}
	return nil
}

// openSinks connects every configured result backend. A backend that is
// configured but unreachable is an error.
func openSinks(ctx context.Context) (results.Sink, func(), error) {
	var (
		sinks   results.Multi
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.RedisAddr != "" {
		rclient, err := dialRedis(ctx)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = rclient.Close() })

		store, err := results.NewStore(rclient)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		feed, err := results.NewFeed(rclient, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, store, feed)
	}

	if cfg.ClickHouseAddr != "" {
		h, err := results.NewHistory(ctx, historyConfig())
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, h)
		closers = append(closers, func() { _ = h.Close() })
	}

	if len(sinks) == 0 {
		logger.Warn("--record given but neither REDIS_ADDR nor CLICKHOUSE_ADDR is set")
	}
	return sinks, closeAll, nil
}

func dialRedis(ctx context.Context) (*redis.Client, error) {
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		_ = rclient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rclient, nil
}

func openStore(ctx context.Context) (*results.Store, func(), error) {
	rclient, err := dialRedis(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := results.NewStore(rclient)
	if err != nil {
		_ = rclient.Close()
		return nil, nil, err
	}
	return store, func() { _ = rclient.Close() }, nil
}

func historyConfig() results.HistoryConfig {
	return results.HistoryConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	}
}

func init() {
	for _, c := range []*cobra.Command{scenariosCmd, listCmd} {
		c.Flags().StringVar(&runFilter, "run", "", "Regular expression selecting scenarios by group/name")
	}
	scenariosCmd.Flags().DurationVar(&scenarioTimeout, "timeout", time.Minute, "Per-scenario timeout")
	scenariosCmd.Flags().BoolVar(&record, "record", false, "Record results to Redis and ClickHouse when configured")
}
