package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/results"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/scenario"
	"github.com/spf13/cobra"
)

var watchGroup string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream scenario outcomes as recording runs publish them",
	Long: `Subscribes to the Redis result feed and prints every outcome published
by "jupcheck scenarios --record" until interrupted.`,
	Args: cobra.NoArgs,
	RunE: watch,
}

func watch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set")
	}
	rclient, err := dialRedis(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rclient.Close() }()

	feed, err := results.NewFeed(rclient, logger)
	if err != nil {
		return err
	}

	channel := constants.ChannelRunsAll
	if watchGroup != "" {
		channel = results.GroupChannel(watchGroup)
	}

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	return feed.Subscribe(ctx, channel, func(r results.Record) {
		if format == scenario.FormatJSON {
			_ = enc.Encode(r)
			return
		}
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s %s %s %s", r.StartedAt.Local().Format("15:04:05"), status, r.Scenario, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s", r.Error)
		}
		fmt.Fprintln(w)
	})
}

func init() {
	watchCmd.Flags().StringVar(&watchGroup, "group", "", "Only show one scenario group, e.g. quote")
}
