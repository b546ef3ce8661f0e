package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/results"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/scenario"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	onlyFailing bool
	since       time.Duration
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the latest recorded outcome of every scenario",
	Long: `Reads the latest outcome per scenario from Redis. With --since and
CLICKHOUSE_ADDR set, adds each scenario's pass rate over that window.`,
	Args: cobra.NoArgs,
	RunE: showResults,
}

type resultRow struct {
	results.Record `yaml:",inline"`
	PassRate       *float64 `json:"pass_rate,omitempty" yaml:"pass_rate,omitempty"`
	Runs           uint64   `json:"runs,omitempty" yaml:"runs,omitempty"`
}

func showResults(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set")
	}
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	list := store.List
	if onlyFailing {
		list = store.Failing
	}
	recs, err := list(ctx)
	if err != nil {
		return err
	}

	rows := make([]resultRow, len(recs))
	for i, r := range recs {
		rows[i] = resultRow{Record: *r}
	}

	if since > 0 && cfg.ClickHouseAddr != "" {
		h, err := results.NewHistory(ctx, historyConfig())
		if err != nil {
			return err
		}
		defer func() { _ = h.Close() }()

		from := time.Now().Add(-since)
		for i := range rows {
			rate, runs, err := h.PassRate(ctx, rows[i].Scenario, from)
			if err != nil {
				return err
			}
			if runs > 0 {
				rows[i].PassRate, rows[i].Runs = &rate, runs
			}
		}
	}
	return writeRows(cmd, rows)
}

func writeRows(cmd *cobra.Command, rows []resultRow) error {
	w := cmd.OutOrStdout()
	switch format {
	case scenario.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case scenario.FormatYAML:
		return yaml.NewEncoder(w).Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTATUS\tDURATION\tAT\tPASS RATE\tCHECK")
	for _, r := range rows {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		rate := "-"
		if r.PassRate != nil {
			rate = fmt.Sprintf("%.0f%% of %d", *r.PassRate*100, r.Runs)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Scenario, status, r.Duration.Round(time.Millisecond),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), rate, r.Check)
	}
	return tw.Flush()
}

func init() {
	resultsCmd.Flags().BoolVar(&onlyFailing, "failing", false, "Only show scenarios whose latest run failed")
	resultsCmd.Flags().DurationVar(&since, "since", 0, "Pass-rate window read from ClickHouse, e.g. 24h")
}
