package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/perf"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/results"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/scenario"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	vus      int
	duration time.Duration
	maxP95   time.Duration
	maxFail  float64
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Load the quote endpoint with concurrent virtual users",
	Long: `Sends SOL to USDC quote requests from --vus virtual users for --duration
and fails when p95 latency or the failure rate breaches its threshold.`,
	Args: cobra.NoArgs,
	RunE: runPerf,
}

func runPerf(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if !cmd.Flags().Changed("vus") {
		vus = cfg.PerfVUs
	}
	if !cmd.Flags().Changed("duration") {
		duration = cfg.PerfDuration
	}

	logger.WithFields(logrus.Fields{"vus": vus, "duration": duration, "url": cfg.BaseURL}).Info("load run starting")
	started := time.Now().UTC()
	report, err := perf.Run(ctx, pages().Quote, perf.Config{
		VUs:      vus,
		Duration: duration,
		Request:  fixtures.SolToUsdcBasic(),
	}, logger)
	if err != nil {
		return err
	}

	checkErr := report.Check(perf.Thresholds{MaxP95: maxP95, MaxFailureRate: maxFail})
	if err := writePerf(cmd, report); err != nil {
		return err
	}

	if record {
		sink, closeSinks, err := openSinks(ctx)
		if err != nil {
			return err
		}
		defer closeSinks()
		rec := results.Record{
			RunID:     uuid.NewString(),
			Scenario:  "perf/quote",
			Group:     "perf",
			Passed:    checkErr == nil,
			Duration:  report.Elapsed,
			StartedAt: started,
		}
		if checkErr != nil {
			rec.Error = checkErr.Error()
		}
		if err := sink.Record(ctx, rec); err != nil {
			logger.WithError(err).Warn("failed to record load run")
		}
	}
	return checkErr
}

func writePerf(cmd *cobra.Command, r *perf.Report) error {
	w := cmd.OutOrStdout()
	switch format {
	case scenario.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case scenario.FormatYAML:
		return yaml.NewEncoder(w).Encode(r)
	}
	_, err := fmt.Fprintf(w,
		"requests=%d failures=%d (%.2f%%) rps=%.1f p50=%s p95=%s max=%s\n",
		r.Requests, r.Failures, r.FailureRate*100, r.RPS(),
		r.P50.Round(time.Millisecond), r.P95.Round(time.Millisecond), r.Max.Round(time.Millisecond))
	return err
}

func init() {
	th := perf.DefaultThresholds()
	perfCmd.Flags().IntVar(&vus, "vus", 10, "Concurrent virtual users (default: PERF_VUS)")
	perfCmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "Run length (default: PERF_DURATION)")
	perfCmd.Flags().DurationVar(&maxP95, "max-p95", th.MaxP95, "Fail when p95 latency reaches this")
	perfCmd.Flags().Float64Var(&maxFail, "max-failure-rate", th.MaxFailureRate, "Fail when this fraction of requests fails")
	perfCmd.Flags().BoolVar(&record, "record", false, "Record the run to Redis and ClickHouse when configured")
}
