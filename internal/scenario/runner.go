package scenario

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/results"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/validate"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one scenario.
type Result struct {
	Scenario string        `json:"scenario" yaml:"scenario"`
	Group    string        `json:"group" yaml:"group"`
	Passed   bool          `json:"passed" yaml:"passed"`
	Check    string        `json:"check,omitempty" yaml:"check,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	Err error `json:"-" yaml:"-"`
}

// Report collects the results of one Run in execution order.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Results   []Result      `json:"results" yaml:"results"`
}

func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// RunOptions tunes a Run.
type RunOptions struct {
	// Filter is a regular expression matched against scenario IDs.
	Filter string
	// Timeout bounds each scenario. Zero means no bound.
	Timeout time.Duration
	// Sink receives a record per scenario. Sink failures are logged and
	// never fail the run.
	Sink results.Sink
}

// Run executes the selected scenarios one after another. A failing
// scenario never stops the run; a cancelled context does, and Run then
// returns the partial report with the context error.
func (s *Suite) Run(ctx context.Context, scenarios []Scenario, opts RunOptions) (*Report, error) {
	selected, err := Select(scenarios, opts.Filter)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	for _, sc := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, started := s.runOne(ctx, sc, opts.Timeout)
		report.Results = append(report.Results, res)

		if opts.Sink != nil {
			rec := results.Record{
				RunID:     report.RunID,
				Scenario:  res.Scenario,
				Group:     res.Group,
				Passed:    res.Passed,
				Check:     res.Check,
				Error:     res.Error,
				Duration:  res.Duration,
				StartedAt: started,
			}
			if err := opts.Sink.Record(ctx, rec); err != nil {
				s.Logger.WithError(err).WithField("scenario", res.Scenario).Warn("failed to record result")
			}
		}
	}
	return report, nil
}

func (s *Suite) runOne(ctx context.Context, sc Scenario, timeout time.Duration) (Result, time.Time) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now().UTC()
	err := sc.Run(ctx, s)
	res := Result{
		Scenario: sc.ID(),
		Group:    sc.Group,
		Passed:   err == nil,
		Duration: time.Since(started),
		Err:      err,
	}

	fields := logrus.Fields{"scenario": res.Scenario, "duration": res.Duration.Round(time.Millisecond)}
	if err != nil {
		res.Error = err.Error()
		if v, ok := validate.AsViolation(err); ok {
			res.Check = v.Check
		}
		s.Logger.WithFields(fields).WithError(err).Error("scenario failed")
	} else {
		s.Logger.WithFields(fields).Info("scenario passed")
	}
	return res, started
}
