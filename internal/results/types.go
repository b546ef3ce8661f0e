// Package results records scenario outcomes: the latest outcome of every
// scenario in Redis and the full run history in ClickHouse.
package results

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("result not found")

// Record is the outcome of one scenario execution.
type Record struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Scenario  string        `json:"scenario" yaml:"scenario"`
	Group     string        `json:"group" yaml:"group"`
	Passed    bool          `json:"passed" yaml:"passed"`
	Check     string        `json:"check,omitempty" yaml:"check,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
}

// Sink receives records as scenarios finish.
type Sink interface {
	Record(ctx context.Context, r Record) error
}

// Multi fans a record out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Record(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
