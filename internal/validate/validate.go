// Package validate decides whether a Jupiter API response honours the
// contracts of the request that produced it.
//
// Every check is a method on *Validator that inspects an already fetched
// *httpclient.Response and returns nil or a *Violation. Checks never perform
// I/O and never mutate their inputs, so repeating a call repeats the outcome.
// Composite checks run their parts in a fixed order and return the first
// violation.
package validate

import (
	"io"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/config"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/sirupsen/logrus"
)

// Config carries every identifier and tolerance the checks rely on.
type Config struct {
	ComputeBudgetProgram string
	JupiterProgram       string
	TokenProgram         string
	SystemProgram        string

	StablecoinRatioMin          float64
	StablecoinRatioMax          float64
	MaxStablecoinPriceImpactPct float64

	// PriorityFeeMargin is how far below the requested fee the service may go.
	PriorityFeeMargin   uint64
	MaxComputeUnitLimit uint64
	// SlippageTolerance is the allowed distance between the reported and
	// recomputed otherAmountThreshold.
	SlippageTolerance int64
}

// DefaultConfig returns the live program IDs and tolerances.
func DefaultConfig() Config {
	return Config{
		ComputeBudgetProgram:        constants.ComputeBudgetProgram,
		JupiterProgram:              constants.JupiterProgram,
		TokenProgram:                constants.TokenProgram,
		SystemProgram:               constants.SystemProgram,
		StablecoinRatioMin:          constants.StablecoinRatioMin,
		StablecoinRatioMax:          constants.StablecoinRatioMax,
		MaxStablecoinPriceImpactPct: constants.MaxStablecoinPriceImpactPct,
		PriorityFeeMargin:           constants.PriorityFeeMargin,
		MaxComputeUnitLimit:         constants.MaxComputeUnitLimit,
		SlippageTolerance:           constants.SlippageThresholdTolerance,
	}
}

// ConfigFrom applies the tolerance overrides of an environment config.
func ConfigFrom(c *config.Config) Config {
	out := DefaultConfig()
	out.StablecoinRatioMin = c.StablecoinRatioMin
	out.StablecoinRatioMax = c.StablecoinRatioMax
	out.MaxStablecoinPriceImpactPct = c.MaxStablecoinPriceImpactPct
	out.PriorityFeeMargin = uint64(c.PriorityFeeMargin)
	out.MaxComputeUnitLimit = uint64(c.MaxComputeUnitLimit)
	return out
}

// Validator runs the checks against one Config.
type Validator struct {
	cfg    Config
	logger *logrus.Logger
}

// New returns a validator. A nil logger discards debug output.
func New(cfg Config, logger *logrus.Logger) *Validator {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Validator{cfg: cfg, logger: logger}
}

// Config returns a copy of the validator's configuration.
func (v *Validator) Config() Config {
	return v.cfg
}
