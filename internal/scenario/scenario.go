// Package scenario drives the Jupiter page objects with fixture requests
// and asserts every response through the validation engine.
//
// A Scenario is one named case. Scenarios are independent: each fetches
// the quotes it needs, so any subset can run in any order.
package scenario

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/validate"
	"github.com/sirupsen/logrus"
)

// Endpoint groups.
const (
	GroupQuote            = "quote"
	GroupSwap             = "swap"
	GroupSwapInstructions = "swap-instructions"
	GroupPrice            = "price"
	GroupToken            = "token"
)

// Suite is what every scenario runs against.
type Suite struct {
	Pages  *jupiter.Pages
	V      *validate.Validator
	Logger *logrus.Logger

	// User is the public key swaps are built for.
	User string
}

func NewSuite(pages *jupiter.Pages, v *validate.Validator, logger *logrus.Logger) *Suite {
	if logger == nil {
		logger = logrus.New()
	}
	return &Suite{Pages: pages, V: v, Logger: logger, User: constants.UserPublicKey}
}

// Scenario is one named case of the catalogue.
type Scenario struct {
	Group string
	Name  string
	Run   func(ctx context.Context, s *Suite) error
}

// ID is the scenario's unique name, group/name.
func (sc Scenario) ID() string {
	return sc.Group + "/" + sc.Name
}

// Catalogue returns every scenario in execution order.
func Catalogue() []Scenario {
	var all []Scenario
	all = append(all, QuoteScenarios()...)
	all = append(all, SwapScenarios()...)
	all = append(all, InstructionScenarios()...)
	all = append(all, PriceScenarios()...)
	all = append(all, TokenScenarios()...)
	return all
}

// Select keeps the scenarios whose ID matches the regular expression
// filter. An empty filter keeps everything.
func Select(all []Scenario, filter string) ([]Scenario, error) {
	if filter == "" {
		return all, nil
	}
	re, err := regexp.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
	}
	out := make([]Scenario, 0, len(all))
	for _, sc := range all {
		if re.MatchString(sc.ID()) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// quote fetches a quote and requires it to be successful, since the swap
// scenarios cannot go on without one.
func (s *Suite) quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error) {
	resp, err := s.Pages.Quote.GetQuote(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if err := s.V.SuccessfulQuote(resp, req); err != nil {
		return nil, err
	}
	var q jupiter.QuoteResponse
	if err := resp.Decode(&q); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &q, nil
}

func (s *Suite) getQuote(ctx context.Context, req jupiter.QuoteRequest) (*httpclient.Response, error) {
	resp, err := s.Pages.Quote.GetQuote(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return resp, nil
}

func (s *Suite) postSwap(ctx context.Context, req jupiter.SwapRequest) (*httpclient.Response, error) {
	resp, err := s.Pages.Swap.PostSwap(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("post swap: %w", err)
	}
	return resp, nil
}

func (s *Suite) postInstructions(ctx context.Context, req jupiter.SwapInstructionsRequest) (*httpclient.Response, error) {
	resp, err := s.Pages.SwapInstructions.PostSwapInstructions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("post swap-instructions: %w", err)
	}
	return resp, nil
}
