package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

func QuoteScenarios() []Scenario {
	return []Scenario{
		{GroupQuote, "sol_to_usdc_basic", successfulQuote(fixtures.SolToUsdcBasic())},
		{GroupQuote, "usdc_to_sol_reverse", successfulQuote(fixtures.UsdcToSolReverse())},
		{GroupQuote, "usdc_to_usdt_stable", stablecoinQuote},
		{GroupQuote, "missing_input_mint", missingInputMint},
		{GroupQuote, "invalid_token_format", rejectedQuote(fixtures.InvalidTokenFormat(),
			[]string{"Query parameter inputMint cannot be parsed"}, "")},
		{GroupQuote, "zero_amount", rejectedQuote(fixtures.ZeroAmount(),
			[]string{"Could not find any route"}, constants.ErrCodeNoRoute)},
		{GroupQuote, "same_input_output", rejectedQuote(fixtures.SameInputOutput(),
			[]string{"Input and output mints are not allowed to be equal"}, constants.ErrCodeCircularArbitrage)},
		{GroupQuote, "negative_slippage", rejectedQuote(fixtures.NegativeSlippage(), []string{"slippageBps"}, "")},
		{GroupQuote, "negative_amount", rejectedQuote(fixtures.NegativeAmount(), []string{"amount"}, "")},
		{GroupQuote, "slippage_calculation", slippageCalculation},
		{GroupQuote, "direct_routes_only", directRoutesOnly},
		{GroupQuote, "intermediate_token_restriction", intermediateTokens},
		{GroupQuote, "non_existent_token", rejectedQuote(fixtures.NonExistentToken(),
			[]string{"Query parameter inputMint cannot be parsed"}, "")},
		{GroupQuote, "million_sol_multi_route", millionSolMultiRoute},
		{GroupQuote, "valid_catalogue", validCatalogue},
		{GroupQuote, "response_schema", responseSchema},
	}
}

func successfulQuote(req jupiter.QuoteRequest) func(context.Context, *Suite) error {
	return func(ctx context.Context, s *Suite) error {
		resp, err := s.getQuote(ctx, req)
		if err != nil {
			return err
		}
		if err := s.V.SuccessfulQuote(resp, req); err != nil {
			return err
		}
		return s.V.RoutePercentages(resp)
	}
}

func rejectedQuote(req jupiter.QuoteRequest, keywords []string, code string) func(context.Context, *Suite) error {
	return func(ctx context.Context, s *Suite) error {
		resp, err := s.getQuote(ctx, req)
		if err != nil {
			return err
		}
		return s.V.BadRequest(resp, keywords, code)
	}
}

func stablecoinQuote(ctx context.Context, s *Suite) error {
	req := fixtures.UsdcToUsdtStable()
	resp, err := s.getQuote(ctx, req)
	if err != nil {
		return err
	}
	if err := s.V.StablecoinSwap(resp, req); err != nil {
		return err
	}
	return s.V.RoutePercentages(resp)
}

func missingInputMint(ctx context.Context, s *Suite) error {
	resp, err := s.Pages.Quote.GetQuoteParams(ctx, fixtures.MissingInputMint())
	if err != nil {
		return fmt.Errorf("get quote: %w", err)
	}
	return s.V.BadRequest(resp, []string{"inputMint"}, "")
}

func slippageCalculation(ctx context.Context, s *Suite) error {
	req := fixtures.SlippageCalculation()
	resp, err := s.getQuote(ctx, req)
	if err != nil {
		return err
	}
	return s.V.SlippageCalculation(resp, req)
}

func directRoutesOnly(ctx context.Context, s *Suite) error {
	req := fixtures.DirectRoutesOnly()
	resp, err := s.getQuote(ctx, req)
	if err != nil {
		return err
	}
	return s.V.DirectRoutesOnly(resp, req)
}

func intermediateTokens(ctx context.Context, s *Suite) error {
	restricted, err := s.getQuote(ctx, fixtures.RestrictIntermediateTokens(true))
	if err != nil {
		return err
	}
	unrestricted, err := s.getQuote(ctx, fixtures.RestrictIntermediateTokens(false))
	if err != nil {
		return err
	}
	return s.V.IntermediateTokenRestriction(restricted, unrestricted, fixtures.SolToUsdcBasic())
}

func millionSolMultiRoute(ctx context.Context, s *Suite) error {
	req := fixtures.MillionSolToUsdc()
	resp, err := s.getQuote(ctx, req)
	if err != nil {
		return err
	}
	return s.V.MultiRoute(resp, req)
}

// validCatalogue walks every happy-path fixture in name order.
func validCatalogue(ctx context.Context, s *Suite) error {
	all := fixtures.ValidQuotes()
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if err := successfulQuote(all[n])(ctx, s); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	return nil
}

func responseSchema(ctx context.Context, s *Suite) error {
	resp, err := s.getQuote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	return s.V.QuoteSchema(resp)
}
