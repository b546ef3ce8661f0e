package scenario

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/sirupsen/logrus"
)

const deserializeFailed = "Failed to deserialize the JSON body into the target type: "

func SwapScenarios() []Scenario {
	return []Scenario{
		{GroupSwap, "basic_transaction", basicSwap},
		{GroupSwap, "priority_fees", priorityFees},
		{GroupSwap, "dynamic_compute_limit", dynamicComputeLimit},
		{GroupSwap, "missing_quote_response", missingQuoteResponse},
		{GroupSwap, "token_pairs", tokenPairs},
		{GroupSwap, "empty_user_public_key", invalidUserKey("", "userPublicKey: Parse error: WrongSize")},
		{GroupSwap, "malformed_user_public_key", invalidUserKey("9WzDXwBbmkg8ZTbN", "userPublicKey: Parse error: WrongSize")},
		{GroupSwap, "invalid_base58_user_public_key", invalidUserKey(constants.BadBase58Address, "userPublicKey: Parse error: Invalid")},
		{GroupSwap, "negative_quote_amount", negativeQuoteAmount},
		{GroupSwap, "same_input_output_quote", circularQuote},
		{GroupSwap, "million_sol_dynamic_slippage", millionSolDynamicSlippage},
	}
}

func basicSwap(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	req := fixtures.BasicSwap(q)
	req.UserPublicKey = s.User
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	if err := s.V.SuccessfulSwap(resp); err != nil {
		return err
	}
	return s.V.SwapTransactionDecodes(resp, s.User)
}

// priorityFees fetches a fresh quote for every level.
func priorityFees(ctx context.Context, s *Suite) error {
	for _, level := range fixtures.PriorityLevels() {
		q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
		if err != nil {
			return err
		}
		req := fixtures.PrioritySwap(q, level.Fee)
		req.UserPublicKey = s.User
		resp, err := s.postSwap(ctx, req)
		if err != nil {
			return err
		}
		if err := s.V.PriorityFee(resp, level.Fee); err != nil {
			return fmt.Errorf("%s priority: %w", level.Name, err)
		}

		var out jupiter.SwapResponse
		if err := resp.Decode(&out); err == nil && out.PrioritizationFeeLamports != nil {
			s.Logger.WithFields(logrus.Fields{
				"level":     level.Name,
				"requested": level.Fee,
				"charged":   *out.PrioritizationFeeLamports,
			}).Debug("priority fee")
		}
	}
	return nil
}

func dynamicComputeLimit(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	req := fixtures.DynamicComputeSwap(q)
	req.UserPublicKey = s.User
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	return s.V.DynamicComputeLimit(resp)
}

func missingQuoteResponse(ctx context.Context, s *Suite) error {
	req := fixtures.MissingQuoteSwap()
	req.UserPublicKey = s.User
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	return s.V.UnprocessableEntity(resp, []string{deserializeFailed + "missing field `quoteResponse`"})
}

// tokenPairs covers SOL in, SOL out and token to token, plus SOL in
// without wrapping.
func tokenPairs(ctx context.Context, s *Suite) error {
	pairs := append(fixtures.SwapPairs(), fixtures.SwapPair{
		Name: "sol_to_usdc_no_wrap", Quote: fixtures.SolToUsdcBasic(), WrapSol: false,
	})
	for _, p := range pairs {
		q, err := s.quote(ctx, p.Quote)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		req := fixtures.WrappedSwap(q, p.WrapSol)
		req.UserPublicKey = s.User
		resp, err := s.postSwap(ctx, req)
		if err != nil {
			return err
		}
		if err := s.V.SuccessfulSwap(resp); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return nil
}

func invalidUserKey(key, want string) func(context.Context, *Suite) error {
	return func(ctx context.Context, s *Suite) error {
		q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
		if err != nil {
			return err
		}
		req := fixtures.WrappedSwap(q, true)
		req.UserPublicKey = key
		resp, err := s.postSwap(ctx, req)
		if err != nil {
			return err
		}
		return s.V.UnprocessableEntity(resp, []string{want})
	}
}

func negativeQuoteAmount(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	bad := fixtures.TamperedQuote(q, func(q *jupiter.QuoteResponse) {
		q.InAmount = "-5"
		q.OutAmount = "-5"
	})
	req := fixtures.WrappedSwap(bad, true)
	req.UserPublicKey = s.User
	req.DynamicComputeUnitLimit = jupiter.Bool(true)
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	return s.V.UnprocessableEntity(resp, []string{deserializeFailed + "quoteResponse.inAmount"})
}

func circularQuote(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	bad := fixtures.TamperedQuote(q, func(q *jupiter.QuoteResponse) {
		q.OutputMint = q.InputMint
		first := q.RoutePlan[0]
		first.SwapInfo.OutputMint = q.InputMint
		q.RoutePlan = []jupiter.RoutePlanStep{first}
	})
	req := fixtures.WrappedSwap(bad, true)
	req.UserPublicKey = s.User
	req.DynamicComputeUnitLimit = jupiter.Bool(true)
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	return s.V.SwapError(resp, http.StatusBadRequest,
		[]string{"Input and output mints are not allowed to be equal"}, constants.ErrCodeCircularArbitrage)
}

func millionSolDynamicSlippage(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.MillionSolToUsdc())
	if err != nil {
		return err
	}
	req := fixtures.DynamicSlippageSwap(q, 10_000)
	req.UserPublicKey = s.User
	resp, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	return s.V.DynamicSlippage(resp)
}
