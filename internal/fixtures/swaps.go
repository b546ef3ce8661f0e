package fixtures

import (
	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

// PriorityLevel pairs a label with the fee requested for it.
type PriorityLevel struct {
	Name string
	Fee  uint64
}

func PriorityLevels() []PriorityLevel {
	return []PriorityLevel{
		{Name: "low", Fee: constants.PriorityFeeLow},
		{Name: "medium", Fee: constants.PriorityFeeMedium},
		{Name: "high", Fee: constants.PriorityFeeHigh},
		{Name: "very_high", Fee: constants.PriorityFeeVeryHigh},
	}
}

// SwapPair is a quote to swap with a wrapAndUnwrapSol choice.
type SwapPair struct {
	Name    string
	Quote   jupiter.QuoteRequest
	WrapSol bool
}

func SwapPairs() []SwapPair {
	return []SwapPair{
		{Name: "sol_to_usdc", Quote: SolToUsdcBasic(), WrapSol: true},
		{Name: "usdc_to_sol", Quote: UsdcToSolReverse(), WrapSol: true},
		{Name: "usdc_to_usdt", Quote: UsdcToUsdtStable(), WrapSol: false},
	}
}

// BasicSwap wraps quote in a request signed by the default test wallet.
func BasicSwap(quote *jupiter.QuoteResponse) jupiter.SwapRequest {
	return jupiter.SwapRequest{
		QuoteResponse: quote,
		UserPublicKey: constants.UserPublicKey,
	}
}

func PrioritySwap(quote *jupiter.QuoteResponse, fee uint64) jupiter.SwapRequest {
	r := BasicSwap(quote)
	r.PrioritizationFeeLamports = jupiter.Uint64(fee)
	return r
}

func DynamicComputeSwap(quote *jupiter.QuoteResponse) jupiter.SwapRequest {
	r := BasicSwap(quote)
	r.DynamicComputeUnitLimit = jupiter.Bool(true)
	return r
}

func WrappedSwap(quote *jupiter.QuoteResponse, wrap bool) jupiter.SwapRequest {
	r := BasicSwap(quote)
	r.WrapAndUnwrapSol = jupiter.Bool(wrap)
	return r
}

// DynamicSlippageSwap allows up to maxBps of slippage for extreme amounts.
func DynamicSlippageSwap(quote *jupiter.QuoteResponse, maxBps int) jupiter.SwapRequest {
	r := WrappedSwap(quote, true)
	r.DynamicComputeUnitLimit = jupiter.Bool(true)
	r.DynamicSlippage = &jupiter.DynamicSlippage{MaxBps: maxBps}
	return r
}

// MissingQuoteSwap has no quoteResponse field at all.
func MissingQuoteSwap() jupiter.SwapRequest {
	return jupiter.SwapRequest{UserPublicKey: constants.UserPublicKey}
}

// InvalidUserKeys lists malformed signers with the parse error each provokes.
func InvalidUserKeys() map[string]string {
	return map[string]string{
		"":                         "userPublicKey: Parse error: WrongSize",
		"9WzDXwBbmkg8ZTbN":         "userPublicKey: Parse error: WrongSize",
		constants.BadBase58Address: "userPublicKey: Parse error: Invalid",
	}
}

// TamperedQuote returns a copy of quote with fn applied, leaving the
// original untouched.
func TamperedQuote(quote *jupiter.QuoteResponse, fn func(q *jupiter.QuoteResponse)) *jupiter.QuoteResponse {
	cp := *quote
	cp.RoutePlan = append([]jupiter.RoutePlanStep(nil), quote.RoutePlan...)
	fn(&cp)
	return &cp
}
