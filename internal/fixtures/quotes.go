// Package fixtures holds request payloads for the scenario catalogue.
// Every function returns a fresh value; callers may mutate what they get.
package fixtures

import (
	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

func SolToUsdcBasic() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintSOL,
		OutputMint:  constants.MintUSDC,
		Amount:      constants.AmountMedium,
		SlippageBps: constants.SlippageLow,
	}
}

func UsdcToSolReverse() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintUSDC,
		OutputMint:  constants.MintSOL,
		Amount:      constants.AmountUSDCMedium,
		SlippageBps: constants.SlippageLow,
	}
}

func UsdcToUsdtStable() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintUSDC,
		OutputMint:  constants.MintUSDT,
		Amount:      constants.AmountUSDCLarge,
		SlippageBps: constants.SlippageVeryLow,
	}
}

func SlippageCalculation() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintSOL,
		OutputMint:  constants.MintUSDC,
		Amount:      constants.AmountMedium,
		SlippageBps: constants.SlippageMedium,
	}
}

func DirectRoutesOnly() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.OnlyDirectRoutes = jupiter.Bool(true)
	return r
}

func RestrictIntermediateTokens(restrict bool) jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.RestrictIntermediateTokens = jupiter.Bool(restrict)
	return r
}

func MillionSolToUsdc() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintSOL,
		OutputMint:  constants.MintUSDC,
		Amount:      constants.AmountMillionSOL,
		SlippageBps: constants.SlippageVeryHigh,
	}
}

func SolToBonk() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintSOL,
		OutputMint:  constants.MintBONK,
		Amount:      constants.AmountSmall,
		SlippageBps: constants.SlippageHigh,
	}
}

func UsdcToRay() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintUSDC,
		OutputMint:  constants.MintRAY,
		Amount:      constants.AmountUSDCSmall,
		SlippageBps: constants.SlippageMedium,
	}
}

// MissingInputMint is sent as raw params because a QuoteRequest always
// carries inputMint.
func MissingInputMint() map[string]string {
	return map[string]string{
		"outputMint":  constants.MintUSDC,
		"amount":      constants.AmountMedium,
		"slippageBps": "50",
	}
}

func InvalidTokenFormat() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.InputMint = constants.InvalidAddress
	return r
}

func ZeroAmount() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.Amount = constants.AmountZero
	return r
}

func SameInputOutput() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.OutputMint = constants.MintSOL
	return r
}

func NonExistentToken() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.InputMint = constants.NonExistentAddress
	return r
}

func NegativeSlippage() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.SlippageBps = constants.SlippageNegative
	return r
}

func NegativeAmount() jupiter.QuoteRequest {
	r := SolToUsdcBasic()
	r.Amount = constants.AmountNegative
	return r
}

// ValidQuotes returns the happy-path requests keyed by scenario name.
func ValidQuotes() map[string]jupiter.QuoteRequest {
	return map[string]jupiter.QuoteRequest{
		"sol_to_usdc_basic":    SolToUsdcBasic(),
		"usdc_to_sol_reverse":  UsdcToSolReverse(),
		"usdc_to_usdt_stable":  UsdcToUsdtStable(),
		"slippage_calculation": SlippageCalculation(),
		"direct_routes_only":   DirectRoutesOnly(),
		"million_sol_to_usdc":  MillionSolToUsdc(),
		"sol_to_bonk":          SolToBonk(),
		"usdc_to_ray":          UsdcToRay(),
	}
}

// InvalidQuotes returns the negative requests that a QuoteRequest can
// express. MissingInputMint is separate.
func InvalidQuotes() map[string]jupiter.QuoteRequest {
	return map[string]jupiter.QuoteRequest{
		"invalid_token_format": InvalidTokenFormat(),
		"zero_amount":          ZeroAmount(),
		"same_input_output":    SameInputOutput(),
		"non_existent_token":   NonExistentToken(),
		"negative_slippage":    NegativeSlippage(),
	}
}
