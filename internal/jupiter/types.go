package jupiter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
)

type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     string // raw integer as string (uint64)

	// SlippageBps is signed so negative values can be sent on purpose.
	SlippageBps int
	SwapMode    string // ExactIn | ExactOut

	Dexes        []string
	ExcludeDexes []string

	RestrictIntermediateTokens *bool
	OnlyDirectRoutes           *bool
	AsLegacyTransaction        *bool

	PlatformFeeBps *int
	MaxAccounts    *int
}

// Query encodes the request the way the quote endpoint expects it.
func (r QuoteRequest) Query() url.Values {
	q := url.Values{}
	q.Set("inputMint", r.InputMint)
	q.Set("outputMint", r.OutputMint)
	q.Set("amount", r.Amount)
	q.Set("slippageBps", strconv.Itoa(r.SlippageBps))

	if r.SwapMode != "" {
		q.Set("swapMode", r.SwapMode)
	}
	if len(r.Dexes) > 0 {
		q.Set("dexes", strings.Join(r.Dexes, ","))
	}
	if len(r.ExcludeDexes) > 0 {
		q.Set("excludeDexes", strings.Join(r.ExcludeDexes, ","))
	}
	if r.RestrictIntermediateTokens != nil {
		q.Set("restrictIntermediateTokens", strconv.FormatBool(*r.RestrictIntermediateTokens))
	}
	if r.OnlyDirectRoutes != nil {
		q.Set("onlyDirectRoutes", strconv.FormatBool(*r.OnlyDirectRoutes))
	}
	if r.AsLegacyTransaction != nil {
		q.Set("asLegacyTransaction", strconv.FormatBool(*r.AsLegacyTransaction))
	}
	if r.PlatformFeeBps != nil {
		q.Set("platformFeeBps", strconv.Itoa(*r.PlatformFeeBps))
	}
	if r.MaxAccounts != nil {
		q.Set("maxAccounts", strconv.Itoa(*r.MaxAccounts))
	}
	return q
}

type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	InAmount             string          `json:"inAmount"`
	OutputMint           string          `json:"outputMint"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          int             `json:"slippageBps"`
	PlatformFee          *PlatformFee    `json:"platformFee"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`

	ContextSlot uint64  `json:"contextSlot,omitempty"`
	TimeTaken   float64 `json:"timeTaken,omitempty"`
}

type PlatformFee struct {
	Amount string `json:"amount,omitempty"`
	FeeBps int    `json:"feeBps,omitempty"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
	Bps      int      `json:"bps,omitempty"`
}

type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount,omitempty"`
	FeeMint    string `json:"feeMint,omitempty"`
}

type DynamicSlippage struct {
	MaxBps int `json:"maxBps"`
}

// SwapRequest is the body of both /swap and /swap-instructions.
type SwapRequest struct {
	QuoteResponse *QuoteResponse `json:"quoteResponse,omitempty"`
	UserPublicKey string         `json:"userPublicKey"`

	WrapAndUnwrapSol          *bool            `json:"wrapAndUnwrapSol,omitempty"`
	UseSharedAccounts         *bool            `json:"useSharedAccounts,omitempty"`
	FeeAccount                string           `json:"feeAccount,omitempty"`
	PrioritizationFeeLamports *uint64          `json:"prioritizationFeeLamports,omitempty"`
	DynamicComputeUnitLimit   *bool            `json:"dynamicComputeUnitLimit,omitempty"`
	DynamicSlippage           *DynamicSlippage `json:"dynamicSlippage,omitempty"`
	AsLegacyTransaction       *bool            `json:"asLegacyTransaction,omitempty"`
}

type SwapInstructionsRequest = SwapRequest

type SwapResponse struct {
	SwapTransaction           string                 `json:"swapTransaction"`
	LastValidBlockHeight      uint64                 `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports *uint64                `json:"prioritizationFeeLamports,omitempty"`
	ComputeUnitLimit          *uint64                `json:"computeUnitLimit,omitempty"`
	DynamicSlippageReport     *DynamicSlippageReport `json:"dynamicSlippageReport,omitempty"`
	SimulationError           *SimulationError       `json:"simulationError"`
}

type DynamicSlippageReport struct {
	SlippageBps                  *int   `json:"slippageBps"`
	OtherAmount                  *int64 `json:"otherAmount"`
	SimulatedIncurredSlippageBps *int   `json:"simulatedIncurredSlippageBps,omitempty"`
	AmplificationRatio           string `json:"amplificationRatio,omitempty"`
	CategoryName                 string `json:"categoryName,omitempty"`
	HeuristicMaxSlippageBps      *int   `json:"heuristicMaxSlippageBps,omitempty"`
}

type SimulationError struct {
	ErrorCode string `json:"errorCode"`
	Error     string `json:"error"`
}

type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type Instruction struct {
	ProgramID string        `json:"programId"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      string        `json:"data"` // base64
}

type SwapInstructionsResponse struct {
	TokenLedgerInstruction      *Instruction  `json:"tokenLedgerInstruction"`
	ComputeBudgetInstructions   []Instruction `json:"computeBudgetInstructions"`
	SetupInstructions           []Instruction `json:"setupInstructions"`
	SwapInstruction             *Instruction  `json:"swapInstruction"`
	CleanupInstruction          *Instruction  `json:"cleanupInstruction"`
	OtherInstructions           []Instruction `json:"otherInstructions"`
	AddressLookupTableAddresses []string      `json:"addressLookupTableAddresses"`
	PrioritizationFeeLamports   *uint64       `json:"prioritizationFeeLamports,omitempty"`
	ComputeUnitLimit            *uint64       `json:"computeUnitLimit,omitempty"`
}

type PriceRequest struct {
	IDs []string
}

type TokenPrice struct {
	USDPrice       float64 `json:"usdPrice"`
	BlockID        uint64  `json:"blockId"`
	Decimals       int     `json:"decimals"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// PriceResponse maps mint to price. Unknown mints are simply absent.
type PriceResponse map[string]TokenPrice

type TokenSearchRequest struct {
	Query string
	Mints []string
	Limit int
}

type TokenTagRequest struct {
	Tag string // verified | lst
}

type TokenInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Decimals     int      `json:"decimals"`
	Icon         string   `json:"icon,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	TokenProgram string   `json:"tokenProgram,omitempty"`
	IsVerified   bool     `json:"isVerified"`
	USDPrice     float64  `json:"usdPrice,omitempty"`
	Liquidity    float64  `json:"liquidity,omitempty"`
	OrganicScore float64  `json:"organicScore,omitempty"`
}

// ErrorBody is the failure variant of every endpoint's response.
type ErrorBody = httpclient.Failure

func Bool(v bool) *bool       { return &v }
func Int(v int) *int          { return &v }
func Uint64(v uint64) *uint64 { return &v }
