package constants

import "time"

// API endpoints
const (
	DefaultBaseURL = "https://lite-api.jup.ag"

	PathQuote            = "/swap/v1/quote"
	PathSwap             = "/swap/v1/swap"
	PathSwapInstructions = "/swap/v1/swap-instructions"
	PathPrice            = "/price/v3"
	PathTokenSearch      = "/tokens/v2/search"
	PathTokenTag         = "/tokens/v2/tag"

	DefaultHTTPTimeout = 10 * time.Second
)

// Token mints
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	MintBONK = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	MintRAY  = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R"
	MintJUP  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	MintMSOL = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
)

// Addresses used by negative cases
const (
	InvalidAddress     = "invalid_address_123"
	NonExistentAddress = "1111111111111111111111111111111111111111111"
	BadBase58Address   = "0OIl111111111111111111111111111111111111111"
)

// Program IDs
const (
	ComputeBudgetProgram = "ComputeBudget111111111111111111111111111111"
	JupiterProgram       = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	TokenProgram         = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	SystemProgram        = "11111111111111111111111111111111"
)

// Signer used for swap building. Never signs anything.
const UserPublicKey = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

// Amounts in smallest units
const (
	AmountSmall      = "10000000"   // 0.01 SOL
	AmountMedium     = "100000000"  // 0.1 SOL
	AmountLarge      = "1000000000" // 1 SOL
	AmountUSDCSmall  = "1000000"    // 1 USDC
	AmountUSDCMedium = "18388092"
	AmountUSDCLarge  = "1000000000"
	AmountMillionSOL = "1000000000000000"
	AmountZero       = "0"
	AmountNegative   = "-100000000"
)

// Slippage in basis points
const (
	SlippageVeryLow  = 10
	SlippageLow      = 50
	SlippageMedium   = 100
	SlippageHigh     = 300
	SlippageVeryHigh = 1000
	SlippageNegative = -10
)

// Priority fees in lamports
const (
	PriorityFeeLow      uint64 = 1000
	PriorityFeeMedium   uint64 = 5000
	PriorityFeeHigh     uint64 = 10000
	PriorityFeeVeryHigh uint64 = 50000
)

// Error codes returned by the API
const (
	ErrCodeNoRoute            = "COULD_NOT_FIND_ANY_ROUTE"
	ErrCodeCircularArbitrage  = "CIRCULAR_ARBITRAGE_IS_DISABLED"
	ErrCodeTokenNotTradable   = "TOKEN_NOT_TRADABLE"
	ErrCodeInvalidQueryParams = "INVALID_QUERY_PARAMS"
)

// Validation tolerances
const (
	StablecoinRatioMin          = 0.995
	StablecoinRatioMax          = 1.005
	MaxStablecoinPriceImpactPct = 0.5
	PriorityFeeMargin           = 5
	MaxComputeUnitLimit         = 1_400_000
	SlippageThresholdTolerance  = 1
	SOLUSDCPriceMin             = 15.0
	SOLUSDCPriceMax             = 25.0
)

// Token tags accepted by the tag endpoint
const (
	TagVerified = "verified"
	TagLST      = "lst"
)

// Result storage
const (
	RedisKeyResultIndex  = "results:index"
	RedisKeyResultPrefix = "results:"
	ClickHouseTable      = "scenario_runs"

	ChannelRunsAll         = "runs:all"
	ChannelRunsGroupPrefix = "runs:group:"
)

// Token mint addresses to symbols
var TokenSymbols = map[string]string{
	MintSOL:  "SOL",
	MintUSDC: "USDC",
	MintUSDT: "USDT",
	MintBONK: "BONK",
	MintRAY:  "RAY",
	MintJUP:  "JUP",
	MintMSOL: "mSOL",
}
