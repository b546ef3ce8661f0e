package mockapi

import (
	"fmt"
	"math/big"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// splitThresholdUSD is the notional above which a quote is spread over
// several pools unless direct routes are forced.
var splitThresholdUSD = decimal.NewFromInt(1_000_000)

var splitPools = []struct {
	label   string
	percent int
}{
	{"Whirlpool", 40},
	{"Raydium CLMM", 30},
	{"Meteora DLMM", 20},
	{"SolFi", 10},
}

// Router prices swaps against the catalog. It is deterministic for a given
// request apart from contextSlot and timeTaken.
type Router struct {
	catalog *Catalog
	program solana.PublicKey
	genesis time.Time
}

func NewRouter(catalog *Catalog, program solana.PublicKey) *Router {
	return &Router{catalog: catalog, program: program, genesis: time.Now()}
}

// slot advances roughly every 400ms like mainnet.
func (r *Router) slot() uint64 {
	return 352_000_000 + uint64(time.Since(r.genesis)/(400*time.Millisecond))
}

type route struct {
	in, out     *listing
	amount      uint64
	slippageBps int
	direct      bool
}

// poolFeeBps is charged on the input of every step.
func (rt route) poolFeeBps() int64 {
	if rt.in.stable() && rt.out.stable() {
		return 1
	}
	return 5
}

// Quote builds an ExactIn quote.
func (r *Router) Quote(rt route) jupiter.QuoteResponse {
	start := time.Now()

	inAmount := decimal.NewFromBigInt(new(big.Int).SetUint64(rt.amount), 0)
	notional := inAmount.Mul(rt.in.unitPrice())

	steps := []struct {
		label   string
		percent int
	}{{"Whirlpool", 100}}
	if !rt.direct && notional.GreaterThan(splitThresholdUSD) {
		steps = splitPools
	}

	var (
		plan     []jupiter.RoutePlanStep
		totalOut = decimal.Zero
		used     = decimal.Zero
	)
	for i, s := range steps {
		stepIn := inAmount.Mul(decimal.NewFromInt(int64(s.percent))).Div(decimal.NewFromInt(100)).Floor()
		if i == len(steps)-1 {
			stepIn = inAmount.Sub(used)
		}
		used = used.Add(stepIn)

		fee := stepIn.Mul(decimal.NewFromInt(rt.poolFeeBps())).Div(decimal.NewFromInt(10_000)).Floor()
		stepOut := stepIn.Sub(fee).Mul(rt.in.unitPrice()).Div(rt.out.unitPrice()).Floor()
		totalOut = totalOut.Add(stepOut)

		plan = append(plan, jupiter.RoutePlanStep{
			SwapInfo: jupiter.SwapInfo{
				AmmKey:     r.ammKey(s.label, rt.in.info.ID, rt.out.info.ID).String(),
				Label:      s.label,
				InputMint:  rt.in.info.ID,
				OutputMint: rt.out.info.ID,
				InAmount:   stepIn.String(),
				OutAmount:  stepOut.String(),
				FeeAmount:  fee.String(),
				FeeMint:    rt.in.info.ID,
			},
			Percent: s.percent,
			Bps:     s.percent * 100,
		})
	}

	// impact grows with notional against pool liquidity
	impact := notional.Div(decimal.NewFromFloat(rt.in.info.Liquidity + rt.out.info.Liquidity))

	out := totalOut.BigInt()
	return jupiter.QuoteResponse{
		InputMint:            rt.in.info.ID,
		InAmount:             inAmount.String(),
		OutputMint:           rt.out.info.ID,
		OutAmount:            out.String(),
		OtherAmountThreshold: minimumOut(out, rt.slippageBps).String(),
		SwapMode:             "ExactIn",
		SlippageBps:          rt.slippageBps,
		PriceImpactPct:       impact.StringFixed(16),
		RoutePlan:            plan,
		ContextSlot:          r.slot(),
		TimeTaken:            time.Since(start).Seconds(),
	}
}

// minimumOut is floor(out * (10000 - bps) / 10000).
func minimumOut(out *big.Int, bps int) *big.Int {
	n := new(big.Int).Mul(out, big.NewInt(int64(10_000-bps)))
	return n.Div(n, big.NewInt(10_000))
}

func (r *Router) ammKey(label, in, out string) solana.PublicKey {
	a, b := in, out
	if a > b {
		a, b = b, a
	}
	key, _, err := solana.FindProgramAddress([][]byte{[]byte(label), solana.MPK(a).Bytes(), solana.MPK(b).Bytes()}, r.program)
	if err != nil {
		panic(fmt.Sprintf("amm key for %s: %v", label, err))
	}
	return key
}
