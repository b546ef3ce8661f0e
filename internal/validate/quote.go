package validate

import (
	"math/big"
	"net/http"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var bpsDenominator = big.NewInt(10_000)

// SuccessfulQuote checks that a 200 quote echoes the request and carries a
// positive outAmount and a non-empty route plan.
func (v *Validator) SuccessfulQuote(resp *httpclient.Response, req jupiter.QuoteRequest) error {
	_, err := v.quote(resp, req)
	return err
}

func (v *Validator) quote(resp *httpclient.Response, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error) {
	if err := expectStatus("quote", resp, http.StatusOK); err != nil {
		return nil, err
	}
	var q jupiter.QuoteResponse
	obj, err := decode("quote", resp, &q)
	if err != nil {
		return nil, err
	}

	if q.InputMint != req.InputMint {
		return nil, violation("quote.inputMint", req.InputMint, q.InputMint, "")
	}
	if q.OutputMint != req.OutputMint {
		return nil, violation("quote.outputMint", req.OutputMint, q.OutputMint, "")
	}
	if q.InAmount != req.Amount {
		return nil, violation("quote.inAmount", req.Amount, q.InAmount, "")
	}
	if err := obj.require("quote", "slippageBps", kindNumber); err != nil {
		return nil, err
	}
	if q.SlippageBps != req.SlippageBps {
		return nil, violation("quote.slippageBps", req.SlippageBps, q.SlippageBps, "")
	}
	if err := obj.require("quote", "outAmount", kindString); err != nil {
		return nil, err
	}
	if _, err := positiveAmount("quote.outAmount", q.OutAmount); err != nil {
		return nil, err
	}
	if err := obj.require("quote", "routePlan", kindArray); err != nil {
		return nil, err
	}
	if len(q.RoutePlan) == 0 {
		return nil, violation("quote.routePlan", "at least one step", 0, "")
	}
	return &q, nil
}

// RoutePercentages checks that the route plan splits exactly 100 percent.
func (v *Validator) RoutePercentages(resp *httpclient.Response) error {
	if err := expectStatus("quote", resp, http.StatusOK); err != nil {
		return err
	}
	var q jupiter.QuoteResponse
	if _, err := decode("quote", resp, &q); err != nil {
		return err
	}
	return routePercentages(&q)
}

func routePercentages(q *jupiter.QuoteResponse) error {
	total := 0
	for _, step := range q.RoutePlan {
		total += step.Percent
	}
	if total != 100 {
		return violation("quote.routePlan.percent", 100, total, "route percentages must sum to 100")
	}
	return nil
}

// StablecoinSwap additionally bounds outAmount/inAmount and priceImpactPct.
func (v *Validator) StablecoinSwap(resp *httpclient.Response, req jupiter.QuoteRequest) error {
	q, err := v.quote(resp, req)
	if err != nil {
		return err
	}

	in, err := decimal.NewFromString(q.InAmount)
	if err != nil || !in.IsPositive() {
		return violation("quote.inAmount", "positive integer", q.InAmount, "")
	}
	out, _ := decimal.NewFromString(q.OutAmount)
	ratio := out.Div(in)

	lo := decimal.NewFromFloat(v.cfg.StablecoinRatioMin)
	hi := decimal.NewFromFloat(v.cfg.StablecoinRatioMax)
	if ratio.LessThan(lo) || ratio.GreaterThan(hi) {
		return violation("quote.ratio", "["+lo.String()+", "+hi.String()+"]", ratio.StringFixed(6), "stablecoin swap deviates from parity")
	}

	impact, err := decimal.NewFromString(q.PriceImpactPct)
	if err != nil {
		return violation("quote.priceImpactPct", "decimal string", q.PriceImpactPct, err.Error())
	}
	ceiling := decimal.NewFromFloat(v.cfg.MaxStablecoinPriceImpactPct)
	if !impact.LessThan(ceiling) {
		return violation("quote.priceImpactPct", "< "+ceiling.String(), impact.String(), "")
	}
	return nil
}

// ExpectedThreshold returns floor(outAmount - outAmount*slippageBps/10000).
func ExpectedThreshold(outAmount *big.Int, slippageBps int) *big.Int {
	// floor((out*10000 - out*bps) / 10000); Div is Euclidean, which is floor
	// for a positive divisor.
	num := new(big.Int).Mul(outAmount, big.NewInt(int64(10_000-slippageBps)))
	return num.Div(num, bpsDenominator)
}

// SlippageCalculation recomputes otherAmountThreshold and allows a
// SlippageTolerance unit difference.
func (v *Validator) SlippageCalculation(resp *httpclient.Response, req jupiter.QuoteRequest) error {
	q, err := v.quote(resp, req)
	if err != nil {
		return err
	}

	out, _ := new(big.Int).SetString(q.OutAmount, 10)
	threshold, ok := new(big.Int).SetString(q.OtherAmountThreshold, 10)
	if !ok {
		return violation("quote.otherAmountThreshold", "integer string", q.OtherAmountThreshold, "")
	}

	expected := ExpectedThreshold(out, q.SlippageBps)
	diff := new(big.Int).Sub(threshold, expected)
	diff.Abs(diff)
	if diff.Cmp(big.NewInt(v.cfg.SlippageTolerance)) > 0 {
		return violation("quote.otherAmountThreshold", expected.String(), threshold.String(), "differs by "+diff.String())
	}
	return nil
}

// DirectRoutesOnly requires a single step that swaps the requested mints.
func (v *Validator) DirectRoutesOnly(resp *httpclient.Response, req jupiter.QuoteRequest) error {
	q, err := v.quote(resp, req)
	if err != nil {
		return err
	}
	if len(q.RoutePlan) != 1 {
		return violation("quote.routePlan", 1, len(q.RoutePlan), "direct route expected")
	}
	info := q.RoutePlan[0].SwapInfo
	if info.InputMint != req.InputMint {
		return violation("quote.routePlan[0].swapInfo.inputMint", req.InputMint, info.InputMint, "")
	}
	if info.OutputMint != req.OutputMint {
		return violation("quote.routePlan[0].swapInfo.outputMint", req.OutputMint, info.OutputMint, "")
	}
	return nil
}

// MultiRoute requires liquidity to be split over more than one step.
func (v *Validator) MultiRoute(resp *httpclient.Response, req jupiter.QuoteRequest) error {
	q, err := v.quote(resp, req)
	if err != nil {
		return err
	}
	if len(q.RoutePlan) < 2 {
		return violation("quote.routePlan", "more than one step", len(q.RoutePlan), "large amounts should be split")
	}
	return routePercentages(q)
}

// IntermediateTokenRestriction requires both quotes to succeed. Route
// shapes may legitimately differ, so they are only logged.
func (v *Validator) IntermediateTokenRestriction(restricted, unrestricted *httpclient.Response, req jupiter.QuoteRequest) error {
	r, err := v.quote(restricted, req)
	if err != nil {
		return err
	}
	u, err := v.quote(unrestricted, req)
	if err != nil {
		return err
	}
	v.logger.WithFields(logrus.Fields{
		"restricted_routes":   len(r.RoutePlan),
		"unrestricted_routes": len(u.RoutePlan),
	}).Debug("intermediate token restriction")
	return nil
}

// QuoteSchema checks presence and JSON type of every documented field.
func (v *Validator) QuoteSchema(resp *httpclient.Response) error {
	if err := expectStatus("quote", resp, http.StatusOK); err != nil {
		return err
	}
	var q struct {
		RoutePlan []object `json:"routePlan"`
	}
	obj, err := decode("quote", resp, &q)
	if err != nil {
		return err
	}

	fields := []struct {
		key  string
		want kind
	}{
		{"inputMint", kindString},
		{"inAmount", kindString},
		{"outputMint", kindString},
		{"outAmount", kindString},
		{"otherAmountThreshold", kindString},
		{"swapMode", kindString},
		{"slippageBps", kindNumber},
		{"priceImpactPct", kindString},
		{"routePlan", kindArray},
		{"contextSlot", kindNumber},
		{"timeTaken", kindNumber},
	}
	for _, f := range fields {
		if err := obj.require("quote", f.key, f.want); err != nil {
			return err
		}
	}

	for _, step := range q.RoutePlan {
		if err := step.require("quote.routePlan", "percent", kindNumber); err != nil {
			return err
		}
		info, err := step.child("quote.routePlan", "swapInfo")
		if err != nil {
			return err
		}
		for _, key := range []string{"ammKey", "label", "inputMint", "outputMint", "inAmount", "outAmount", "feeAmount", "feeMint"} {
			if err := info.require("quote.routePlan.swapInfo", key, kindString); err != nil {
				return err
			}
		}
	}
	return nil
}

func positiveAmount(check, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 {
		return nil, violation(check, "positive integer", s, "")
	}
	return n, nil
}
